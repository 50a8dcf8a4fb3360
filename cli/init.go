package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/paperwork/books"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed taxonomies from config",
		Long: `Create every table that does not exist yet, then add the taxonomy values
listed under "seed:" in the config file. Values already present (same name)
are skipped, so running init twice does not duplicate them.

Example:
  paperwork init --db ./paperwork.db --config ./paperwork.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, rootOpts)
		},
	}
}

func runInit(cmd *cobra.Command, opts *RootOptions) error {
	svc, st, err := openBooks(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	seeded := make(map[string]int)
	var lines strings.Builder

	for _, kind := range books.TaxonomyKinds() {
		names := opts.Config.SeedValues()[kind]
		if len(names) == 0 {
			continue
		}

		existing, err := svc.ListTaxonomy(ctx, kind)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to list "+string(kind), err)
		}
		have := make(map[string]bool, len(existing))
		for _, v := range existing {
			have[v.Name] = true
		}

		for _, name := range names {
			if have[name] {
				continue
			}
			if _, err := svc.AddTaxonomyValue(ctx, kind, name); err != nil {
				return WrapExitError(ExitFailure, "failed to seed "+string(kind), err)
			}
			have[name] = true
			seeded[string(kind)]++
		}
		slog.Debug("taxonomy seeded", "kind", kind, "added", seeded[string(kind)])
		fmt.Fprintf(&lines, "%-28s %d added\n", kind, seeded[string(kind)])
	}

	fmt.Fprintf(&lines, "database ready: %s\n", opts.Config.Database)
	return opts.formatter(cmd).Success(map[string]any{
		"database": opts.Config.Database,
		"seeded":   seeded,
	}, lines.String())
}
