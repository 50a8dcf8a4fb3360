package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/paperwork/books"
)

// NewTaxonomyCommand creates the taxonomy command group.
func NewTaxonomyCommand(rootOpts *RootOptions) *cobra.Command {
	kinds := make([]string, 0, len(books.TaxonomyKinds()))
	for _, k := range books.TaxonomyKinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Manage lookup lists (creditors, categories, ...)",
		Long:  "Kinds: " + strings.Join(kinds, ", "),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "list <kind>",
			Short:     "List the values of a taxonomy",
			Args:      cobra.ExactArgs(1),
			ValidArgs: kinds,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTaxonomyList(cmd, rootOpts, args[0])
			},
		},
		&cobra.Command{
			Use:   "add <kind> <name>",
			Short: "Add a value to a taxonomy",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTaxonomyAdd(cmd, rootOpts, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "delete <kind> <id>",
			Short: "Delete a value from a taxonomy",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTaxonomyDelete(cmd, rootOpts, args[0], args[1])
			},
		},
	)
	return cmd
}

func parseKind(s string) (books.TaxonomyKind, error) {
	kind, err := books.ParseTaxonomyKind(s)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "unknown taxonomy", err)
	}
	return kind, nil
}

func runTaxonomyList(cmd *cobra.Command, opts *RootOptions, arg string) error {
	kind, err := parseKind(arg)
	if err != nil {
		return err
	}
	svc, st, err := openBooks(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	values, err := svc.ListTaxonomy(cmd.Context(), kind)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list "+string(kind), err)
	}

	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "%d\t%s\n", v.ID, v.Name)
	}
	return opts.formatter(cmd).Success(values, b.String())
}

func runTaxonomyAdd(cmd *cobra.Command, opts *RootOptions, arg, name string) error {
	kind, err := parseKind(arg)
	if err != nil {
		return err
	}
	svc, st, err := openBooks(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := svc.AddTaxonomyValue(cmd.Context(), kind, name)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to add to "+string(kind), err)
	}
	return opts.formatter(cmd).Success(books.TaxonomyValue{ID: id, Name: name},
		fmt.Sprintf("added %s %d: %s\n", kind, id, name))
}

func runTaxonomyDelete(cmd *cobra.Command, opts *RootOptions, arg, idArg string) error {
	kind, err := parseKind(arg)
	if err != nil {
		return err
	}
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	svc, st, err := openBooks(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := svc.DeleteTaxonomyValue(cmd.Context(), kind, id); err != nil {
		return WrapExitError(ExitFailure, "failed to delete from "+string(kind), err)
	}
	return opts.formatter(cmd).Success(map[string]any{"kind": kind, "id": id},
		fmt.Sprintf("deleted %s %d\n", kind, id))
}
