// Package desktop hands stored file paths to the operating system.
package desktop

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener launches the platform's default handler for a path. It implements
// books.PathOpener.
type Opener struct {
	goos  string
	start func(name string, args ...string) error
}

// New returns an Opener for the running platform.
func New() *Opener {
	return &Opener{goos: runtime.GOOS, start: startDetached}
}

// Open launches the handler and returns once it has started. The handler
// keeps running after the request that asked for it has finished, so ctx is
// not tied to the child process.
func (o *Opener) Open(_ context.Context, path string) error {
	name, args, err := Command(o.goos, path)
	if err != nil {
		return err
	}
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("open %q with %s: %w", path, name, err)
	}
	return nil
}

// Command returns the program and arguments that open path on goos.
func Command(goos, path string) (string, []string, error) {
	switch goos {
	case "windows":
		return "explorer", []string{path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("opening files is not supported on %s", goos)
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() // reap
	return nil
}
