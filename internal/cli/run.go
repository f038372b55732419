package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Represents the 'medusa run' command.
type RunCmd struct {
	Identifier string `arg:"" help:"Alias, path, or directory name of the server."`
}

// Executes the run command.
//
// Resolves the server's controller and prints the process that would start
// it. The process is not executed.
func (c *RunCmd) Run(ctx context.Context) error {
	m, err := openManager("")
	if err != nil {
		return err
	}

	ctrl, err := m.Controller(c.Identifier)
	if err != nil {
		return err
	}

	proc, err := ctrl.Launch()
	if err != nil {
		return err
	}

	return writeProcess(os.Stdout, proc)
}

// Writes the working directory and a shell-quoted command line for proc.
func writeProcess(w io.Writer, proc *specs.Process) error {
	args := make([]string, len(proc.Args))
	for i, a := range proc.Args {
		if strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		args[i] = a
	}

	if _, err := fmt.Fprintf(w, "cwd: %s\n", proc.Cwd); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "cmd: %s\n", strings.Join(args, " "))
	return err
}
