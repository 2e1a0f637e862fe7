package pipeline

import (
	"context"
	"io"
	"os/exec"

	"golang.org/x/xerrors"
)

// ErrEmptyOperation is returned when an operation has no command name.
var ErrEmptyOperation = xerrors.New("pipeline: empty operation")

// Executor runs a single operation to completion.
type Executor func(ctx context.Context, argv []string) error

// NewCommandExecutor creates an Executor that runs operations as child processes with the given
// standard output and error streams. Processes are killed when the context is done.
func NewCommandExecutor(stdout io.Writer, stderr io.Writer) Executor {
	return func(ctx context.Context, argv []string) error {
		if len(argv) == 0 || argv[0] == "" {
			return ErrEmptyOperation
		}

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr

		return cmd.Run()
	}
}
