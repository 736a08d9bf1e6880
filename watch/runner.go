package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrRegeneration is matched by errors from a failed regeneration run.
var ErrRegeneration = errors.New("regeneration failed")

// Runner performs one regeneration.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// ExecRunner runs the regeneration as a separate process. A non-zero exit
// status is reported as an error.
type ExecRunner struct {
	Command string
	Args    []string
	Dir     string

	// Stdout and Stderr default to the current process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner builds an ExecRunner from a command line whose first element
// is the program.
func NewExecRunner(argv []string, dir string) (*ExecRunner, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("command is required")
	}
	return &ExecRunner{Command: argv[0], Args: argv[1:], Dir: dir}, nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, r.Command, r.Args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRegeneration, r.String(), err)
	}
	return nil
}

func (r *ExecRunner) String() string {
	return strings.Join(append([]string{r.Command}, r.Args...), " ")
}
