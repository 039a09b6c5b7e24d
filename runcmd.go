package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// cmdRunner abstracts external command execution so the batch logic can
// be driven by a recording fake in tests.
type cmdRunner interface {
	// run executes args, returning captured stdout when capture is true.
	// Without capture the child inherits the runner's output streams.
	run(args []string, capture bool) (string, error)
}

// cmdError reports a command that exited nonzero.
type cmdError struct {
	args   []string
	code   int
	stderr string
}

func (e *cmdError) Error() string {
	return fmt.Sprintf("%s failed (code %d): %s", strings.Join(e.args, " "), e.code, e.stderr)
}

// execRunner runs commands via os/exec. Every child gets QUOTING_STYLE=c
// so coreutils output formatting stays deterministic.
type execRunner struct {
	verbose bool
	echo    io.Writer
	stdout  io.Writer
	stderr  io.Writer
}

func (r *execRunner) run(args []string, capture bool) (string, error) {
	if r.verbose {
		fmt.Fprintf(r.echo, "  $ %s\n", strings.Join(args, " "))
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = append(os.Environ(), "QUOTING_STYLE=c")

	var stdout, stderr bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &cmdError{args: args, code: exitErr.ExitCode(), stderr: stderr.String()}
		}
		return "", fmt.Errorf("running %s: %w", args[0], err)
	}
	return stdout.String(), nil
}
