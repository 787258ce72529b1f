package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"pvctl/pkg/logging"
)

// CommandRunner runs external programs. Run waits for completion and returns
// standard output; Start launches a program without waiting for it.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)
	Start(name string, args []string) error
}

// ExecRunner is the os/exec backed CommandRunner.
type ExecRunner struct{}

// Run executes name with args, feeding stdin and capturing stdout.
// A non-zero exit status is reported as an error that includes stderr.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderrBuf.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdoutBuf.Bytes(), fmt.Errorf("'%s' exited with status %d: %s", name, exitErr.ExitCode(), stderrStr)
		}
		return stdoutBuf.Bytes(), fmt.Errorf("failed to execute '%s': %w", name, err)
	}
	return stdoutBuf.Bytes(), nil
}

// Start launches name detached from the terminal's standard streams and
// reaps it in the background.
func (ExecRunner) Start(name string, args []string) error {
	cmd := exec.Command(name, args...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start '%s': %w", name, err)
	}
	logging.Debug("Exec", "started %s (pid %d)", name, cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Warn("Exec", "%s exited: %v %s", name, err, strings.TrimSpace(stderrBuf.String()))
			return
		}
		logging.Debug("Exec", "%s exited", name)
	}()
	return nil
}
