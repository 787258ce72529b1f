package vnc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"pvctl/internal/utils"
	"pvctl/pkg/logging"
)

var (
	// ErrPasswdFile wraps failures producing the viewer credential file.
	ErrPasswdFile = errors.New("cannot create a vncpasswd(1) file")
	// ErrViewerStart wraps failures spawning the console viewer.
	ErrViewerStart = errors.New("cannot start vncviewer(1)")
)

const passwdFilePrefix = "pvcvnc_"

// Launcher opens a console viewer against a VNC endpoint using a one-time
// password file.
type Launcher struct {
	Runner        utils.CommandRunner
	PasswdCommand []string
	ViewerCommand []string
	CleanupDelay  time.Duration
	// TempDir is where the password file is created; empty means os.TempDir().
	TempDir string
	// Sleep waits out the cleanup delay; nil means time.Sleep.
	Sleep func(time.Duration)
}

// Launch writes an obfuscated password file, starts the viewer pointed at
// host:port, waits for CleanupDelay and removes the file. The file is removed
// on every return path.
func (l *Launcher) Launch(ctx context.Context, host string, port int, password string) error {
	if len(l.PasswdCommand) == 0 || len(l.ViewerCommand) == 0 {
		return errors.New("passwd and viewer commands must be configured")
	}

	f, err := os.CreateTemp(l.TempDir, passwdFilePrefix)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswdFile, err)
	}
	passwdFile := f.Name()
	defer func() {
		if err := os.Remove(passwdFile); err != nil && !os.IsNotExist(err) {
			logging.Warn("VNC", "failed to remove password file %s: %v", passwdFile, err)
		}
	}()

	stdin := []byte(fmt.Sprintf("%s\n%s\n", password, password))
	out, err := l.Runner.Run(ctx, l.PasswdCommand[0], l.PasswdCommand[1:], stdin)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrPasswdFile, err)
	}
	if _, err := f.Write(out); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrPasswdFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswdFile, err)
	}

	args := append(append([]string(nil), l.ViewerCommand[1:]...),
		"-passwd", passwdFile, net.JoinHostPort(host, strconv.Itoa(port)))
	logging.Info("VNC", "launching %s for %s:%d", l.ViewerCommand[0], host, port)
	startErr := l.Runner.Start(l.ViewerCommand[0], args)
	if startErr != nil {
		startErr = fmt.Errorf("%w: %v", ErrViewerStart, startErr)
	}

	// The viewer reads the password file after it starts.
	sleep := l.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(l.CleanupDelay)

	return startErr
}
