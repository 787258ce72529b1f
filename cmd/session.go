package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pvctl/internal/config"
	"pvctl/internal/dialog"
	"pvctl/internal/utils"
	"pvctl/internal/vnc"
	"pvctl/internal/vsphere"
	"pvctl/internal/widget"
	"pvctl/pkg/logging"
)

// sessionFlags are the connection flags shared by connect and console.
type sessionFlags struct {
	username string
	insecure bool
	debug    bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "vCenter username (overrides GOVC_USERNAME)")
	cmd.Flags().BoolVarP(&f.insecure, "insecure", "k", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Write debug messages to the log file")
}

// session is an authenticated console ready to display controllers.
type session struct {
	cfg    config.PvctlConfig
	client *vsphere.Client
	env    *widget.Env
	vnc    widget.VncDeps
	closer io.Closer
}

// applyFlags layers command line values over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.PvctlConfig, flags *sessionFlags, args []string) {
	if len(args) > 0 && args[0] != "" {
		cfg.VCenter.URL = args[0]
	}
	if cmd.Flags().Changed("username") {
		cfg.VCenter.Username = flags.username
	}
	if cmd.Flags().Changed("insecure") {
		insecure := flags.insecure
		cfg.VCenter.Insecure = &insecure
	}
	if flags.debug {
		cfg.Logging.Level = "debug"
	}
}

// logFallback receives log output once the session's log file is closed.
var logFallback io.Writer = os.Stderr

// logFile hands logging back to logFallback before the file is closed.
type logFile struct {
	*os.File
	level logging.LogLevel
}

func (l logFile) Close() error {
	logging.InitForCLI(l.level, logFallback)
	return l.File.Close()
}

// openLog routes logging to the configured file; the terminal belongs to dialogs.
func openLog(cfg config.PvctlConfig) (io.Closer, error) {
	path, err := cfg.LogFilePath()
	if err != nil {
		return nil, fmt.Errorf("resolving log file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	level := logging.ParseLevel(cfg.Logging.Level)
	logging.InitForTUI(level, f, cfg.Logging.BufferSize)
	return logFile{File: f, level: level}, nil
}

// promptCredentials asks for whatever part of the login is missing.
func promptCredentials(d dialog.Dialog, cfg *config.PvctlConfig) error {
	if cfg.VCenter.Username != "" && cfg.VCenter.Password != "" {
		return nil
	}
	fields := []dialog.Field{
		{Label: "Username", Value: cfg.VCenter.Username},
		{Label: "Password", Masked: true},
	}
	code, values, err := d.Form("Login", fmt.Sprintf("Enter credentials for %s", cfg.VCenter.URL), fields)
	if err != nil {
		return err
	}
	if code != dialog.OK {
		return dialog.ErrAborted
	}
	if values[0] == "" || values[1] == "" {
		return errors.New("username and password are required")
	}
	cfg.VCenter.Username, cfg.VCenter.Password = values[0], values[1]
	return nil
}

func vncDeps(cfg config.ConsoleConfig) widget.VncDeps {
	return widget.VncDeps{
		Prober: vnc.DialProber{Timeout: cfg.ProbeTimeout},
		Rand:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Launcher: &vnc.Launcher{
			Runner:        utils.ExecRunner{},
			PasswdCommand: cfg.PasswdCommand,
			ViewerCommand: cfg.ViewerCommand,
			CleanupDelay:  cfg.CleanupDelay,
		},
		Ports:          vnc.PortRange{Start: cfg.PortRangeStart, End: cfg.PortRangeEnd},
		PortAttempts:   cfg.PortAttempts,
		PasswordLength: cfg.PasswordLength,
	}
}

// openSession loads configuration, logs in and wires the controllers' environment.
func openSession(ctx context.Context, cmd *cobra.Command, flags *sessionFlags, args []string) (*session, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New("pvctl needs an interactive terminal")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, &cfg, flags, args)
	if cfg.VCenter.URL == "" {
		return nil, errors.New("no vCenter URL given; pass it as an argument or set GOVC_URL")
	}

	closer, err := openLog(cfg)
	if err != nil {
		return nil, err
	}

	d := dialog.NewTerminal(dialog.WithAltScreen(true))
	if err := promptCredentials(d, &cfg); err != nil {
		_ = closer.Close()
		return nil, err
	}
	if err := d.InfoBox("pvctl", fmt.Sprintf("Connecting to %s ...", cfg.VCenter.URL)); err != nil {
		_ = closer.Close()
		return nil, err
	}

	client, err := vsphere.Connect(ctx, cfg.VCenter.URL, cfg.VCenter.Username, cfg.VCenter.Password, cfg.VCenter.IsInsecure())
	if err != nil {
		logging.Error("Session", err, "login failed")
		_ = closer.Close()
		return nil, err
	}

	return &session{
		cfg:    cfg,
		client: client,
		env:    &widget.Env{API: client, Dialog: d, PollInterval: cfg.Tasks.PollInterval},
		vnc:    vncDeps(cfg.Console),
		closer: closer,
	}, nil
}

// Close logs out and closes the log file. Later log calls go to stderr.
func (s *session) Close(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		logging.Warn("Session", "logout failed: %v", err)
	}
	_ = s.closer.Close()
}
