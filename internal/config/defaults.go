package config

import "time"

const (
	DefaultPortRangeStart = 5901
	DefaultPortRangeEnd   = 5999
	DefaultPortAttempts   = 10
	DefaultPasswordLength = 8
)

// GetDefaultConfig returns the built-in configuration.
func GetDefaultConfig() PvctlConfig {
	insecure := false
	return PvctlConfig{
		VCenter: VCenterConfig{
			Insecure: &insecure,
		},
		Console: ConsoleConfig{
			PortRangeStart: DefaultPortRangeStart,
			PortRangeEnd:   DefaultPortRangeEnd,
			PortAttempts:   DefaultPortAttempts,
			PasswordLength: DefaultPasswordLength,
			ProbeTimeout:   2 * time.Second,
			PasswdCommand:  []string{"vncpasswd", "-f"},
			ViewerCommand:  []string{"vncviewer"},
			CleanupDelay:   3 * time.Second,
		},
		Tasks: TasksConfig{
			PollInterval: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			BufferSize: 500,
		},
	}
}
