package config

import (
	"time"
)

// PvctlConfig is the top-level configuration structure for pvctl.
type PvctlConfig struct {
	VCenter VCenterConfig `yaml:"vcenter"`
	Console ConsoleConfig `yaml:"console"`
	Tasks   TasksConfig   `yaml:"tasks"`
	Logging LoggingConfig `yaml:"logging"`
}

// VCenterConfig describes how to reach the vSphere API endpoint.
type VCenterConfig struct {
	URL      string `yaml:"url,omitempty"`
	Username string `yaml:"username,omitempty"`
	// Password is only populated from the environment.
	Password string `yaml:"-"`
	// Insecure skips TLS verification; nil means "not set" so overlays can tell
	// an explicit false from an absent key.
	Insecure *bool `yaml:"insecure,omitempty"`
}

// IsInsecure reports whether TLS verification is disabled.
func (v VCenterConfig) IsInsecure() bool {
	return v.Insecure != nil && *v.Insecure
}

// ConsoleConfig controls VNC console provisioning and the external viewer tools.
type ConsoleConfig struct {
	PortRangeStart int           `yaml:"portRangeStart,omitempty"`
	PortRangeEnd   int           `yaml:"portRangeEnd,omitempty"`
	PortAttempts   int           `yaml:"portAttempts,omitempty"`
	PasswordLength int           `yaml:"passwordLength,omitempty"`
	ProbeTimeout   time.Duration `yaml:"probeTimeout,omitempty"`
	PasswdCommand  []string      `yaml:"passwdCommand,omitempty"`
	ViewerCommand  []string      `yaml:"viewerCommand,omitempty"`
	CleanupDelay   time.Duration `yaml:"cleanupDelay,omitempty"`
}

// TasksConfig controls how remote tasks are tracked.
type TasksConfig struct {
	PollInterval time.Duration `yaml:"pollInterval,omitempty"`
}

// LoggingConfig controls the log level and destination.
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`
	File       string `yaml:"file,omitempty"`
	BufferSize int    `yaml:"bufferSize,omitempty"`
}
