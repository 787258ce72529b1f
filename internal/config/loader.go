package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd
var osLookupEnv = os.LookupEnv

const (
	userConfigDir    = ".config/pvctl"
	projectConfigDir = ".pvctl"
	configFileName   = "config.yaml"
	cacheDir         = ".cache/pvctl"
	logFileName      = "pvctl.log"
)

const (
	envURL      = "GOVC_URL"
	envUserName = "GOVC_USERNAME"
	envPassword = "GOVC_PASSWORD"
	envInsecure = "GOVC_INSECURE"
)

// LoadConfig loads the pvctl configuration by layering default, user, project
// and environment settings. The result is validated.
func LoadConfig() (PvctlConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return PvctlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	// 3. Project-specific configuration
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return PvctlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	// 4. Environment
	config = mergeConfigs(config, configFromEnv())

	if err := config.Validate(); err != nil {
		return PvctlConfig{}, err
	}
	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a PvctlConfig from a YAML file.
func loadConfigFromFile(filePath string) (PvctlConfig, error) {
	var config PvctlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return PvctlConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return PvctlConfig{}, err
	}
	return config, nil
}

// configFromEnv reads the govc-compatible environment variables.
func configFromEnv() PvctlConfig {
	var config PvctlConfig
	if v, ok := osLookupEnv(envURL); ok {
		config.VCenter.URL = v
	}
	if v, ok := osLookupEnv(envUserName); ok {
		config.VCenter.Username = v
	}
	if v, ok := osLookupEnv(envPassword); ok {
		config.VCenter.Password = v
	}
	if v, ok := osLookupEnv(envInsecure); ok && v != "" {
		insecure := false
		switch strings.ToLower(v[0:1]) {
		case "t", "y", "1":
			insecure = true
		}
		config.VCenter.Insecure = &insecure
	}
	return config
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in the
// overlay leave the base untouched.
func mergeConfigs(base, overlay PvctlConfig) PvctlConfig {
	merged := base

	if overlay.VCenter.URL != "" {
		merged.VCenter.URL = overlay.VCenter.URL
	}
	if overlay.VCenter.Username != "" {
		merged.VCenter.Username = overlay.VCenter.Username
	}
	if overlay.VCenter.Password != "" {
		merged.VCenter.Password = overlay.VCenter.Password
	}
	if overlay.VCenter.Insecure != nil {
		insecure := *overlay.VCenter.Insecure
		merged.VCenter.Insecure = &insecure
	}

	c, o := &merged.Console, overlay.Console
	if o.PortRangeStart != 0 {
		c.PortRangeStart = o.PortRangeStart
	}
	if o.PortRangeEnd != 0 {
		c.PortRangeEnd = o.PortRangeEnd
	}
	if o.PortAttempts != 0 {
		c.PortAttempts = o.PortAttempts
	}
	if o.PasswordLength != 0 {
		c.PasswordLength = o.PasswordLength
	}
	if o.ProbeTimeout != 0 {
		c.ProbeTimeout = o.ProbeTimeout
	}
	if len(o.PasswdCommand) > 0 {
		c.PasswdCommand = append([]string(nil), o.PasswdCommand...)
	}
	if len(o.ViewerCommand) > 0 {
		c.ViewerCommand = append([]string(nil), o.ViewerCommand...)
	}
	if o.CleanupDelay != 0 {
		c.CleanupDelay = o.CleanupDelay
	}

	if overlay.Tasks.PollInterval != 0 {
		merged.Tasks.PollInterval = overlay.Tasks.PollInterval
	}

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.File != "" {
		merged.Logging.File = overlay.Logging.File
	}
	if overlay.Logging.BufferSize != 0 {
		merged.Logging.BufferSize = overlay.Logging.BufferSize
	}

	return merged
}

// Validate rejects configurations the console cannot work with.
func (c PvctlConfig) Validate() error {
	var errs []error
	if c.Console.PortRangeStart <= 0 || c.Console.PortRangeEnd > 65535 || c.Console.PortRangeStart > c.Console.PortRangeEnd {
		errs = append(errs, fmt.Errorf("invalid console port range %d-%d", c.Console.PortRangeStart, c.Console.PortRangeEnd))
	}
	if c.Console.PortAttempts <= 0 {
		errs = append(errs, fmt.Errorf("console.portAttempts must be positive, got %d", c.Console.PortAttempts))
	}
	if c.Console.PasswordLength <= 0 {
		errs = append(errs, fmt.Errorf("console.passwordLength must be positive, got %d", c.Console.PasswordLength))
	}
	if len(c.Console.PasswdCommand) == 0 || len(c.Console.ViewerCommand) == 0 {
		errs = append(errs, errors.New("console.passwdCommand and console.viewerCommand must not be empty"))
	}
	if c.Tasks.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("tasks.pollInterval must be positive, got %s", c.Tasks.PollInterval))
	}
	return errors.Join(errs...)
}

// LogFilePath returns the configured log file, or the default under the user's cache directory.
func (c PvctlConfig) LogFilePath() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, cacheDir, logFileName), nil
}
