// Package config provides configuration management for pvctl.
//
// Configuration is loaded from multiple sources and merged in a specific
// order, with later sources overriding earlier ones:
//
//  1. Default configuration (compiled in, see GetDefaultConfig)
//  2. User configuration (~/.config/pvctl/config.yaml)
//  3. Project configuration (./.pvctl/config.yaml)
//  4. Environment (GOVC_URL, GOVC_USERNAME, GOVC_PASSWORD, GOVC_INSECURE)
//
// Command line flags are applied on top by the cmd package.
//
// # Configuration Structure
//
//	vcenter:
//	  url: "https://vcenter.example.org/sdk"
//	  username: "administrator@vsphere.local"
//	  insecure: false
//
//	console:
//	  portRangeStart: 5901
//	  portRangeEnd: 5999
//	  portAttempts: 10
//	  passwordLength: 8
//	  probeTimeout: 2s
//	  passwdCommand: ["vncpasswd", "-f"]
//	  viewerCommand: ["vncviewer"]
//	  cleanupDelay: 3s
//
//	tasks:
//	  pollInterval: 500ms
//
//	logging:
//	  level: info
//	  file: ""          # defaults to ~/.cache/pvctl/pvctl.log
//	  bufferSize: 500
//
// The password is never read from configuration files, only from the
// environment or an interactive prompt.
package config
