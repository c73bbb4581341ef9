// internal/config/constants.go
package config

// AppName is used for config/log file locations.
const AppName = "celled"

// DefaultConfigFileName is the config file looked up under the user
// config dir when no --config flag is given.
const DefaultConfigFileName = "config.toml"

// Editor defaults.
const (
	DefaultSystemClipboard = true
	DefaultSaveOnFocusLoss = true
)
