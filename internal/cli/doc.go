// Package cli provides command-line interface setup and configuration
// for the transbridge application. It handles flag parsing, command
// creation, configuration management using cobra and viper, logger setup
// and rendering of translation results.
package cli
