// Package cli provides command-line interface setup and configuration
// for levelc. It handles flag parsing, command creation, and turns flags,
// the config file and the environment into a config.Config using cobra and
// viper.
package cli
