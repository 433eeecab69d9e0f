// Package config provides configuration management for ezdev using Viper.
//
// Configuration is read from ezdev.yaml in the project directory or the
// XDG config home, with EZDEV_-prefixed environment variables taking
// precedence. Every value has a default, so ezdev works in a fresh
// checkout with no config file at all.
package config
