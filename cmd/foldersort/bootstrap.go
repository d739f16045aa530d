package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/foldersort/pkg/foldersort/config"
	"github.com/jamesainslie/foldersort/pkg/foldersort/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initializeLogging is the PersistentPreRunE hook. It makes sure the config
// and state directories exist and starts file logging from the merged
// configuration.
func initializeLogging(cmd *cobra.Command, args []string) error {
	if err := ensureDirectories(); err != nil {
		return err
	}
	return logging.Init(loggingConfig(false))
}

// initTUILogging restarts logging with console output off so log lines do
// not tear the interactive shell.
func initTUILogging() error {
	return logging.Init(loggingConfig(true))
}

func ensureDirectories() error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	for _, dir := range []string{configDir, config.StateDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

func loggingConfig(tui bool) logging.Config {
	v := viper.GetViper()

	cfg := logging.Config{
		Level:      v.GetString("logging.level"),
		Path:       v.GetString("logging.path"),
		Components: v.GetStringMapString("logging.components"),
		TUIMode:    tui,
		Rotation: parseRotationConfig(config.RotationConfig{
			MaxSize:    v.GetString("logging.rotation.max_size"),
			MaxAge:     v.GetInt("logging.rotation.max_age"),
			MaxBackups: v.GetInt("logging.rotation.max_backups"),
			Daily:      v.GetBool("logging.rotation.daily"),
		}),
	}
	if cfg.Level == "" {
		cfg.Level = config.DefaultLogLevel
	}
	if path, err := config.ExpandPath(cfg.Path); err == nil && path != "" {
		cfg.Path = path
	} else {
		cfg.Path = config.DefaultLogPath()
	}
	if getVerbose() {
		cfg.ConsoleLevel = "debug"
	}
	return cfg
}

// parseRotationConfig converts the config file's rotation settings. An
// unparseable max_size falls back to the default size.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	rot, err := logging.ParseRotation(rc.MaxSize, rc.MaxAge, rc.MaxBackups, rc.Daily)
	if err != nil {
		printVerbose("%v, using default", err)
	}
	return rot
}
