package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jamesainslie/foldersort/pkg/foldersort/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage foldersort configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/foldersort/config.yaml (if set)
  2. ~/.config/foldersort/config.yaml

Environment variables override config file settings using the FOLDERSORT_ prefix:
  FOLDERSORT_DEFAULT_PATH=~/Downloads
  FOLDERSORT_ORGANIZE_BY_DATE=false
  FOLDERSORT_CLEANUP_USE_TRASH=true`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, file, environment and flags.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in $VISUAL, $EDITOR or vi.

If the config file doesn't exist, a default one is created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configEnvVars are the environment variables config show reports.
var configEnvVars = []string{
	"default_path",
	"organize.by_date",
	"organize.date_source",
	"organize.exclude_symlinks",
	"organize.excluded_suffixes",
	"organize.exclude",
	"organize.no_extension_dir",
	"cleanup.enabled",
	"cleanup.use_trash",
	"watch.debounce",
	"logging.level",
	"logging.path",
}

// envName maps a config key to its FOLDERSORT_ variable.
func envName(key string) string {
	return "FOLDERSORT_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("default_path:               %s\n", cfg.DefaultPath)
	fmt.Printf("organize.by_date:           %t\n", cfg.Organize.ByDate)
	fmt.Printf("organize.date_source:       %s\n", cfg.Organize.DateSource)
	fmt.Printf("organize.exclude_symlinks:  %t\n", cfg.Organize.ExcludeSymlinks)
	fmt.Printf("organize.excluded_suffixes: %v\n", cfg.Organize.ExcludedSuffixes)
	fmt.Printf("organize.exclude:           %v\n", cfg.Organize.Exclude)
	fmt.Printf("organize.no_extension_dir:  %s\n", cfg.Organize.NoExtensionDir)
	fmt.Printf("cleanup.enabled:            %t\n", cfg.Cleanup.Enabled)
	fmt.Printf("cleanup.use_trash:          %t\n", cfg.Cleanup.UseTrash)
	fmt.Printf("watch.debounce:             %s\n", cfg.Watch.Debounce)
	fmt.Printf("logging.level:              %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:               %s\n", logPath)

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	anyOverrides := false
	for _, key := range configEnvVars {
		name := envName(key)
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'foldersort config edit' to modify it.")
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
