package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/foldersort/pkg/foldersort/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "foldersort [path]",
		Short: "Sort the files of a folder into per-extension folders",
		Long: `Foldersort moves the files at the top of a folder into one folder per
extension, optionally split further by creation date, and offers to remove
the empty folders left behind.

Without a path, foldersort opens an interactive shell that asks for one.

Examples:
  foldersort ~/Downloads                  # Sort into <ext>/<YYYY-MM-DD>
  foldersort --policy simple ~/Downloads  # Sort into <ext> only
  foldersort -d -o table ~/Downloads      # Preview the moves
  foldersort -y --trash ~/Downloads       # Trash empty folders without asking
  foldersort watch ~/Downloads            # Sort new files as they arrive
  foldersort config show                  # Show configuration`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: initializeLogging,
		RunE:              runOrganize,
		SilenceUsage:      true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/foldersort/config.yaml)")
	flags.String("policy", "", "preset policy: simple, dated or enhanced")
	flags.Bool("by-date", true, "bucket files by date inside each extension folder")
	flags.String("date-source", config.DefaultDateSource, "timestamp used for date buckets: created, modified or exif")
	flags.StringSliceP("exclude", "e", nil, "glob patterns of names to leave in place (can be repeated)")
	flags.StringSlice("exclude-suffix", nil, "name suffixes to leave in place, e.g. .lnk,.part (can be repeated)")
	flags.String("no-ext-dir", config.DefaultNoExtensionDir, "folder for files without an extension")
	flags.Bool("include-symlinks", false, "move symbolic links like regular files")
	flags.BoolP("dry-run", "d", false, "plan the moves without touching anything")
	flags.Bool("cleanup", true, "look for empty folders after organizing")
	flags.BoolP("yes", "y", false, "remove empty folders without asking")
	flags.Bool("trash", false, "send empty folders to the system trash")
	flags.BoolP("quiet", "q", false, "minimal output")
	flags.BoolP("verbose", "v", false, "debug output")
	flags.BoolP("interactive", "i", false, "open the interactive shell")

	_ = viper.BindPFlag("policy", flags.Lookup("policy"))
	_ = viper.BindPFlag("organize.by_date", flags.Lookup("by-date"))
	_ = viper.BindPFlag("organize.date_source", flags.Lookup("date-source"))
	_ = viper.BindPFlag("organize.exclude", flags.Lookup("exclude"))
	_ = viper.BindPFlag("organize.excluded_suffixes", flags.Lookup("exclude-suffix"))
	_ = viper.BindPFlag("organize.no_extension_dir", flags.Lookup("no-ext-dir"))
	_ = viper.BindPFlag("include_symlinks", flags.Lookup("include-symlinks"))
	_ = viper.BindPFlag("dry_run", flags.Lookup("dry-run"))
	_ = viper.BindPFlag("cleanup.enabled", flags.Lookup("cleanup"))
	_ = viper.BindPFlag("yes", flags.Lookup("yes"))
	_ = viper.BindPFlag("cleanup.use_trash", flags.Lookup("trash"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("interactive", flags.Lookup("interactive"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)
	config.ConfigureSources(v, cfgFile)

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			printError("reading config: %v", err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
