package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jamesainslie/foldersort/pkg/foldersort/audit"
	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
	"github.com/jamesainslie/foldersort/pkg/foldersort/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Find and remove empty folders without organizing",
	Long: `Clean walks a folder and lists every folder below it that has no entries at
all. A folder holding only empty folders is not listed; run clean again once
its children are gone. The folders are removed after confirmation, or straight
away with --yes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	_, cfg, err := buildOptions(cmd.Flags().Changed)
	if err != nil {
		return err
	}
	target, err := resolveTarget(args, cfg)
	if err != nil {
		return err
	}
	if target == "" {
		return errors.New(session.MsgNoFolder)
	}
	if err := checkDir(target); err != nil {
		return err
	}

	dirs, err := audit.Find(target)
	if err != nil {
		return fmt.Errorf("auditing empty folders: %w", err)
	}
	if len(dirs) == 0 {
		printInfo("No empty folders found.")
		return nil
	}

	opts := audit.Options{UseTrash: cfg.Cleanup.UseTrash, DryRun: viper.GetBool("dry_run")}
	if !opts.DryRun && !confirmCleanup(dirs, os.Stdin, os.Stderr) {
		printInfo("Left %d empty folder(s) in place.", len(dirs))
		return nil
	}

	removed, err := audit.Remove(dirs, opts)
	if err != nil {
		return fmt.Errorf("removed %d of %d empty folder(s): %w", len(removed), len(dirs), err)
	}
	if opts.DryRun {
		for _, d := range removed {
			printInfo("%s", d)
		}
		printInfo("Dry run: %d empty folder(s) would be removed.", len(removed))
		return nil
	}
	printInfo("Deleted %d empty folder(s).", len(removed))
	return nil
}

// checkDir rejects targets that are missing or not directories with the
// same errors the organizer uses.
func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", organizer.ErrDirectoryNotFound, path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", organizer.ErrNotDirectory, path)
	}
	return nil
}
