package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesainslie/foldersort/pkg/foldersort/session"
	"github.com/jamesainslie/foldersort/pkg/foldersort/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Keep a folder sorted as files arrive",
	Long: `Watch sorts the folder once, then again each time new files settle at its
top level. Empty folders are only removed with --yes; otherwise they are left
in place. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a run")
	_ = viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, cfg, err := buildOptions(cmd.Flags().Changed)
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

	w, err := watch.New(target, watch.Options{
		Debounce:   cfg.Watch.Debounce,
		RunOnStart: true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	yes := viper.GetBool("yes")
	s := session.New(w.Root(), opts)
	printInfo("Watching %s (Ctrl+C to stop)", w.Root())

	err = w.Run(ctx, func() {
		out, err := s.Run(func([]string) bool { return yes })
		stamp := time.Now().Format("15:04:05")
		if err != nil {
			printError("%s %s", stamp, s.Status)
			return
		}
		if out.Result != nil && len(out.Result.Moves) == 0 && out.Cleanup != session.CleanupCleaned {
			printVerbose("%s nothing to move", stamp)
			return
		}
		printInfo("%s %s", stamp, s.Status)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
