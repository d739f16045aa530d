package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jamesainslie/foldersort/cmd/foldersort/tui"
	"github.com/jamesainslie/foldersort/pkg/foldersort/organizer"
	"github.com/jamesainslie/foldersort/pkg/foldersort/session"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var organizeCmd = &cobra.Command{
	Use:   "organize [path]",
	Short: "Sort a folder (same as running foldersort with a path)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOrganize,
}

func init() {
	rootCmd.AddCommand(organizeCmd)
}

// runOrganize is the main command: sort one folder and settle its empty folders.
func runOrganize(cmd *cobra.Command, args []string) error {
	opts, cfg, err := buildOptions(cmd.Flags().Changed)
	if err != nil {
		return err
	}
	target, err := resolveTarget(args, cfg)
	if err != nil {
		return err
	}

	if wantInteractive(target) {
		return runInteractive(target, opts)
	}

	formatter, err := selectFormatter()
	if err != nil {
		return err
	}

	printVerbose("Organizing %s (policy %+v, date source %s)",
		target, opts.Organizer.Policy, opts.Organizer.DateSource)

	bar := newProgressBar()
	if bar != nil {
		opts.Organizer.OnMove = func(done, total int, _ organizer.Move) {
			if bar.GetMax() != total {
				bar.ChangeMax(total)
			}
			_ = bar.Set(done)
		}
	}

	s := session.New(target, opts)
	out, err := s.Organize()
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		if out.Result != nil && len(out.Result.Moves) > 0 && !getQuiet() {
			// Report the moves that happened before the failure.
			if text, ferr := render(formatter, out); ferr == nil {
				fmt.Fprint(os.Stderr, text)
			}
		}
		return &statusError{status: out.Status, err: err}
	}

	var cleanupErr error
	if out.Cleanup == session.CleanupPending {
		cleanupErr = s.Cleanup(out, confirmCleanup(out.EmptyFolders, os.Stdin, os.Stderr))
	}

	if !getQuiet() {
		text, err := render(formatter, out)
		if err != nil {
			return err
		}
		fmt.Print(text)
	}

	if cleanupErr != nil {
		return &statusError{status: out.Status, err: cleanupErr}
	}
	return nil
}

// statusError carries the user-facing status line of a failed run while
// keeping the underlying error reachable for errors.Is and errors.As.
type statusError struct {
	status string
	err    error
}

func (e *statusError) Error() string { return e.status }

func (e *statusError) Unwrap() error { return e.err }

// wantInteractive reports whether the run belongs in the interactive shell:
// asked for with --interactive, or no folder given while on a terminal.
func wantInteractive(target string) bool {
	if viper.GetBool("interactive") {
		return true
	}
	return target == "" && isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func runInteractive(target string, opts session.Options) error {
	if err := initTUILogging(); err != nil {
		return fmt.Errorf("failed to initialize TUI logging: %w", err)
	}
	return tui.Run(tui.Options{
		Target:  target,
		Session: opts,
	})
}

// confirmCleanup asks on out whether dirs may be removed. --yes answers for
// the user; without a terminal on in the folders are left in place.
func confirmCleanup(dirs []string, in *os.File, out io.Writer) bool {
	if viper.GetBool("yes") {
		return true
	}
	if !isTerminal(in) {
		printVerbose("stdin is not a terminal, leaving %d empty folder(s)", len(dirs))
		return false
	}
	return promptYesNo(dirs, in, out)
}

// promptYesNo lists dirs and reads a y/N answer from in.
func promptYesNo(dirs []string, in io.Reader, out io.Writer) bool {
	for _, d := range dirs {
		fmt.Fprintf(out, "  %s\n", d)
	}
	fmt.Fprintf(out, "%s [y/N] ", session.ConfirmPrompt(len(dirs)))

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// newProgressBar returns a bar on stderr for pretty output on a terminal.
func newProgressBar() *progressbar.ProgressBar {
	if getQuiet() || viper.GetString("output") != "pretty" || !isTerminal(os.Stderr) {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Organizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
