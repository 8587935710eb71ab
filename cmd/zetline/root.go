package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relset/zetline/internal/calculate"
	"github.com/relset/zetline/internal/filesystem"
	"github.com/relset/zetline/internal/lines"
	"github.com/relset/zetline/internal/operand"
	"github.com/relset/zetline/internal/watcher"
	"github.com/relset/zetline/internal/zetset"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "zetline <operation> file [file...]",
	Short:   "Multiset operations over lines of text files",
	Long: `zetline treats each file's lines as a multiset and computes one of
union, intersect, diff, single, multiple, single-by-file, or
multiple-by-file across them, streaming the result to standard output.`,
	Version: version,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(2)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	},
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runZetline,
}

func init() {
	rootCmd.Flags().StringP("count", "c", "", "report an occurrence count: lines or files")
	rootCmd.Flags().Int("width", 0, "fixed width for the count column (0 sizes to the largest count)")
	rootCmd.Flags().Bool("color", false, "force-enable colored count output")
	rootCmd.Flags().Bool("no-color", false, "force-disable colored count output")
	rootCmd.Flags().BoolP("watch", "w", false, "re-run the calculation whenever an operand file changes")
	rootCmd.Flags().BoolP("null", "z", false, "line delimiter is NUL, not newline")

	viper.BindPFlag("count", rootCmd.Flags().Lookup("count"))
	viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	viper.BindPFlag("color", rootCmd.Flags().Lookup("color"))
	viper.BindPFlag("no-color", rootCmd.Flags().Lookup("no-color"))
	viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))
	viper.BindPFlag("null", rootCmd.Flags().Lookup("null"))

	viper.SetEnvPrefix("zetline")
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// usageError marks an error that should exit with status 2 rather than 1.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if as(err, &ue) {
		return 2
	}
	return 1
}

func as(err error, target **usageError) bool {
	for err != nil {
		if ue, ok := err.(*usageError); ok {
			*target = ue
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func runZetline(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	operation, err := calculate.ParseOperation(args[0])
	if err != nil {
		return &usageError{err}
	}

	logMode, err := calculate.ParseLogMode(viper.GetString("count"))
	if err != nil {
		return &usageError{err}
	}

	terminator := lines.LF
	if viper.GetBool("null") {
		terminator = lines.NUL
	}

	opts := calculate.Options{
		Width: viper.GetInt("width"),
		Color: shouldColor(cmd.OutOrStdout(), viper.GetBool("color"), viper.GetBool("no-color")),
	}

	paths := args[1:]
	for _, p := range paths[1:] {
		if p == "-" {
			return &usageError{fmt.Errorf("standard input (\"-\") can only be the first operand, since later operands must be independently re-openable")}
		}
	}

	opener := filesystem.NewFileOpener()
	out := cmd.OutOrStdout()

	run := func() error {
		first, err := operand.LoadFirst(paths[0], opener, cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading %s: %w", paths[0], err)
		}

		rest := make([]zetset.LaterOperand, 0, len(paths)-1)
		for _, p := range paths[1:] {
			rest = append(rest, operand.File{Path: p, Opener: opener, Terminator: terminator})
		}

		return calculate.Calculate(operation, logMode, terminator, first, rest, opts, out)
	}

	if !viper.GetBool("watch") {
		return run()
	}
	return watchAndRun(ctx, paths, run)
}

// watchAndRun runs fn once immediately, then again each time one of paths
// changes, until ctx is cancelled.
func watchAndRun(ctx context.Context, paths []string, fn func() error) error {
	watchable := paths[:0:0]
	for _, p := range paths {
		if p != "-" {
			watchable = append(watchable, p)
		}
	}

	if err := fn(); err != nil {
		return err
	}
	if len(watchable) == 0 {
		return nil
	}

	w, err := watcher.New(watchable)
	if err != nil {
		return fmt.Errorf("starting watch: %w", err)
	}
	defer w.Close()

	events, errs := w.Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if err := fn(); err != nil {
				return err
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching: %w", err)
		}
	}
}

// shouldColor decides whether the count column should be ANSI-colored: an
// explicit flag wins, otherwise color is on only when out is a terminal.
func shouldColor(out interface{ Write([]byte) (int, error) }, forceOn, forceOff bool) bool {
	if forceOff {
		return false
	}
	if forceOn {
		return true
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
