package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"memorylane/internal"
)

var (
	authorFlag   string
	dryRunFlag   bool
	watchFlag    bool
	progressFlag bool
)

const watchDebounce = 750 * time.Millisecond

var renameCmd = &cobra.Command{
	Use:   "rename [folder]",
	Short: "Rename media files in a folder based on their creation date and author",
	Long: `Rename every supported photo and video directly inside folder to
<date>-<identity>.<ext>. The date comes from embedded metadata, falling back to the
file modification time; the identity is the author/device fingerprint or, without
one, the content hash. Existing files are never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := args[0]

		if _, err := internal.CheckFolder(folder); err != nil {
			return err
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		author := authorFlag
		if author == "" {
			author = e.conf.Author
		}
		opts := internal.RenameOptions{
			Author: author,
			DryRun: dryRunFlag,
			Out:    cmd.OutOrStdout(),
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := renameFolder(ctx, e, folder, opts, progressFlag); err != nil {
			return err
		}
		if !watchFlag {
			return nil
		}
		return watchFolder(ctx, e, folder, opts)
	},
}

// renameFolder runs one pass and prints the summary and error report.
func renameFolder(ctx context.Context, e *env, folder string, opts internal.RenameOptions, progress bool) error {
	_, err := renamePass(ctx, e, folder, opts, progress)
	return err
}

func renamePass(ctx context.Context, e *env, folder string, opts internal.RenameOptions, progress bool) (internal.RenameStats, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	p := e.pipeline()
	if progress {
		files, err := internal.ScanMediaFiles(folder, e.conf)
		if err == nil && len(files) > 0 {
			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Classifying"),
				progressbar.OptionSetWidth(20),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			defer bar.Finish()
			p.OnFile = func(*internal.MediaFile) { _ = bar.Add(1) }
		}
	}

	fmt.Fprintf(out, "Renaming files in '%s'...\n", folder)
	if opts.DryRun {
		fmt.Fprintln(out, "Dry run mode: no files will be renamed")
	}

	session, err := p.Rename(ctx, folder, opts)
	if session == nil {
		return internal.RenameStats{}, err
	}
	stats := session.GetStats()
	if stats.Skipped > 0 || stats.Unreadable > 0 {
		color.New(color.FgYellow).Fprint(out, session.Errors().GenerateReport())
	}
	fmt.Fprintf(out, "Finished. Renamed %d file(s).\n", stats.Renamed)
	return stats, err
}

// watchPass runs one pass and prints its output only when something happened.
func watchPass(ctx context.Context, e *env, folder string, opts internal.RenameOptions) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	var buf bytes.Buffer
	opts.Out = &buf

	stats, err := renamePass(ctx, e, folder, opts, false)
	if err != nil {
		e.log.WithError(err).Error("rename pass failed")
	}
	if stats.Renamed > 0 || stats.Skipped > 0 {
		io.Copy(out, &buf)
	}
}

// watchFolder re-runs the rename pass whenever new media files settle in folder.
func watchFolder(ctx context.Context, e *env, folder string, opts internal.RenameOptions) error {
	w, err := internal.NewWatcher(folder, e.conf)
	if err != nil {
		return fmt.Errorf("failed to start folder watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintf(opts.Out, "Watching '%s' for new files (Ctrl+C to stop)\n", folder)
	w.Run(ctx, watchDebounce, func() {
		watchPass(ctx, e, folder, opts)
	}, func(err error) {
		e.log.WithError(err).Warn("watcher error")
	})
	return nil
}

func init() {
	renameCmd.Flags().StringVar(&authorFlag, "author", "", "Override author name for all files. If not provided, uses metadata if available.")
	renameCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show renames without touching files")
	renameCmd.Flags().BoolVar(&watchFlag, "watch", false, "Keep running and rename new files as they appear")
	renameCmd.Flags().BoolVar(&progressFlag, "progress", false, "Show a progress bar while classifying")

	rootCmd.AddCommand(renameCmd)
}
