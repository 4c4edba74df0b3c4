package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"memorylane/internal"
)

var formatFlag string

var findDuplicatesCmd = &cobra.Command{
	Use:   "find-duplicates [folder]",
	Short: "Find duplicate media files in a folder based on file content",
	Long: `Hash every supported photo and video directly inside folder and list the
groups of byte-identical files. Nothing is deleted or moved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := args[0]

		// Verify folder before any processing starts
		if _, err := internal.CheckFolder(folder); err != nil {
			return err
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		return findDuplicates(cmd.Context(), e, folder, formatFlag, cmd.OutOrStdout())
	},
}

func findDuplicates(ctx context.Context, e *env, folder, format string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sets, err := e.pipeline().FindDuplicates(ctx, folder)
	if err != nil {
		return err
	}
	return internal.DisplayDuplicates(out, folder, sets, format)
}

func init() {
	findDuplicatesCmd.Flags().StringVar(&formatFlag, "format", "table", "Output format: table, json")

	rootCmd.AddCommand(findDuplicatesCmd)
}
