package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimsight/claim-analyzer/internal/app"
	"github.com/claimsight/claim-analyzer/internal/ingest"
)

var (
	scanExts       []string
	scanSkipHidden bool
	scanWatch      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Analyze every claim document under a directory",
	Long: `Scan walks a directory and analyzes every supported document it finds.
With --watch it keeps running and analyzes new documents as they are
dropped into the directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		a, err := app.Build(ctx, buildConfig(), logger)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer a.Close()

		in := ingest.NewIntake(a.Processor, logger)

		if scanWatch {
			return in.RunWatch(ctx, ingest.WatchConfig{
				Roots:       []string{args[0]},
				InitialScan: true,
				Debounce:    a.Config.Intake.Debounce,
			})
		}

		results, stats, err := in.ScanDirectory(ctx, args[0], scanExts, scanSkipHidden)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != "" {
				fmt.Printf("FAIL  %s: %s\n", r.Path, r.Err)
				continue
			}
			fmt.Printf("%-14s %s\n", r.Verdict, r.Path)
		}
		fmt.Printf("\nmatched=%d succeeded=%d failed=%d\n", stats.Matched, stats.Succeeded, stats.Failed)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanExts, "ext", nil, "extensions to include (default pdf,jpg,jpeg,png,tif,tiff)")
	scanCmd.Flags().BoolVar(&scanSkipHidden, "skip-hidden", true, "skip hidden files and directories")
	scanCmd.Flags().BoolVar(&scanWatch, "watch", false, "keep watching the directory for new documents")
	rootCmd.AddCommand(scanCmd)
}
