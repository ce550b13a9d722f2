package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/app"
	"github.com/claimsight/claim-analyzer/internal/entity"
)

var analyzeText bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a claim document and print the adjudication",
	Long: `Analyze runs the full pipeline for one document: OCR, field extraction,
rule verification, provider reputation lookup and recommendations.
With --text the argument is read as an already-recognized text file and
OCR is skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		a, err := app.Build(ctx, buildConfig(), logger)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer a.Close()

		var claim *entity.Claim
		if analyzeText {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read text file: %w", err)
			}
			_, claim, err = a.Processor.ProcessText(ctx, args[0], string(raw))
			if err != nil {
				return err
			}
		} else {
			_, claim, err = a.Processor.ProcessFile(ctx, args[0])
			if err != nil {
				return err
			}
		}

		printClaim(claim)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeText, "text", false, "treat the argument as recognized text, skipping OCR")
	rootCmd.AddCommand(analyzeCmd)
}

func printClaim(c *entity.Claim) {
	fmt.Printf("Verdict: %s\n\n", c.Verdict)

	fmt.Println("Extracted fields:")
	rec := c.Record()
	for _, key := range constants.FieldKeys {
		fmt.Printf("  %-20s %s\n", key+":", rec.Fields()[key])
	}

	fmt.Println("\nVerification checklist:")
	for _, chk := range c.Checks {
		mark := "✅"
		if chk.Status == constants.CheckFail {
			mark = "❌"
		}
		fmt.Printf("  %s %s\n", mark, chk.Message)
	}

	if c.Reputation != nil {
		fmt.Printf("\nProvider reputation [%s]: %s\n", c.Reputation.Status, c.Reputation.Summary)
		if c.Reputation.Details != "" {
			fmt.Printf("  %s\n", c.Reputation.Details)
		}
	}

	fmt.Println("\nRecommendations:")
	for _, r := range c.Recommendations {
		fmt.Printf("  - %s\n", r)
	}
}
