package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimsight/claim-analyzer/internal/verify"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Inspect the verification reference data",
}

var refdataValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the policy and limit databases against their schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()
		logger := newLogger()

		refs, err := verify.LoadReferenceData(cfg.RefData.PoliciesPath, cfg.RefData.LimitsPath, logger)
		if err != nil {
			return fmt.Errorf("reference data invalid: %w", err)
		}
		fmt.Printf("Reference data OK: %s\n", refs)
		return nil
	},
}

func init() {
	refdataCmd.AddCommand(refdataValidateCmd)
	rootCmd.AddCommand(refdataCmd)
}
