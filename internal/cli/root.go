// Package cli implements the claimctl command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/claimsight/claim-analyzer/internal/common"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimctl",
	Short: "Claimctl - insurance claim document analysis",
	Long: `Claimctl analyzes scanned insurance-claim documents: it runs OCR over
the document, extracts the claim fields, verifies them against the policy
and limit databases, and prints the adjudication verdict together with
provider-reputation signals and recommendations.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimctl v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claim-analyzer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("db", "", "database DSN (postgres:// URL or sqlite path)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.claim-analyzer")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLAIMS_*
	viper.SetEnvPrefix("CLAIMS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig layers viper values over the env-var defaults.
func buildConfig() *common.Config {
	cfg := common.LoadConfig()
	if v := viper.GetString("db"); v != "" {
		cfg.Database.DSN = v
	}
	if v := viper.GetString("ner_url"); v != "" {
		cfg.NER.BaseURL = v
	}
	if v := viper.GetString("policies_db"); v != "" {
		cfg.RefData.PoliciesPath = v
	}
	if v := viper.GetString("procedures_db"); v != "" {
		cfg.RefData.LimitsPath = v
	}
	if v := viper.GetString("gazetteer"); v != "" {
		cfg.NER.GazetteerPath = v
	}
	if v := viper.GetString("advisor_provider"); v != "" {
		cfg.Advisor.Provider = v
	}
	if cfg.Database.DSN == "" {
		// local default keeps the CLI usable without a Postgres instance
		cfg.Database.DSN = defaultLocalDSN()
	}
	return cfg
}

func defaultLocalDSN() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "claims.db"
	}
	dir := home + "/.claim-analyzer"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "claims.db"
	}
	return dir + "/claims.db"
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
