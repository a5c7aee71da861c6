// Package cli implements the lexhound command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexhound/lexhound/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lexhound",
	Short: "Lexhound - legal citation extraction and verification",
	Long: `Lexhound finds case citations in legal documents, groups parallel
citations that report the same case, and attempts to verify each citation
against external legal databases.

Lexhound never asserts that a citation is fabricated. An unverified result
means the configured sources could not confirm the citation, nothing more.
What the document says (extracted data) and what the sources say (canonical
data) are always reported separately.`,
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
		fmt.Println("lexhound v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lexhound/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

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
		viper.AddConfigPath(home + "/.lexhound")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LEXHOUND_*
	viper.SetEnvPrefix("LEXHOUND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the effective configuration: defaults, then config
// file and environment, then flags (applied by the callers).
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("verify.courtlistener.base_url"); v != "" {
		cfg.Verify.CourtListener.BaseURL = v
	}
	if v := viper.GetString("verify.courtlistener.api_token"); v != "" {
		cfg.Verify.CourtListener.APIToken = v
	}
	if v := viper.GetString("verify.fallback_search_url"); v != "" {
		cfg.Verify.FallbackSearchURL = v
	}
	if v := viper.GetStringSlice("verify.sources"); len(v) > 0 {
		cfg.Verify.Sources = v
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetFloat64("concurrency.requests_per_second"); v > 0 {
		cfg.Concurrency.RequestsPerSecond = v
	}

	// The CourtListener token is a credential; the environment wins.
	if v := os.Getenv("COURTLISTENER_API_TOKEN"); v != "" {
		cfg.Verify.CourtListener.APIToken = v
	}

	cfg.Output.Verbose = verbose
	return cfg
}
