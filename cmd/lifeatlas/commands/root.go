// Package commands implements the CLI commands for lifeatlas.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lifeatlas/lifeatlas/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "lifeatlas",
	Short: "Turn free-form utterances into structured, domain-routed life records",
	Long: `lifeatlas extracts structured entities from a single natural-language
utterance and routes each one into a life-data domain (financial,
health, fitness, pets, calendar, ...).

Examples:
  # One-shot extraction
  lifeatlas extract "ran 5 miles in 42 minutes, spent $12 on a smoothie"

  # Read the utterance from stdin, route and emit YAML
  echo "vet visit for Max, $85" | lifeatlas extract --route --format yaml

  # List the domain catalog
  lifeatlas domains`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log-json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.lifeatlas.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".lifeatlas")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LIFEATLAS")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
