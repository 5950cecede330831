// Package cli implements the argmap command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/argmap/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "argmap v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "argmap",
	Short: "argmap - Argdown argument map parser and graph builder",
	Long: `argmap reads argument maps written in Argdown and builds a typed graph of
propositions, arguments and the dialectical relations between them.

Sources can be plain Argdown files, Markdown or HTML documents with embedded
argdown code blocks, URLs, or "-" for standard input.

Relations between arguments are inferred from the premises and conclusions
they share. Nothing beyond directly stated relations is derived.`,
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
	Long:  `Display the version number of argmap.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.argmap/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

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

		viper.AddConfigPath(filepath.Join(home, ".argmap"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// ARGMAP_HTTP_TIMEOUT overrides http.timeout
	viper.SetEnvPrefix("ARGMAP")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file, environment and bound flags over the
// built-in defaults
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	bindDefaults(cfg)
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// newLogger logs to stderr, at debug level when verbose
func newLogger(cfg model.Config) *slog.Logger {
	level := slog.LevelInfo
	if verbose || cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
