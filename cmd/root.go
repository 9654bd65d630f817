package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pagefit/pagefit/internal/binning"
	"github.com/pagefit/pagefit/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pagefit",
	Short: "Call-graph aware bin assignment for code layout hardening",
	Long: `Pagefit reads a function size and call-graph profile and assigns every
function to a fixed-size bin, keeping call-connected code together so a
randomized layout touches as few pages per call chain as possible.

Bin ids map one-to-one onto output sections (".bin_1", ".bin_2", ...)
that a linker script can place independently.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: pagefit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	// Global flags that map to config
	rootCmd.PersistentFlags().Int64("bin-capacity", binning.DefaultBinCapacity, "bin capacity in bytes")
	rootCmd.PersistentFlags().Int64("min-item-size", binning.DefaultMinItemSize, "smallest leftover space worth tracking")
	rootCmd.PersistentFlags().String("strategy", "callgraph", "assignment strategy: callgraph or simple")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format: table or json")
	rootCmd.PersistentFlags().String("metrics-out", "", "write Prometheus textfile metrics to this path")

	_ = viper.BindPFlag("binning.bin_capacity", rootCmd.PersistentFlags().Lookup("bin-capacity"))
	_ = viper.BindPFlag("binning.min_item_size", rootCmd.PersistentFlags().Lookup("min-item-size"))
	_ = viper.BindPFlag("binning.strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("metrics.textfile_path", rootCmd.PersistentFlags().Lookup("metrics-out"))
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagefit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.pagefit")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("PAGEFIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return initLogger()
}

// initLogger builds the process logger. Logs go to stderr so stdout
// stays clean for reports.
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	return nil
}
