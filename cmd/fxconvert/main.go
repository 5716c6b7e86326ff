// fxconvert converts amounts between currencies using live Finage rates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fxconvert/internal/config"
	"fxconvert/internal/logging"
)

var (
	cfg     config.Config
	logger  = zap.NewNop()
	flushFn = func() {}
)

func main() {
	err := rootCmd.Execute()
	flushFn()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "fxconvert",
	Short:         "Convert amounts between currencies at live spot rates",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if configFile == "" {
			configFile = os.Getenv("CONFIG_FILE")
		}
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}

		l, flush, err := logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		logger, flushFn = l, flush
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: $CONFIG_FILE or ./config.json)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(currenciesCmd)
}
