package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/codesmith/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "codesmith",
	Short: "Bounded generate-compile-repair loop for LLM-written programs",
	Long:  "Asks a text-generation provider for source code, builds it with a native compiler, and feeds diagnostics back until the build succeeds or a time/attempt budget runs out.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
