package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/codesmith/internal/builder"
	"github.com/forgeworks/codesmith/internal/refine"
	"github.com/forgeworks/codesmith/internal/report"
	"github.com/forgeworks/codesmith/internal/sanitize"
	"github.com/forgeworks/codesmith/pkg/llm"
)

var (
	runPromptFile string
	runModel      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one refinement session from the configured prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runPromptFile != "" {
			cfg.Generation.PromptFile = runPromptFile
		}
		if runModel != "" {
			cfg.Generation.Model = runModel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		profile, err := sanitize.ProfileFor(cfg.Generation.Language)
		if err != nil {
			return err
		}

		promptText, err := os.ReadFile(cfg.Generation.PromptFile)
		if err != nil {
			return eris.Wrapf(err, "read prompt file %s", cfg.Generation.PromptFile)
		}

		key, err := cfg.Provider.ResolveKey()
		if err != nil {
			return err
		}
		provider, err := llm.New(cfg.Provider.Name, key, cfg.Provider.BaseURL)
		if err != nil {
			return err
		}
		provider = llm.Limited(provider, cfg.Provider.RPM)

		native := builder.NewNative(
			cfg.Build.Compiler,
			cfg.Build.Options(),
			cfg.Build.SourceFile,
			!cfg.Output.PrintCompilerErrors,
		)

		reporter := report.New(os.Stdout, report.Options{
			PrintCode:       cfg.Output.PrintCode,
			RunExecutable:   cfg.Output.RunExecutable,
			ShowDiagnostics: cfg.Output.PrintCompilerErrors,
		}, report.NewArtifactRunner())

		ctrl := refine.New(provider, native, sanitize.New(profile), reporter, refine.Config{
			Model:        cfg.Generation.Model,
			AttemptLimit: cfg.Generation.MaxAttempts,
			TimeBudget:   cfg.Generation.TimeBudget(),
			MaxTokens:    cfg.Generation.MaxTokens,
			PromptName:   cfg.Generation.PromptFile,
			SourcePath:   cfg.Build.SourceFile,
		})

		reporter.Start(cfg.Generation.Model, string(promptText)+profile.Instruction())

		session, err := ctrl.Run(ctx, string(promptText))
		if err != nil {
			return eris.Wrap(err, "refinement session")
		}

		reporter.Summarize(ctx, session, native.Command())

		zap.L().Info("session complete",
			zap.String("session_id", session.ID.String()),
			zap.String("outcome", session.Outcome.String()),
			zap.Int("attempts", len(session.Attempts)),
			zap.Duration("total_generation_time", session.CumulativeGenTime),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runPromptFile, "prompt-file", "", "override generation.prompt_file")
	runCmd.Flags().StringVar(&runModel, "model", "", "override generation.model")
	rootCmd.AddCommand(runCmd)
}
