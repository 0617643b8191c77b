package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/scoring"
	"lectern/internal/store"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var sharedContext string
	var timeoutSeconds int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Analyze a single lecture video with the full scoring mode",
		Long: "Analyze runs the complete pipeline against one video, including the\n" +
			"LLM technical depth evaluation when an API key is configured.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("configure logging: %w", err)
				}

				result, err := runAnalysis(cmd.Context(), cfg, st, logger, runOptions{
					Sources:       args,
					SharedContext: sharedContext,
					Mode:          scoring.ModeFull,
					Workers:       1,
					ChunkTimeout:  time.Duration(timeoutSeconds) * time.Second,
				})
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, result)
				}
				writeBatchSummary(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sharedContext, "context", "", "Teaching context for the LLM evaluation")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Analysis timeout in seconds (defaults to config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}
