package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/scoring"
	"lectern/internal/store"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var sharedContext string
	var timeoutSeconds int
	var splitMinutes int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "batch <video-or-directory>...",
		Short: "Analyze a batch of lecture chunks concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("configure logging: %w", err)
				}

				sources := args
				if splitMinutes > 0 {
					if len(args) != 1 {
						return fmt.Errorf("--split expects exactly one source video")
					}
					segments, err := splitSource(cmd, cfg, args[0], splitMinutes*60)
					if err != nil {
						return err
					}
					sources = segments
				}

				result, err := runAnalysis(cmd.Context(), cfg, st, logger, runOptions{
					Sources:       sources,
					SharedContext: sharedContext,
					Mode:          scoring.ModeBatch,
					Workers:       workers,
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

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker pool size (defaults to config)")
	cmd.Flags().StringVar(&sharedContext, "context", "", "Teaching context shared by every chunk")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Per-chunk timeout in seconds (defaults to config)")
	cmd.Flags().IntVar(&splitMinutes, "split", 0, "Split a single video into segments of this many minutes")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the batch result as JSON")
	return cmd
}

// splitSource cuts one long recording into fixed-length segments under the
// staging directory and returns the segment paths in order.
func splitSource(cmd *cobra.Command, cfg *config.Config, source string, segmentSeconds int) ([]string, error) {
	destDir := filepath.Join(cfg.Paths.StagingDir, "segments", filepath.Base(source))
	segments, err := newMediaService(cfg).Split(cmd.Context(), source, destDir, segmentSeconds)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", source, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Split %s into %d segments\n", source, len(segments))
	return segments, nil
}
