package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/store"
)

func newResultsCommand(ctx *commandContext) *cobra.Command {
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect stored analysis results",
	}

	resultsCmd.AddCommand(newResultsListCommand(ctx))
	resultsCmd.AddCommand(newResultsShowCommand(ctx))
	return resultsCmd
}

func newResultsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored batches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				summaries, err := st.ListBatches(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, summaries)
				}
				if len(summaries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No batches stored yet.")
					return nil
				}

				rows := make([][]string, 0, len(summaries))
				for _, summary := range summaries {
					rows = append(rows, []string{
						summary.BatchID,
						string(summary.Status),
						fmt.Sprintf("%d", summary.TotalChunks),
						fmt.Sprintf("%d", summary.SuccessfulChunks),
						fmt.Sprintf("%d", summary.FailedChunks),
						formatScore(summary.AverageOverall),
						summary.CreatedAt.Local().Format(time.DateTime),
					})
				}
				headers := []string{"Batch", "Status", "Chunks", "OK", "Failed", "Avg Score", "Created"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of batches to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the listing as JSON")
	return cmd
}

func newResultsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <batch-id>",
		Short: "Show one batch with its per-chunk scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				loaded, err := st.GetBatch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, loaded)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Batch %s: %s\n", loaded.BatchID, loaded.Status)
				fmt.Fprintf(out, "Created: %s\n", loaded.CreatedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Chunks: %d total, %d successful, %d failed\n",
					loaded.TotalChunks, loaded.SuccessfulChunks, loaded.FailedChunks)
				fmt.Fprintf(out, "Wall time: %s (avg chunk %s)\n",
					formatDuration(loaded.TotalWallTime), formatDuration(loaded.AverageChunkTime))
				if loaded.SharedContext != "" {
					fmt.Fprintf(out, "Context: %s\n", loaded.SharedContext)
				}

				rows := make([][]string, 0, len(loaded.Chunks))
				for _, chunk := range loaded.Chunks {
					rows = append(rows, []string{
						chunk.ChunkID,
						chunk.SourcePath,
						string(chunk.Status),
						formatScore(chunk.Communication),
						formatScore(chunk.Engagement),
						formatScore(chunk.Clarity),
						formatScore(chunk.Interaction),
						formatOptionalScore(chunk.TechnicalDepth),
						formatScore(chunk.Overall),
						formatDuration(chunk.ProcessingTime),
						chunk.ErrorMessage,
					})
				}
				headers := []string{"Chunk", "Source", "Status", "Comm", "Eng", "Clar", "Inter", "Tech", "Overall", "Time", "Error"}
				aligns := []columnAlignment{
					alignLeft, alignLeft, alignLeft,
					alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight,
					alignLeft,
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the batch as JSON")
	return cmd
}
