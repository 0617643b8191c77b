package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"lectern/internal/config"
	"lectern/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "report <batch-id>",
		Short: "Export a batch as an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				loaded, err := st.GetBatch(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				target := outputPath
				if target == "" {
					target = filepath.Join(cfg.Paths.ResultsDir, loaded.BatchID+".xlsx")
				}
				if err := writeReport(loaded, target); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote report to %s\n", target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report destination (defaults to the results directory)")
	return cmd
}

const (
	summarySheet = "Summary"
	chunksSheet  = "Chunks"
)

func writeReport(loaded *store.Batch, target string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildSummarySheet(f, loaded); err != nil {
		return err
	}
	if err := buildChunksSheet(f, loaded); err != nil {
		return err
	}
	_ = f.DeleteSheet("Sheet1")

	index, err := f.GetSheetIndex(summarySheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	return f.SaveAs(target)
}

func buildSummarySheet(f *excelize.File, loaded *store.Batch) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Batch ID", loaded.BatchID},
		{"Status", string(loaded.Status)},
		{"Total chunks", loaded.TotalChunks},
		{"Successful chunks", loaded.SuccessfulChunks},
		{"Failed chunks", loaded.FailedChunks},
		{"Total wall time", formatDuration(loaded.TotalWallTime)},
		{"Average chunk time", formatDuration(loaded.AverageChunkTime)},
		{"Shared context", loaded.SharedContext},
		{"Created", loaded.CreatedAt.Local().Format(time.DateTime)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func buildChunksSheet(f *excelize.File, loaded *store.Batch) error {
	if _, err := f.NewSheet(chunksSheet); err != nil {
		return err
	}
	header := []any{
		"Chunk", "Source", "Status",
		"Communication", "Engagement", "Clarity", "Interaction", "Technical depth", "Overall",
		"Processing time", "Error",
	}
	if err := f.SetSheetRow(chunksSheet, "A1", &header); err != nil {
		return err
	}
	for i, chunk := range loaded.Chunks {
		var technical any
		if chunk.TechnicalDepth != nil {
			technical = *chunk.TechnicalDepth
		}
		row := []any{
			chunk.ChunkID, chunk.SourcePath, string(chunk.Status),
			chunk.Communication, chunk.Engagement, chunk.Clarity, chunk.Interaction, technical, chunk.Overall,
			formatDuration(chunk.ProcessingTime), chunk.ErrorMessage,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(chunksSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
