package main

import (
	"fmt"
	"io"
	"time"

	"lectern/internal/batch"
	"lectern/internal/pipeline"
)

func writeBatchSummary(out io.Writer, result *batch.Result) {
	fmt.Fprintf(out, "Batch %s: %s\n", result.BatchID, result.Status)
	fmt.Fprintf(out, "Chunks: %d total, %d successful, %d failed\n",
		result.TotalChunks, result.SuccessfulChunks, result.FailedChunks)
	fmt.Fprintf(out, "Wall time: %s (avg chunk %s)\n",
		formatDuration(result.TotalWallTime), formatDuration(result.AverageChunkTime))
	fmt.Fprintln(out, renderChunkTable(result.Results))
}

func renderChunkTable(results []pipeline.Result) string {
	headers := []string{"Chunk", "Status", "Comm", "Eng", "Clar", "Inter", "Tech", "Overall", "Time", "Error"}
	aligns := []columnAlignment{
		alignLeft, alignLeft,
		alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight,
		alignLeft,
	}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		row := []string{result.ChunkID, string(result.Status)}
		if result.Score != nil {
			row = append(row,
				formatScore(result.Score.Communication),
				formatScore(result.Score.Engagement),
				formatScore(result.Score.Clarity),
				formatScore(result.Score.Interaction),
				formatOptionalScore(result.Score.TechnicalDepth),
				formatScore(result.Score.Overall),
			)
		} else {
			row = append(row, "-", "-", "-", "-", "-", "-")
		}
		row = append(row, formatDuration(result.ProcessingTime), result.ErrorMessage)
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func formatScore(value float64) string {
	return fmt.Sprintf("%.1f", value)
}

func formatOptionalScore(value *float64) string {
	if value == nil {
		return "-"
	}
	return formatScore(*value)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(10 * time.Millisecond).String()
}
