package config

import (
	"errors"
	"fmt"
	"math"
)

// weightTolerance absorbs float drift when checking that a weight table sums to 1.
const weightTolerance = 1e-6

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWorkers(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWorkers() error {
	if err := ensurePositiveMap(map[string]int{
		"workers.max_workers":              c.Workers.MaxWorkers,
		"workers.chunk_timeout_seconds":    c.Workers.ChunkTimeoutSeconds,
		"workers.analyzer_timeout_seconds": c.Workers.AnalyzerTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Workers.MaxWorkers > 32 {
		return errors.New("workers.max_workers must be at most 32")
	}
	if c.Workers.AnalyzerTimeoutSeconds >= c.Workers.ChunkTimeoutSeconds {
		return errors.New("workers.analyzer_timeout_seconds must be less than workers.chunk_timeout_seconds")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if err := ensurePositiveMap(map[string]int{
		"media.sample_rate":               c.Media.SampleRate,
		"media.keyframe_interval_seconds": c.Media.KeyframeIntervalSeconds,
		"media.max_duration_seconds":      c.Media.MaxDurationSeconds,
	}); err != nil {
		return err
	}
	if c.Media.MaxVideoSizeMB <= 0 {
		return errors.New("media.max_video_size_mb must be positive")
	}
	if len(c.Media.AllowedExtensions) == 0 {
		return errors.New("media.allowed_extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.Batch.Technical != 0 {
		return errors.New("scoring.batch.technical must be zero; batch mode never runs the technical-depth analyzer")
	}
	if math.Abs(c.Scoring.Batch.Sum()-1) > weightTolerance {
		return fmt.Errorf("scoring.batch weights must sum to 1.0, got %.4f", c.Scoring.Batch.Sum())
	}
	if c.Scoring.Full.Technical <= 0 {
		return errors.New("scoring.full.technical must be positive")
	}
	if math.Abs(c.Scoring.Full.Sum()-1) > weightTolerance {
		return fmt.Errorf("scoring.full weights must sum to 1.0, got %.4f", c.Scoring.Full.Sum())
	}
	for _, table := range []struct {
		name    string
		weights Weights
	}{
		{"scoring.batch", c.Scoring.Batch},
		{"scoring.full", c.Scoring.Full},
	} {
		for name, value := range map[string]float64{
			"communication": table.weights.Communication,
			"engagement":    table.weights.Engagement,
			"technical":     table.weights.Technical,
			"clarity":       table.weights.Clarity,
			"interaction":   table.weights.Interaction,
		} {
			if value < 0 || value > 1 {
				return fmt.Errorf("%s.%s must be between 0 and 1", table.name, name)
			}
		}
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/lectern/config.toml"
		}
		return fmt.Errorf("llm.api_key is required when llm.enabled is true. Set OPENROUTER_API_KEY env var or edit %s (create with 'lectern config init')", defaultPath)
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set when llm.enabled is true")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set when llm.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
