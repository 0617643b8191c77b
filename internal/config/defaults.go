package config

const (
	defaultStagingDir = "~/.local/share/lectern/staging"
	defaultResultsDir = "~/.local/share/lectern/results"
	defaultLogDir     = "~/.local/share/lectern/logs"

	defaultMaxWorkers             = 3
	defaultChunkTimeoutSeconds    = 600
	defaultAnalyzerTimeoutSeconds = 120

	defaultSampleRate              = 16000
	defaultKeyframeIntervalSeconds = 2
	defaultMaxVideoSizeMB          = 500
	defaultMaxDurationSeconds      = 3600

	defaultWhisperModel             = "tiny"
	defaultWhisperLanguage          = "en"
	defaultTranscriptionTimeoutSecs = 300

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/lectern/lectern"
	defaultLLMTitle          = "Lectern Technical Depth"
	defaultLLMTimeoutSeconds = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

func defaultAllowedExtensions() []string {
	return []string{".mp4", ".avi", ".mov", ".mkv"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			ResultsDir: defaultResultsDir,
			LogDir:     defaultLogDir,
		},
		Workers: Workers{
			MaxWorkers:             defaultMaxWorkers,
			ChunkTimeoutSeconds:    defaultChunkTimeoutSeconds,
			AnalyzerTimeoutSeconds: defaultAnalyzerTimeoutSeconds,
		},
		Media: Media{
			SampleRate:              defaultSampleRate,
			KeyframeIntervalSeconds: defaultKeyframeIntervalSeconds,
			AllowedExtensions:       defaultAllowedExtensions(),
			MaxVideoSizeMB:          defaultMaxVideoSizeMB,
			MaxDurationSeconds:      defaultMaxDurationSeconds,
		},
		Transcription: Transcription{
			Model:          defaultWhisperModel,
			Language:       defaultWhisperLanguage,
			TimeoutSeconds: defaultTranscriptionTimeoutSecs,
		},
		LLM: LLM{
			Enabled:        false,
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Scoring: Scoring{
			Batch: Weights{
				Communication: 0.25,
				Engagement:    0.25,
				Clarity:       0.30,
				Interaction:   0.20,
			},
			Full: Weights{
				Communication: 0.20,
				Engagement:    0.20,
				Technical:     0.30,
				Clarity:       0.20,
				Interaction:   0.10,
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
