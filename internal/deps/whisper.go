package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// whisperAlternates lists CLI-compatible transcriber binaries in lookup
// order. openai-whisper installs a "whisper" entry point; the
// whisper-ctranslate2 package ships a drop-in CLI under its own name.
var whisperAlternates = []string{"whisper", "whisper-ctranslate2"}

// ResolveWhisper reports the transcriber binary Lectern will execute.
// The configured command is preferred; known alternates are tried in
// order so status output matches what the transcriber actually runs.
func ResolveWhisper(command string) Status {
	result := Status{
		Name:        "Whisper",
		Description: "Required for transcription",
	}

	candidates := make([]string, 0, len(whisperAlternates)+1)
	if cmd := strings.TrimSpace(command); cmd != "" {
		candidates = append(candidates, cmd)
	}
	for _, alt := range whisperAlternates {
		if len(candidates) > 0 && candidates[0] == alt {
			continue
		}
		candidates = append(candidates, alt)
	}

	for _, candidate := range candidates {
		if resolved, err := exec.LookPath(candidate); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
	}

	result.Command = candidates[0]
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", candidates[0])
	return result
}

// ToolVersion probes a binary's version line for status output. Returns
// an empty string when the probe fails; callers treat the version as
// informational only.
func ToolVersion(ctx context.Context, command string, args ...string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return ""
	}
	if _, err := exec.LookPath(command); err != nil {
		return ""
	}
	if len(args) == 0 {
		args = []string{"-version"}
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, command, args...)
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}
