package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"deskbot/internal/model"
)

// StripMarkdownFence removes a ```json ... ``` wrapper if present. Models
// occasionally fence their output despite instructions.
func StripMarkdownFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// ParseCommand decodes the assistant's JSON reply into a command.
func ParseCommand(text string) (model.Command, error) {
	var cmd model.Command
	if err := json.Unmarshal([]byte(StripMarkdownFence(text)), &cmd); err != nil {
		return model.Command{}, fmt.Errorf("parse assistant response: %w", err)
	}
	return cmd, nil
}
