package blogapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// DefaultSummaryPrompt is used when Summarize gets no instruction.
const DefaultSummaryPrompt = "Provide a concise summary of this blog post"

// Summarize asks the backend's AI helper about content. An empty
// instruction falls back to DefaultSummaryPrompt.
func (c *Client) Summarize(ctx context.Context, instruction, content string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	if strings.TrimSpace(instruction) == "" {
		instruction = DefaultSummaryPrompt
	}

	in := struct {
		Message string `json:"message"`
	}{Message: instruction + " " + content}

	var out struct {
		Message string `json:"message"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "chat", "/api/v1/chat", in, &out); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return out.Message, nil
}
