package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kutbudev/pharm-cli/internal/medication"
)

// registerPrompts adds MCP prompt templates to the server
func registerPrompts(server *mcp.Server, h *handlers) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "adherence_review",
		Title:       "Adherence Review",
		Description: "Summarise recent dose history and point out missed scheduled doses",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "days",
				Description: "Number of days to review (default 7)",
				Required:    false,
			},
		},
	}, h.adherenceReviewPrompt)
}

func (h *handlers) adherenceReviewPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	days := 7
	if raw := strings.TrimSpace(req.Params.Arguments["days"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("days must be a positive number, got %q", raw)
		}
		days = n
	}

	reports, err := h.svc.History(medication.HistoryQuery{Days: days})
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, r := range reports {
		if r.Archived {
			continue
		}
		if r.Recurring {
			lines = append(lines, fmt.Sprintf("- **%s**: %d of %d expected doses (%.1f%%)", r.Name, r.Actual, r.Expected, r.Adherence))
		} else {
			lines = append(lines, fmt.Sprintf("- **%s**: %d doses (as-needed)", r.Name, r.Actual))
		}
	}
	summary := "No active medications."
	if len(lines) > 0 {
		summary = strings.Join(lines, "\n")
	}

	promptText := fmt.Sprintf(`Please review my medication adherence over the last %d days.

## Dose Summary
%s

## Instructions
1. Call medication_history(days: %d) for the individual dose timestamps
2. Point out medications below 80%% adherence and any pattern in missed doses
3. Call list_medications(due: true) and remind me of anything due right now
4. Keep the answer short and do not give medical advice`, days, summary, days)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Adherence review for the last %d days", days),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}
