package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kutbudev/pharm-cli/internal/medication"
)

const instructions = `💊 PHARM - Medication Tracker

You are connected to the user's local medication list. Every tool reads and
writes the same JSON file the pharm CLI and reminder daemon use.

## Quick Reference
- CHECK: list_medications(due: true) shows what should be taken now
- TAKE: take_medication(name: "Metformin") records a dose
- UNDO: untake_medication(name: "Metformin") removes the latest dose
- REVIEW: medication_history(name, days) reports doses and adherence

⚠️ Only record a dose when the user says they took it.
⚠️ Names are matched case-insensitively.`

// handlers holds the medication service for tool, resource and prompt handlers.
type handlers struct {
	svc *medication.Service
}

// NewServer builds an MCP server exposing the medication tools.
func NewServer(svc *medication.Service, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "pharm",
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: instructions,
		},
	)

	h := &handlers{svc: svc}
	registerTools(server, h)
	registerResources(server, h)
	registerPrompts(server, h)
	return server
}

// ServeStdio runs the MCP server over stdio until the client disconnects
// or ctx is cancelled.
func ServeStdio(ctx context.Context, svc *medication.Service, version string) error {
	if svc == nil {
		return errors.New("medication service is required")
	}
	return NewServer(svc, version).Run(ctx, &mcp.StdioTransport{})
}

// textResult converts any data to a CallToolResult with JSON TextContent.
func textResult(data interface{}) (*mcp.CallToolResult, error) {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "{}"},
			},
		}, nil
	}
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, nil
}

// mustTextResult is like textResult but returns an error result instead of failing.
func mustTextResult(data interface{}) *mcp.CallToolResult {
	res, err := textResult(data)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf(`{"error": %q}`, err.Error())},
			},
			IsError: true,
		}
	}
	return res
}

func boolPtr(b bool) *bool {
	return &b
}
