package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	medicationsURI    = "pharm://medications"
	medicationsPrefix = medicationsURI + "/"
)

// registerResources exposes the medication file as read-only resources.
func registerResources(server *mcp.Server, h *handlers) {
	server.AddResource(&mcp.Resource{
		URI:         medicationsURI,
		Name:        "medications",
		Description: "The whole medication database: active and archived medications with history",
		MIMEType:    "application/json",
	}, h.medicationsResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: medicationsPrefix + "{name}",
		Name:        "medication",
		Description: "One medication, active or archived, with its dose history",
		MIMEType:    "application/json",
	}, h.medicationResource)
}

func jsonContents(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (h *handlers) medicationsResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonContents(req.Params.URI, h.svc.Export())
}

func (h *handlers) medicationResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	name, err := url.PathUnescape(strings.TrimPrefix(req.Params.URI, medicationsPrefix))
	if err != nil || strings.TrimSpace(name) == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	db := h.svc.Export()
	if idx := db.FindActive(name); idx >= 0 {
		return jsonContents(req.Params.URI, map[string]interface{}{
			"archived":   false,
			"medication": db.Medications[idx],
		})
	}
	if idx := db.FindArchived(name); idx >= 0 {
		return jsonContents(req.Params.URI, map[string]interface{}{
			"archived":   true,
			"medication": db.ArchivedMedications[idx],
		})
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}
