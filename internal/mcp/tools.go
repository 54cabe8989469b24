package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kutbudev/pharm-cli/internal/medication"
	"github.com/kutbudev/pharm-cli/internal/models"
	"github.com/kutbudev/pharm-cli/internal/schedule"
)

// ToolDef describes a registered tool for `pharm mcp tools`.
type ToolDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ReadOnly    bool   `json:"readOnly"`
}

var toolDefs = []ToolDef{
	{
		Name:        "list_medications",
		Description: "List active medications (or archived ones) with dose, schedule and taken state. Set due to only return medications that should be taken now.",
		ReadOnly:    true,
	},
	{
		Name:        "take_medication",
		Description: "Mark a medication as taken now and append a dose record. Fails if it is already marked taken today.",
	},
	{
		Name:        "untake_medication",
		Description: "Undo the last take: clear the taken flag and remove the most recent dose record.",
	},
	{
		Name:        "medication_history",
		Description: "Dose history, newest first, with adherence for scheduled medications. Optional: name, days, archived (archived only).",
		ReadOnly:    true,
	},
	{
		Name:        "reset_medications",
		Description: "Clear the taken flag of every scheduled medication whose interval has elapsed. Safe to call repeatedly.",
	},
}

// ToolDefinitions lists the tools the server registers.
func ToolDefinitions() []ToolDef {
	return append([]ToolDef(nil), toolDefs...)
}

func toolFor(def ToolDef, title string) *mcp.Tool {
	ann := &mcp.ToolAnnotations{
		Title:         title,
		ReadOnlyHint:  def.ReadOnly,
		OpenWorldHint: boolPtr(false),
	}
	if !def.ReadOnly {
		ann.DestructiveHint = boolPtr(false)
	}
	return &mcp.Tool{Name: def.Name, Description: def.Description, Annotations: ann}
}

func registerTools(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, toolFor(toolDefs[0], "List Medications"), h.listMedications)
	mcp.AddTool(server, toolFor(toolDefs[1], "Take Medication"), h.takeMedication)
	mcp.AddTool(server, toolFor(toolDefs[2], "Untake Medication"), h.untakeMedication)
	mcp.AddTool(server, toolFor(toolDefs[3], "Medication History"), h.medicationHistory)

	reset := toolFor(toolDefs[4], "Reset Medications")
	reset.Annotations.IdempotentHint = true
	mcp.AddTool(server, reset, h.resetMedications)
}

// medicationView adds computed schedule fields to a stored medication.
type medicationView struct {
	models.Medication
	AsNeeded bool `json:"as_needed"`
	Due      bool `json:"due"`
}

func viewOf(med models.Medication, svc *medication.Service) medicationView {
	return medicationView{
		Medication: med,
		AsNeeded:   schedule.IsAsNeeded(med.MedicationFrequency),
		Due:        schedule.IsDue(med, svc.Now()),
	}
}

// --- list_medications ---

type ListMedicationsInput struct {
	Archived bool `json:"archived,omitempty" jsonschema:"list archived medications instead of active ones"`
	Due      bool `json:"due,omitempty" jsonschema:"only medications due now"`
}

func (h *handlers) listMedications(ctx context.Context, req *mcp.CallToolRequest, input ListMedicationsInput) (*mcp.CallToolResult, any, error) {
	meds := h.svc.List(medication.ListQuery{Archived: input.Archived, DueOnly: input.Due})

	views := make([]medicationView, 0, len(meds))
	for _, med := range meds {
		views = append(views, viewOf(med, h.svc))
	}
	return mustTextResult(map[string]interface{}{
		"medications": views,
		"count":       len(views),
		"archived":    input.Archived,
	}), nil, nil
}

// --- take_medication / untake_medication ---

type NameInput struct {
	Name string `json:"name" jsonschema:"medication name (case-insensitive)"`
}

func (in NameInput) name() (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", errors.New("name is required")
	}
	return name, nil
}

func (h *handlers) takeMedication(ctx context.Context, req *mcp.CallToolRequest, input NameInput) (*mcp.CallToolResult, any, error) {
	name, err := input.name()
	if err != nil {
		return nil, nil, err
	}
	med, err := h.svc.Take(name)
	if err != nil {
		return nil, nil, err
	}
	return mustTextResult(map[string]interface{}{
		"ok":         true,
		"message":    "Marked '" + med.Name + "' as taken at " + med.TakenAt,
		"medication": viewOf(med, h.svc),
	}), nil, nil
}

func (h *handlers) untakeMedication(ctx context.Context, req *mcp.CallToolRequest, input NameInput) (*mcp.CallToolResult, any, error) {
	name, err := input.name()
	if err != nil {
		return nil, nil, err
	}
	med, err := h.svc.Untake(name)
	if err != nil {
		return nil, nil, err
	}
	return mustTextResult(map[string]interface{}{
		"ok":         true,
		"message":    "Unmarked '" + med.Name + "' as taken",
		"medication": viewOf(med, h.svc),
	}), nil, nil
}

// --- medication_history ---

type HistoryInput struct {
	Name     string `json:"name,omitempty" jsonschema:"only this medication"`
	Days     int    `json:"days,omitempty" jsonschema:"only doses from the last N days"`
	Archived bool   `json:"archived,omitempty" jsonschema:"only archived medications"`
}

type historyView struct {
	Name         string              `json:"name"`
	Archived     bool                `json:"archived"`
	Days         int                 `json:"days,omitempty"`
	Records      []models.DoseRecord `json:"records"`
	Total        int                 `json:"total"`
	Recurring    bool                `json:"recurring"`
	IntervalDays int                 `json:"interval_days,omitempty"`
	Expected     int                 `json:"expected,omitempty"`
	Adherence    *float64            `json:"adherence,omitempty"`
}

func (h *handlers) medicationHistory(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, any, error) {
	if input.Days < 0 {
		return nil, nil, errors.New("days must not be negative")
	}
	reports, err := h.svc.History(medication.HistoryQuery{
		Name:         input.Name,
		Days:         input.Days,
		ArchivedOnly: input.Archived,
	})
	if err != nil {
		return nil, nil, err
	}

	views := make([]historyView, 0, len(reports))
	for _, r := range reports {
		v := historyView{
			Name:         r.Name,
			Archived:     r.Archived,
			Days:         r.Days,
			Records:      r.Records,
			Total:        r.Actual,
			Recurring:    r.Recurring,
			IntervalDays: r.IntervalDays,
			Expected:     r.Expected,
		}
		if r.Recurring {
			adherence := r.Adherence
			v.Adherence = &adherence
		}
		views = append(views, v)
	}
	return mustTextResult(map[string]interface{}{
		"history": views,
		"count":   len(views),
	}), nil, nil
}

// --- reset_medications ---

type ResetInput struct{}

func (h *handlers) resetMedications(ctx context.Context, req *mcp.CallToolRequest, _ ResetInput) (*mcp.CallToolResult, any, error) {
	names, err := h.svc.ResetAll()
	if err != nil {
		return nil, nil, err
	}
	if names == nil {
		names = []string{}
	}
	return mustTextResult(map[string]interface{}{
		"ok":    true,
		"reset": names,
		"count": len(names),
	}), nil, nil
}
