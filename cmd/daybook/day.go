package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// dayCmd shows a journal day
var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show a journal day",
	Long: `Show the journal page for a date (YYYY-MM-DD). With no date the
current journal day is used; the day rolls over at 7am, not midnight.

Examples:
  # Show today's page
  daybook day

  # Show a specific date
  daybook day 2026-03-09`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDay,
}

// hourOrder is the page's hour vocabulary, 7am through the wrapped 6am.
var hourOrder = []string{
	"7am", "8am", "9am", "10am", "11am", "12pm",
	"1pm", "2pm", "3pm", "4pm", "5pm", "6pm",
	"7pm", "8pm", "9pm", "10pm", "11pm", "12am",
	"1am", "2am", "3am", "4am", "5am", "6am",
}

// entryJSON mirrors the entry wire shape from internal/journal/types.go.
type entryJSON struct {
	TaskID     string `json:"taskId,omitempty"`
	ListType   string `json:"listType,omitempty"`
	Text       string `json:"text,omitempty"`
	EntryMode  string `json:"entryMode,omitempty"`
	PlanID     string `json:"planId,omitempty"`
	PlanStatus string `json:"planStatus,omitempty"`
}

// rangeJSON mirrors RangeEntry.
type rangeJSON struct {
	entryJSON
	Start string `json:"start"`
	End   string `json:"end"`
}

// stagedJSON mirrors StagedEntry.
type stagedJSON struct {
	TaskID   string `json:"taskId"`
	ListType string `json:"listType"`
}

// dayJSON mirrors Document. Slots stay raw because a slot marshals as a
// single object or an array depending on how many entries it holds.
type dayJSON struct {
	Date   string                     `json:"date"`
	Slots  map[string]json.RawMessage `json:"slots,omitempty"`
	Ranges []rangeJSON                `json:"ranges,omitempty"`
	Staged []stagedJSON               `json:"staged,omitempty"`
}

func runDay(cmd *cobra.Command, args []string) error {
	date := journalDate(args)

	var doc dayJSON
	if _, err := doJSON("GET", "/api/v1/journal/"+date, nil, &doc, http.StatusOK); err != nil {
		return err
	}

	fmt.Printf("%s\n", doc.Date)
	empty := true
	for _, hour := range hourOrder {
		raw, ok := doc.Slots[hour]
		if !ok {
			continue
		}
		entries, err := decodeSlot(raw)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("  %-5s %s\n", hour, formatEntry(e))
			empty = false
		}
	}
	for _, r := range doc.Ranges {
		fmt.Printf("  %s-%s %s\n", r.Start, r.End, formatEntry(r.entryJSON))
		empty = false
	}
	for _, s := range doc.Staged {
		fmt.Printf("  staged task %s (%s)\n", s.TaskID, s.ListType)
		empty = false
	}
	if empty {
		fmt.Println("  (empty)")
	}
	return nil
}

// decodeSlot handles the one-or-many slot encoding.
func decodeSlot(raw json.RawMessage) ([]entryJSON, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []entryJSON
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, fmt.Errorf("failed to decode slot: %w", err)
		}
		return many, nil
	}
	var one entryJSON
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("failed to decode slot: %w", err)
	}
	return []entryJSON{one}, nil
}

func formatEntry(e entryJSON) string {
	body := e.Text
	if e.TaskID != "" {
		body = fmt.Sprintf("task %s (%s)", e.TaskID, e.ListType)
	}
	switch {
	case e.EntryMode == "planned":
		return fmt.Sprintf("[%s] %s  plan=%s", e.PlanStatus, body, e.PlanID)
	default:
		return body
	}
}
