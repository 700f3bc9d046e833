package http

import "github.com/emberworks/daybook/internal/journal"

// AddressPayload carries an hour-or-range address in request bodies.
type AddressPayload struct {
	Hour  string             `json:"hour,omitempty"`
	Range *HourRangePayload  `json:"range,omitempty"`
}

// HourRangePayload is the wire shape of an hour range.
type HourRangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Address converts the payload into a journal address.
func (p AddressPayload) Address() journal.Address {
	addr := journal.Address{Hour: journal.HourLabel(p.Hour)}
	if p.Range != nil {
		addr.Range = &journal.HourRange{
			Start: journal.HourLabel(p.Range.Start),
			End:   journal.HourLabel(p.Range.End),
		}
	}
	return addr
}

// LogEntryPayload is the body of POST /journal/:date/entries.
type LogEntryPayload struct {
	AddressPayload
	Mode     string `json:"mode"`
	TaskID   string `json:"taskId,omitempty"`
	ListType string `json:"listType,omitempty"`
	Text     string `json:"text,omitempty"`
}

// CompletePlanPayload is the body of POST /journal/:date/plans/:planId/complete.
// Action is accepted for compatibility; both values complete the plan.
type CompletePlanPayload struct {
	AddressPayload
	Action string `json:"action,omitempty"`
}

// ReplanPayload is the body of POST /journal/:date/plans/:planId/replan.
type ReplanPayload struct {
	AddressPayload
}

// AddTaskPayload is the body of POST /tasks/:list.
type AddTaskPayload struct {
	Text string `json:"text"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
