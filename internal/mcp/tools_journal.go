package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/journal"
)

// addressArgs is the shared hour-or-range addressing accepted by the
// journal tools. Exactly one of hour and start/end is given.
type addressArgs struct {
	Hour  string `json:"hour,omitempty" jsonschema:"Hour slot label (7am-6am vocabulary, e.g. '9am', '12pm')"`
	Start string `json:"start,omitempty" jsonschema:"Range start hour label; requires end"`
	End   string `json:"end,omitempty" jsonschema:"Range end hour label; requires start"`
}

func (a addressArgs) address() journal.Address {
	if a.Start != "" || a.End != "" {
		return journal.Address{Range: &journal.HourRange{
			Start: journal.HourLabel(a.Start),
			End:   journal.HourLabel(a.End),
		}}
	}
	return journal.Address{Hour: journal.HourLabel(a.Hour)}
}

type dayInput struct {
	Date string `json:"date" jsonschema:"required,ISO date (YYYY-MM-DD) of the journal day"`
}

type dayOutput struct {
	Document *journal.Document `json:"document" jsonschema:"The full journal document after sweeping overdue plans"`
}

type logInput struct {
	addressArgs
	Date     string `json:"date" jsonschema:"required,ISO date (YYYY-MM-DD)"`
	Mode     string `json:"mode" jsonschema:"required,'planned' for an intention or 'logged' for something that happened"`
	TaskID   string `json:"taskId,omitempty" jsonschema:"Task id when the entry references a task"`
	ListType string `json:"listType,omitempty" jsonschema:"Task list: have-to-do or want-to-do"`
	Text     string `json:"text,omitempty" jsonschema:"Free-form text when the entry is not a task reference"`
}

type logOutput struct {
	PlanID     string `json:"planId,omitempty" jsonschema:"Id of the plan when mode is planned"`
	PlanLinked bool   `json:"planLinked" jsonschema:"Whether a logged task occurrence closed the earliest open plan"`
}

type completeInput struct {
	addressArgs
	Date   string `json:"date" jsonschema:"required,ISO date (YYYY-MM-DD)"`
	PlanID string `json:"planId" jsonschema:"required,Id of the plan to complete"`
	Action string `json:"action,omitempty" jsonschema:"Accepted for compatibility: in-progress or complete"`
}

type completeOutput struct {
	Outcome       string `json:"outcome" jsonschema:"completed, already-completed, not-completable, or not-found"`
	LoggedCreated bool   `json:"loggedCreated" jsonschema:"Whether a logged twin entry was materialized"`
}

type replanInput struct {
	addressArgs
	Date   string `json:"date" jsonschema:"required,ISO date (YYYY-MM-DD)"`
	PlanID string `json:"planId" jsonschema:"required,Id of the plan to move"`
}

type replanOutput struct {
	Found     bool   `json:"found" jsonschema:"Whether an active plan with that id existed"`
	OldPlanID string `json:"oldPlanId,omitempty" jsonschema:"The rescheduled plan's id"`
	NewPlanID string `json:"newPlanId,omitempty" jsonschema:"The successor plan's id at the new time"`
}

func (s *Server) registerJournalTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "journal_day",
		Description: "Read a day's journal. Overdue active plans are reconciled to missed before the document is returned.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args dayInput) (*mcp.CallToolResult, dayOutput, error) {
		doc, err := s.journal.Day(ctx, args.Date)
		if err != nil {
			return nil, dayOutput{}, err
		}
		return nil, dayOutput{Document: doc}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "journal_log",
		Description: "Add an entry to the day at an hour or hour range. Mode 'planned' records an intention; mode 'logged' records what happened and closes the earliest open plan for the same task.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args logInput) (*mcp.CallToolResult, logOutput, error) {
		resp, err := s.journal.LogEntry(ctx, &journal.LogEntryRequest{
			Date:     args.Date,
			Address:  args.address(),
			Mode:     journal.EntryMode(args.Mode),
			TaskID:   args.TaskID,
			ListType: journal.ListType(args.ListType),
			Text:     args.Text,
		})
		if err != nil {
			return nil, logOutput{}, err
		}
		s.logger.Debug("mcp journal_log",
			zap.String("date", args.Date),
			zap.Bool("plan_linked", resp.PlanLinked),
		)
		return nil, logOutput{PlanID: resp.Entry.PlanID, PlanLinked: resp.PlanLinked}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "journal_complete_plan",
		Description: "Complete a plan by id at its hour or range. Idempotent: repeating the call reports already-completed and never duplicates the logged entry.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args completeInput) (*mcp.CallToolResult, completeOutput, error) {
		if args.PlanID == "" {
			return nil, completeOutput{}, fmt.Errorf("planId is required")
		}
		result, err := s.journal.CompletePlan(ctx, &journal.CompletePlanRequest{
			Date:    args.Date,
			PlanID:  args.PlanID,
			Address: args.address(),
			Action:  journal.PlanAction(args.Action),
		})
		if err != nil {
			return nil, completeOutput{}, err
		}
		return nil, completeOutput{
			Outcome:       string(result.Outcome),
			LoggedCreated: result.LoggedCreated,
		}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "journal_replan",
		Description: "Move an active plan to a new hour or range. The old plan stays as a rescheduled audit record linked to its successor.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args replanInput) (*mcp.CallToolResult, replanOutput, error) {
		if args.PlanID == "" {
			return nil, replanOutput{}, fmt.Errorf("planId is required")
		}
		result, err := s.journal.Replan(ctx, &journal.ReplanRequest{
			Date:       args.Date,
			FromPlanID: args.PlanID,
			Dest:       args.address(),
		})
		if err != nil {
			return nil, replanOutput{}, err
		}
		return nil, replanOutput{
			Found:     result.Found,
			OldPlanID: result.OldPlanID,
			NewPlanID: result.NewPlanID,
		}, nil
	})
}
