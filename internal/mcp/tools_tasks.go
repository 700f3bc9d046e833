package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emberworks/daybook/internal/journal"
)

type tasksListInput struct {
	List string `json:"list" jsonschema:"required,Task list: have-to-do or want-to-do"`
}

type taskItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type tasksListOutput struct {
	Tasks []taskItem `json:"tasks" jsonschema:"Tasks in priority order"`
	Count int        `json:"count" jsonschema:"Number of tasks returned"`
}

type tasksAddInput struct {
	List string `json:"list" jsonschema:"required,Task list: have-to-do or want-to-do"`
	Text string `json:"text" jsonschema:"required,Task text"`
}

type tasksAddOutput struct {
	ID string `json:"id" jsonschema:"Id of the new task, usable in journal entries"`
}

func (s *Server) registerTaskTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "tasks_list",
		Description: "List a priority list (have-to-do or want-to-do) in order.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args tasksListInput) (*mcp.CallToolResult, tasksListOutput, error) {
		list, err := s.tasks.List(journal.ListType(args.List))
		if err != nil {
			return nil, tasksListOutput{}, err
		}
		out := tasksListOutput{Tasks: make([]taskItem, 0, len(list)), Count: len(list)}
		for _, t := range list {
			out.Tasks = append(out.Tasks, taskItem{ID: t.ID, Text: t.Text, Done: t.Done})
		}
		return nil, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "tasks_add",
		Description: "Add a task to the end of a priority list.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args tasksAddInput) (*mcp.CallToolResult, tasksAddOutput, error) {
		if args.Text == "" {
			return nil, tasksAddOutput{}, fmt.Errorf("text is required")
		}
		task, err := s.tasks.Add(journal.ListType(args.List), args.Text)
		if err != nil {
			return nil, tasksAddOutput{}, err
		}
		return nil, tasksAddOutput{ID: task.ID}, nil
	})
}
