package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// Flag storage shared by log and plan. Cobra binds each command's flags
// to the same variables; only one of the two commands runs per process.
var (
	entryDate string
	entryAt   string
	entryFrom string
	entryTo   string
	entryTask string
	entryList string
)

// logCmd records something that happened
var logCmd = &cobra.Command{
	Use:   "log [text...]",
	Short: "Log an entry at an hour or range",
	Long: `Record an entry in the journal. Give either --at for a single hour
or --from/--to for a block of hours. A task reference is given with
--task and --list; otherwise the remaining arguments are free text.

Logging a task also closes the earliest open plan for that task.

Examples:
  # Log free text at 9am today
  daybook log --at 9am standup ran long

  # Log a task occurrence over a range
  daybook log --from 1pm --to 3pm --task t-42 --list have-to-do

  # Log on a specific date
  daybook log --date 2026-03-09 --at 11pm closed the laptop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitEntry("logged", args)
	},
}

// planCmd records an intention for an hour
var planCmd = &cobra.Command{
	Use:   "plan [text...]",
	Short: "Plan an entry at an hour or range",
	Long: `Write an intention into the journal. Plans get a lifecycle: they
are active until an hour past their slot, then marked missed; they can
be completed with "daybook done" or moved with "daybook replan".

Examples:
  # Plan a task for 2pm
  daybook plan --at 2pm --task t-42 --list have-to-do

  # Plan free text over a range
  daybook plan --from 9am --to 11am deep work on the parser`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitEntry("planned", args)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{logCmd, planCmd} {
		cmd.Flags().StringVar(&entryDate, "date", "", "journal date (YYYY-MM-DD, default: current journal day)")
		cmd.Flags().StringVar(&entryAt, "at", "", "hour slot (e.g. 9am)")
		cmd.Flags().StringVar(&entryFrom, "from", "", "range start hour")
		cmd.Flags().StringVar(&entryTo, "to", "", "range end hour")
		cmd.Flags().StringVar(&entryTask, "task", "", "task id from the task directory")
		cmd.Flags().StringVar(&entryList, "list", "have-to-do", "task list (have-to-do or want-to-do)")
	}
}

// addressPayload matches internal/http/types.go AddressPayload
type addressPayload struct {
	Hour  string        `json:"hour,omitempty"`
	Range *rangePayload `json:"range,omitempty"`
}

type rangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// logEntryPayload matches internal/http/types.go LogEntryPayload
type logEntryPayload struct {
	addressPayload
	Mode     string `json:"mode"`
	TaskID   string `json:"taskId,omitempty"`
	ListType string `json:"listType,omitempty"`
	Text     string `json:"text,omitempty"`
}

// logEntryResponse matches internal/journal LogEntryResponse
type logEntryResponse struct {
	Entry      entryJSON `json:"entry"`
	PlanLinked bool      `json:"planLinked"`
}

func entryAddress() (addressPayload, error) {
	addr := addressPayload{Hour: entryAt}
	if entryFrom != "" || entryTo != "" {
		if entryAt != "" {
			return addr, fmt.Errorf("give either --at or --from/--to, not both")
		}
		if entryFrom == "" || entryTo == "" {
			return addr, fmt.Errorf("--from and --to must be given together")
		}
		addr.Range = &rangePayload{Start: entryFrom, End: entryTo}
	}
	if addr.Hour == "" && addr.Range == nil {
		return addr, fmt.Errorf("an address is required: --at or --from/--to")
	}
	return addr, nil
}

func submitEntry(mode string, args []string) error {
	addr, err := entryAddress()
	if err != nil {
		return err
	}

	payload := logEntryPayload{
		addressPayload: addr,
		Mode:           mode,
	}
	if entryTask != "" {
		payload.TaskID = entryTask
		payload.ListType = entryList
	} else {
		payload.Text = strings.Join(args, " ")
	}

	date := entryDate
	if date == "" {
		date = journalDate(nil)
	}

	var resp logEntryResponse
	if _, err := doJSON("POST", "/api/v1/journal/"+date+"/entries", payload, &resp, http.StatusCreated); err != nil {
		return err
	}

	if resp.Entry.PlanID != "" {
		fmt.Printf("Recorded %s entry on %s (plan %s)\n", mode, date, resp.Entry.PlanID)
	} else {
		fmt.Printf("Recorded %s entry on %s\n", mode, date)
	}
	if resp.PlanLinked {
		fmt.Println("Closed the matching open plan for this task")
	}
	return nil
}
