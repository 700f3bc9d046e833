package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	planDate string
	planAt   string
	planFrom string
	planTo   string
)

// doneCmd completes a plan
var doneCmd = &cobra.Command{
	Use:   "done <plan-id>",
	Short: "Complete a plan",
	Long: `Mark a plan as completed. The address names where the plan sits on
the page; completing a task plan also records a logged occurrence there.

Completing an already-completed plan is a no-op. A missed plan can still
be completed; a rescheduled one cannot.

Examples:
  # Complete the 9am plan
  daybook done 4f1c... --at 9am

  # Complete a range plan on another date
  daybook done 4f1c... --date 2026-03-09 --from 1pm --to 3pm`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

// replanCmd moves a plan to a new slot
var replanCmd = &cobra.Command{
	Use:   "replan <plan-id>",
	Short: "Reschedule an active plan",
	Long: `Move an active task plan to a new hour or range on the same page.
The old plan is closed as rescheduled and a fresh active plan is created
at the destination, linked back to the one it replaced.

Examples:
  # Move a plan to 4pm
  daybook replan 4f1c... --at 4pm

  # Move a plan onto an afternoon block
  daybook replan 4f1c... --from 2pm --to 5pm`,
	Args: cobra.ExactArgs(1),
	RunE: runReplan,
}

func init() {
	for _, cmd := range []*cobra.Command{doneCmd, replanCmd} {
		cmd.Flags().StringVar(&planDate, "date", "", "journal date (YYYY-MM-DD, default: current journal day)")
		cmd.Flags().StringVar(&planAt, "at", "", "hour slot (e.g. 9am)")
		cmd.Flags().StringVar(&planFrom, "from", "", "range start hour")
		cmd.Flags().StringVar(&planTo, "to", "", "range end hour")
	}
}

// completePayload matches internal/http/types.go CompletePlanPayload
type completePayload struct {
	addressPayload
	Action string `json:"action,omitempty"`
}

// completeResult matches internal/journal CompleteResult
type completeResult struct {
	Outcome       string `json:"outcome"`
	LoggedCreated bool   `json:"loggedCreated"`
}

// replanResult matches internal/journal ReplanResult
type replanResult struct {
	Found     bool   `json:"found"`
	OldPlanID string `json:"oldPlanId,omitempty"`
	NewPlanID string `json:"newPlanId,omitempty"`
}

func planAddress() (addressPayload, error) {
	addr := addressPayload{Hour: planAt}
	if planFrom != "" || planTo != "" {
		if planAt != "" {
			return addr, fmt.Errorf("give either --at or --from/--to, not both")
		}
		if planFrom == "" || planTo == "" {
			return addr, fmt.Errorf("--from and --to must be given together")
		}
		addr.Range = &rangePayload{Start: planFrom, End: planTo}
	}
	if addr.Hour == "" && addr.Range == nil {
		return addr, fmt.Errorf("an address is required: --at or --from/--to")
	}
	return addr, nil
}

func planPageDate() string {
	if planDate != "" {
		return planDate
	}
	return journalDate(nil)
}

func runDone(cmd *cobra.Command, args []string) error {
	addr, err := planAddress()
	if err != nil {
		return err
	}
	date := planPageDate()

	var result completeResult
	path := fmt.Sprintf("/api/v1/journal/%s/plans/%s/complete", date, args[0])
	status, err := doJSON("POST", path, completePayload{addressPayload: addr}, &result,
		http.StatusOK, http.StatusNotFound, http.StatusConflict)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case "completed":
		if result.LoggedCreated {
			fmt.Println("Plan completed; logged occurrence recorded")
		} else {
			fmt.Println("Plan completed")
		}
	case "already-completed":
		fmt.Println("Plan was already completed")
	case "not-completable":
		fmt.Println("Plan was rescheduled and cannot be completed")
	default:
		return fmt.Errorf("no plan %s at that address on %s (status %d)", args[0], date, status)
	}
	return nil
}

func runReplan(cmd *cobra.Command, args []string) error {
	addr, err := planAddress()
	if err != nil {
		return err
	}
	date := planPageDate()

	var result replanResult
	path := fmt.Sprintf("/api/v1/journal/%s/plans/%s/replan", date, args[0])
	if _, err := doJSON("POST", path, addr, &result, http.StatusOK, http.StatusNotFound); err != nil {
		return err
	}

	if !result.Found {
		return fmt.Errorf("no active plan %s on %s", args[0], date)
	}
	fmt.Printf("Plan %s rescheduled; new plan %s\n", result.OldPlanID, result.NewPlanID)
	return nil
}
