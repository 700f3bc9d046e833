package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var taskList string

// tasksCmd manages the task directory
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the task directory",
	Long: `Manage the two standing task lists (have-to-do and want-to-do)
that journal entries reference by task id.`,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List the tasks on one list.

Examples:
  daybook tasks list
  daybook tasks list --list want-to-do`,
	RunE: runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task",
	Long: `Add a task to a list.

Examples:
  daybook tasks add file the expense report
  daybook tasks add --list want-to-do read the raft paper`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTasksAdd,
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDone,
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksRm,
}

func init() {
	tasksCmd.PersistentFlags().StringVar(&taskList, "list", "have-to-do", "task list (have-to-do or want-to-do)")
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksRmCmd)
}

// taskJSON matches internal/tasks Task
type taskJSON struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

func runTasksList(cmd *cobra.Command, args []string) error {
	var list []taskJSON
	if _, err := doJSON("GET", "/api/v1/tasks/"+taskList, nil, &list, http.StatusOK); err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Printf("No tasks on %s\n", taskList)
		return nil
	}
	for _, t := range list {
		mark := " "
		if t.Done {
			mark = "x"
		}
		fmt.Printf("[%s] %s  %s\n", mark, t.ID, t.Text)
	}
	return nil
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	payload := struct {
		Text string `json:"text"`
	}{Text: strings.Join(args, " ")}

	var task taskJSON
	if _, err := doJSON("POST", "/api/v1/tasks/"+taskList, payload, &task, http.StatusCreated); err != nil {
		return err
	}
	fmt.Printf("Added %s to %s\n", task.ID, taskList)
	return nil
}

func runTasksDone(cmd *cobra.Command, args []string) error {
	var task taskJSON
	path := fmt.Sprintf("/api/v1/tasks/%s/%s/complete", taskList, args[0])
	if _, err := doJSON("POST", path, nil, &task, http.StatusOK); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", task.Text)
	return nil
}

func runTasksRm(cmd *cobra.Command, args []string) error {
	path := fmt.Sprintf("/api/v1/tasks/%s/%s", taskList, args[0])
	if _, err := doJSON("DELETE", path, nil, nil, http.StatusNoContent); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}
