// Package main implements the daybook CLI for manual operations against the daybookd HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the daybookd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "CLI for the daybook journal server",
	Long: `daybook is a command-line interface for the daybookd HTTP server.
It shows journal days, logs and plans entries, completes and reschedules
plans, and manages the task directory.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:7340", "daybookd server URL")
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(replanCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(healthCmd)
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daybookd server health",
	Long: `Check the health status of the daybookd HTTP server.

Examples:
  # Check health
  daybook health

  # Check health on a different server
  daybook health --server http://localhost:8080`,
	RunE: runHealth,
}

// HealthResponse matches internal/http/types.go HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse matches internal/http/types.go ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)

	return nil
}

// doJSON sends a JSON request and decodes the response into out when the
// status is one of want. Other statuses surface the server's error body.
func doJSON(method, path string, body, out any, want ...int) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := serverURL + path
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	for _, w := range want {
		if resp.StatusCode == w {
			if out != nil {
				if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
					return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
				}
			}
			return resp.StatusCode, nil
		}
	}

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
	}
	var errResp ErrorResponse
	if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
		return resp.StatusCode, fmt.Errorf("server returned status %d: %s", resp.StatusCode, errResp.Error)
	}
	return resp.StatusCode, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(raw))
}

// journalDate resolves a positional date argument. With no argument it
// returns the current journal date, which rolls over at 7am rather than
// midnight: at 1am you are still writing in yesterday's page.
func journalDate(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	now := time.Now()
	if now.Hour() < 7 {
		now = now.AddDate(0, 0, -1)
	}
	return now.Format("2006-01-02")
}
