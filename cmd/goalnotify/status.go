package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vunf1/goalnotify/internal/queue"
)

var statusOpts struct {
	jsonOutput bool
}

var (
	statusTitleStyle = lipgloss.NewStyle().Bold(true)
	statusKeyStyle   = lipgloss.NewStyle().Faint(true).Width(10)
	statusUpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusDownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Show the daemon's status: whether it is reachable, how many toasts
are currently visible, how many have been served, and its uptime.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.jsonOutput, "json", false, "Output status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	producer, err := queue.Dial(socketPath())
	if err != nil {
		if statusOpts.jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{"running": false})
		}
		fmt.Println(statusDownStyle.Render("goalnotifyd is not running"))
		os.Exit(1)
		return nil
	}
	defer func() { _ = producer.Close() }()

	status, err := producer.Status()
	if err != nil {
		return fmt.Errorf("failed to query daemon: %w", err)
	}

	if statusOpts.jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"running":    true,
			"version":    status.Version,
			"active":     status.Active,
			"served":     status.Served,
			"started_at": status.StartedAt,
		})
	}

	startedAt := time.Unix(status.StartedAt, 0)

	fmt.Println(statusTitleStyle.Render("goalnotifyd " + status.Version))
	fmt.Printf("%s %s\n", statusKeyStyle.Render("state"), statusUpStyle.Render("running"))
	fmt.Printf("%s %d visible\n", statusKeyStyle.Render("active"), status.Active)
	fmt.Printf("%s %d since start\n", statusKeyStyle.Render("served"), status.Served)
	fmt.Printf("%s %s (%s)\n", statusKeyStyle.Render("uptime"),
		humanize.Time(startedAt), startedAt.Format(time.RFC3339))

	return nil
}
