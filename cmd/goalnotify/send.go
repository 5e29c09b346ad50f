package main

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"

	"github.com/vunf1/goalnotify/internal/model"
	"github.com/vunf1/goalnotify/internal/queue"
)

var sendOpts struct {
	title      string
	message    string
	duration   int
	icon       string
	bgColor    string
	silent     bool
	noFallback bool
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Enqueue a toast notification",
	Long: `Enqueue a toast notification on the daemon's queue.

The daemon renders it as a borderless popup stacked bottom-right that
fades in, holds for the given duration, and fades out.

If the daemon socket is unreachable, the notification falls back to the
regular desktop notification service unless --no-fallback is given.`,
	Example: `  goalnotify send --title "Goal!" --message "2-1 for the home team"
  goalnotify send --title "Warning" --message "Low disk space" --icon "⚠️" --duration 8000
  goalnotify send --title "Saved" --message "Match exported" --bg "#004400"`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.title, "title", "t", "", "Toast title (required)")
	sendCmd.Flags().StringVarP(&sendOpts.message, "message", "m", "", "Toast message")
	sendCmd.Flags().IntVarP(&sendOpts.duration, "duration", "d", 0,
		"Hold time in milliseconds (default 5000)")
	sendCmd.Flags().StringVarP(&sendOpts.icon, "icon", "i", "", "Icon glyph (default ℹ️)")
	sendCmd.Flags().StringVar(&sendOpts.bgColor, "bg", "", "Background color (#RRGGBB or name)")
	sendCmd.Flags().BoolVar(&sendOpts.silent, "silent", false, "Suppress the daemon's chime for this toast")
	sendCmd.Flags().BoolVar(&sendOpts.noFallback, "no-fallback", false,
		"Fail instead of falling back to the desktop notifier")
	_ = sendCmd.MarkFlagRequired("title")
}

func runSend(cmd *cobra.Command, args []string) error {
	opts := &model.Options{
		Duration: sendOpts.duration,
		Icon:     sendOpts.icon,
		BgColor:  sendOpts.bgColor,
		Silent:   sendOpts.silent,
	}

	producer, err := queue.Dial(socketPath())
	if err != nil {
		if sendOpts.noFallback {
			return err
		}
		logger.Debug("daemon unreachable, using desktop notifier", "error", err)
		if berr := beeep.Notify(sendOpts.title, sendOpts.message, ""); berr != nil {
			return fmt.Errorf("daemon unreachable and fallback failed: %w", berr)
		}
		return nil
	}
	defer func() { _ = producer.Close() }()

	queue.Init(producer)
	if err := queue.Notify(sendOpts.title, sendOpts.message, opts); err != nil {
		return fmt.Errorf("failed to enqueue toast: %w", err)
	}

	logger.Debug("toast enqueued", "title", sendOpts.title)
	return nil
}
