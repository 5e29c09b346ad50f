package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vunf1/goalnotify/internal/model"
	"github.com/vunf1/goalnotify/internal/queue"
)

var promptOpts struct {
	title   string
	message string
	icon    string
	bgColor string
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Ask a modal Yes/No question",
	Long: `Ask a modal Yes/No question through the daemon.

The daemon shows a centered, always-on-top dialog and this command
blocks until the user answers. Exit code 0 means Yes, 1 means No or
any other dismissal. There is no timeout.`,
	Example: `  goalnotify prompt --title "Reset match?" --message "All scores will be lost."
  if goalnotify prompt -t "Quit" -m "Really quit?"; then echo confirmed; fi`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().StringVarP(&promptOpts.title, "title", "t", "", "Prompt title (required)")
	promptCmd.Flags().StringVarP(&promptOpts.message, "message", "m", "", "Prompt message")
	promptCmd.Flags().StringVarP(&promptOpts.icon, "icon", "i", "", "Icon glyph (default ℹ️)")
	promptCmd.Flags().StringVar(&promptOpts.bgColor, "bg", "", "Background color (#RRGGBB or name)")
	_ = promptCmd.MarkFlagRequired("title")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	producer, err := queue.Dial(socketPath())
	if err != nil {
		return err
	}
	defer func() { _ = producer.Close() }()

	opts := &model.Options{
		Icon:    promptOpts.icon,
		BgColor: promptOpts.bgColor,
	}

	result, err := producer.Prompt(promptOpts.title, promptOpts.message, opts)
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	if result {
		fmt.Println("yes")
		return nil
	}

	fmt.Println("no")
	os.Exit(1)
	return nil
}
