package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vunf1/goalnotify/internal/config"
)

var configInitOpts struct {
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the daemon configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the daemon config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DaemonConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default daemon config file",
	Long: `Write a goalnotifyd config file populated with the default values,
so the geometry, fade timing, queue socket, D-Bus bridge and chime can
be edited in place. Refuses to overwrite an existing file unless
--force is given. The running daemon picks the file up automatically.`,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitOpts.force, "force", false,
		"Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.DaemonConfigPath()
	if err != nil {
		return err
	}

	if !configInitOpts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	if err := config.SaveDaemonConfig(config.DefaultDaemonConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Println("wrote", path)
	return nil
}
