package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/tasksage/internal/config"
	"github.com/josephgoksu/tasksage/internal/telemetry"
)

var telemetryClient telemetry.Client = telemetry.NoopClient{}

// initTelemetry replaces the noop client when the user opted in.
func initTelemetry() {
	cfg, err := config.LoadTelemetryConfig()
	if err != nil {
		slog.Debug("telemetry config invalid", "error", err)
		return
	}
	if cfg.Disabled || cfg.APIKey == "" {
		return
	}
	state, err := telemetry.LoadState()
	if err != nil {
		slog.Debug("telemetry state unreadable", "error", err)
		return
	}
	client, err := telemetry.New(cfg, state, version)
	if err != nil {
		slog.Debug("telemetry client failed", "error", err)
		return
	}
	telemetryClient = client
}

func closeTelemetry() {
	if err := telemetryClient.Close(); err != nil {
		slog.Debug("telemetry flush failed", "error", err)
	}
}

// trackRun records one planning command. It never carries task content.
func trackRun(cmd *cobra.Command, taskCount int, start time.Time, err error) {
	telemetry.TrackCommand(telemetryClient, telemetry.CommandRun{
		Command:   cmd.Name(),
		TaskCount: taskCount,
		Duration:  time.Since(start),
		Err:       err,
	})
}

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous usage telemetry",
	Long: `Telemetry is off until you enable it. When on, tasksage sends the command
name, task count, duration and error kind with an anonymous id. Task titles
and descriptions are never sent.`,
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Opt in to anonymous usage telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Opt out of usage telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether telemetry is enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := telemetry.LoadState()
		if err != nil {
			return err
		}
		status := "disabled"
		if state.Enabled {
			status = "enabled"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Telemetry: %s\nAnonymous ID: %s\n", status, state.AnonymousID)
		return nil
	},
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	state, err := telemetry.LoadState()
	if err != nil {
		return err
	}
	if enabled {
		state.Enable()
	} else {
		state.Disable()
	}
	if err := state.Save(); err != nil {
		return err
	}
	word := "disabled"
	if enabled {
		word = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Telemetry %s.\n", word)
	return nil
}

func init() {
	telemetryCmd.AddCommand(telemetryEnableCmd, telemetryDisableCmd, telemetryStatusCmd)
	rootCmd.AddCommand(telemetryCmd)
}
