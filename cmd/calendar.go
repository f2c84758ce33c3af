package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/tasksage/internal/calendar"
	"github.com/josephgoksu/tasksage/internal/config"
	"github.com/josephgoksu/tasksage/internal/ui"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Sync schedules with Google Calendar",
}

var calendarExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Schedule tasks and add the blocks to Google Calendar",
	Long: `Build the pomodoro schedule for <file> and write one event per task to
Google Calendar. Exporting the same task again moves its existing event.

Requires calendar.credentialsFile (an OAuth client JSON from the Google Cloud
console). The first run asks you to authorize access in a browser.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		tasks, err := loadTasks(cmd, args[0])
		if err != nil {
			return err
		}
		defer func() { trackRun(cmd, len(tasks), start, err) }()

		calCfg, err := config.LoadCalendarConfig()
		if err != nil {
			return err
		}
		now, err := parseNowFlag(nowFlag)
		if err != nil {
			return err
		}
		entries, _, err := planDay(cmd, tasks, now)
		if err != nil {
			return err
		}

		var prompt calendar.Prompt
		if ui.IsInteractive() {
			prompt = calendar.Prompt{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
		}
		srv, err := calendar.NewService(cmd.Context(), calCfg, prompt)
		if err != nil {
			return err
		}

		exporter := calendar.NewExporter(calendar.NewGoogleStore(srv), calCfg.CalendarID, calCfg.TimeZone)
		res, err := exporter.Export(cmd.Context(), entries)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d created, %d updated in calendar %q\n",
			ui.StyleSuccess.Render("✓"), res.Created, res.Updated, calCfg.CalendarID)
		return nil
	},
}

func init() {
	calendarExportCmd.Flags().StringVar(&nowFlag, "now", "", `schedule start, RFC 3339 or "YYYY-MM-DD HH:MM" (default: current time)`)
	calendarCmd.AddCommand(calendarExportCmd)
	rootCmd.AddCommand(calendarCmd)
}
