/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/tasksage/internal/logger"
	"github.com/josephgoksu/tasksage/internal/task"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging.
	verbose bool
	// jsonOutput prints machine-readable JSON instead of tables.
	jsonOutput bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasksage",
	Short: "Group, prioritize and schedule your tasks.",
	Long: `tasksage reads a batch of tasks and helps you plan them.

It clusters related tasks, suggests preparation steps, scores priorities
and lays the day out as pomodoro blocks. The same engine is available as
an HTTP API (tasksage serve) and as MCP tools (tasksage mcp).

Task files are JSON or YAML, either a bare list or {"tasks": [...]}.
Use "-" to read from stdin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand(cmd.CommandPath())
		if err := setupLogging(cmd.ErrOrStderr()); err != nil {
			return err
		}
		initTelemetry()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)

	err := rootCmd.Execute()
	closeTelemetry()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(exitCode(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.tasksage.yaml, then ~/.tasksage/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
	pf.String("log-format", "text", "log format: text or json")

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	rootCmd.Version = version
}

// printError writes a one-line error. Engine errors lead with their kind.
func printError(w io.Writer, err error) {
	var te *task.Error
	if errors.As(err, &te) {
		fmt.Fprintf(w, "Error [%s]: %s\n", te.Kind, te.Message)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// exitCode is 2 for input problems the user can fix and 1 otherwise.
func exitCode(err error) int {
	switch task.KindOf(err) {
	case task.KindMissingRequiredField, task.KindInsufficientData, task.KindInvalidDateFormat:
		return 2
	default:
		return 1
	}
}
