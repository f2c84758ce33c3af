package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v3"

	"github.com/josephgoksu/tasksage/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change tasksage settings",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in ~/.tasksage/config.yaml",
	Long: `Set one key in the global config file. Values are parsed as YAML scalars,
so "true", "0.6" and "[a, b]" become a bool, a number and a list.

Examples:
  tasksage config set embedding.provider openai
  tasksage config set engine.grouping.adaptive false
  tasksage config set server.allowedOrigins "[https://app.example.com]"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := parseValue(args[1])
		if err := config.SaveGlobalValue(args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider> <api-key>",
	Short: "Store an API key for a model provider",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveAPIKeyForProvider(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved API key for %s\n", args[0])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := redact(viper.AllSettings())
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), settings)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
		}
		out, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// parseValue decodes a CLI argument as a YAML scalar, falling back to the raw string.
func parseValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}

// redact masks secrets in a settings tree.
func redact(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		switch val := v.(type) {
		case map[string]any:
			if strings.EqualFold(k, "apikeys") {
				masked := make(map[string]any, len(val))
				for p := range val {
					masked[p] = "********"
				}
				out[k] = masked
				continue
			}
			out[k] = redact(val)
		case string:
			if strings.EqualFold(k, "apikey") && val != "" {
				out[k] = "********"
				continue
			}
			out[k] = val
		default:
			out[k] = v
		}
	}
	return out
}

func init() {
	configCmd.AddCommand(configSetCmd, configSetKeyCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
