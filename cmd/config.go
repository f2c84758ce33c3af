package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/tasksage/internal/config"
	"github.com/josephgoksu/tasksage/internal/logger"
)

// projectConfigFile is looked up in the working directory before the global file.
const projectConfigFile = ".tasksage.yaml"

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := resolveConfigFile()
	if path == "" {
		return
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading config file:", path, "-", err)
		return
	}
	if viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolveConfigFile picks --config, then ./.tasksage.yaml, then the global file.
func resolveConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(projectConfigFile); err == nil {
		return projectConfigFile
	}
	global, err := config.GlobalConfigFile()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(global); errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return global
}

// setupLogging installs the slog default logger and points crash logs at the
// state directory. Logs go to stderr so stdout stays clean for --json.
func setupLogging(w io.Writer) error {
	level := viper.GetString("log.level")
	if level == "" {
		level = "warn"
	}
	if verbose || viper.GetBool("verbose") {
		level = "debug"
	}
	if err := logger.Setup(w, level, viper.GetString("log.format")); err != nil {
		return err
	}

	if dir, err := config.GetCrashLogDir(); err == nil {
		logger.SetCrashDir(dir)
	}
	return nil
}
