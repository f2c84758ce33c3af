package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/josephgoksu/tasksage/internal/llm"
)

// SaveGlobalValue sets one key in ~/.tasksage/config.yaml, preserving the rest
// of the file. The file is created with 0600 permissions since it may hold keys.
func SaveGlobalValue(key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("config key cannot be empty")
	}

	configFile, err := GlobalConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	// Read existing if any to preserve other settings
	if _, err := os.Stat(configFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read %s: %w", configFile, err)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(configFile); err != nil {
		return err
	}
	return os.Chmod(configFile, 0600)
}

// SaveAPIKeyForProvider saves only the API key for a specific provider without
// changing the configured provider or model.
func SaveAPIKeyForProvider(provider, key string) error {
	if provider == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if _, err := llm.ValidateEmbeddingProvider(provider); err != nil {
		if _, cerr := llm.ValidateProvider(provider); cerr != nil {
			return cerr
		}
	}
	return SaveGlobalValue(fmt.Sprintf("llm.apiKeys.%s", provider), key)
}
