package config

import (
	"path/filepath"
	"time"

	"github.com/josephgoksu/tasksage/internal/estimator"
)

// EstimatorConfig points at the learned-estimator endpoints. Both are optional.
type EstimatorConfig struct {
	PriorityURL   string        `validate:"omitempty,url"`
	DependencyURL string        `validate:"omitempty,url"`
	APIKey        string        `validate:"-"`
	Timeout       time.Duration `validate:"gte=0"`
}

// LoadEstimatorConfig loads estimator endpoints from Viper.
func LoadEstimatorConfig() (EstimatorConfig, error) {
	cfg := EstimatorConfig{
		PriorityURL:   getStringWithDefault("estimators.priority.url", ""),
		DependencyURL: getStringWithDefault("estimators.dependency.url", ""),
		APIKey:        getStringWithDefault("estimators.apiKey", ""),
		Timeout:       getDurationWithDefault("estimators.timeout", DefaultEstimatorTimeout),
	}
	if err := validateStruct("estimators", cfg); err != nil {
		return EstimatorConfig{}, err
	}
	return cfg, nil
}

// Build returns HTTP estimators for the configured endpoints. Unset endpoints
// yield nil, which the engines treat as "heuristics only".
func (c EstimatorConfig) Build() (prio, deps estimator.Estimator, err error) {
	if c.PriorityURL != "" {
		p, err := estimator.NewHTTPEstimator(estimator.HTTPConfig{URL: c.PriorityURL, APIKey: c.APIKey, Timeout: c.Timeout})
		if err != nil {
			return nil, nil, err
		}
		prio = p
	}
	if c.DependencyURL != "" {
		d, err := estimator.NewHTTPEstimator(estimator.HTTPConfig{URL: c.DependencyURL, APIKey: c.APIKey, Timeout: c.Timeout})
		if err != nil {
			return nil, nil, err
		}
		deps = d
	}
	return prio, deps, nil
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int           `validate:"gte=1,lte=65535"`
	APIKey         string        `validate:"-"`
	AllowedOrigins []string      `validate:"dive,required"`
	RequestTimeout time.Duration `validate:"gt=0"`
}

// LoadServerConfig loads HTTP API settings. An empty APIKey disables the check.
func LoadServerConfig() (ServerConfig, error) {
	cfg := ServerConfig{
		Port:           getIntWithDefault("server.port", DefaultServerPort),
		APIKey:         getStringWithDefault("server.apiKey", ""),
		AllowedOrigins: getStringSliceWithDefault("server.allowedOrigins", []string{"*"}),
		RequestTimeout: getDurationWithDefault("server.requestTimeout", DefaultRequestTimeout),
	}
	if err := validateStruct("server", cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// CalendarConfig configures Google Calendar export.
type CalendarConfig struct {
	CredentialsFile string `validate:"required"`
	TokenFile       string `validate:"required"`
	CalendarID      string `validate:"required"`
	TimeZone        string `validate:"omitempty,timezone"`
}

// LoadCalendarConfig loads calendar export settings. The token file defaults
// to ~/.tasksage/calendar_token.json.
func LoadCalendarConfig() (CalendarConfig, error) {
	tokenDefault := ""
	if dir, err := GetGlobalConfigDir(); err == nil {
		tokenDefault = filepath.Join(dir, "calendar_token.json")
	}
	cfg := CalendarConfig{
		CredentialsFile: getStringWithDefault("calendar.credentialsFile", ""),
		TokenFile:       getStringWithDefault("calendar.tokenFile", tokenDefault),
		CalendarID:      getStringWithDefault("calendar.id", DefaultCalendarID),
		TimeZone:        getStringWithDefault("calendar.timeZone", ""),
	}
	if err := validateStruct("calendar", cfg); err != nil {
		return CalendarConfig{}, err
	}
	return cfg, nil
}

// TelemetryConfig holds the PostHog settings. Consent itself is stored by the
// telemetry package.
type TelemetryConfig struct {
	Disabled bool
	APIKey   string
	Host     string `validate:"omitempty,url"`
}

// LoadTelemetryConfig loads telemetry overrides from Viper.
func LoadTelemetryConfig() (TelemetryConfig, error) {
	cfg := TelemetryConfig{
		Disabled: getBoolWithDefault("telemetry.disabled", false),
		APIKey:   getStringWithDefault("telemetry.apiKey", ""),
		Host:     getStringWithDefault("telemetry.host", DefaultTelemetryHost),
	}
	if err := validateStruct("telemetry", cfg); err != nil {
		return TelemetryConfig{}, err
	}
	return cfg, nil
}
