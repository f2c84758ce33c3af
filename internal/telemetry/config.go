// Package telemetry sends anonymous, opt-in usage events for tasksage.
// Nothing is sent until the user has enabled it with `tasksage telemetry enable`.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/josephgoksu/tasksage/internal/config"
)

// StateFileName is the consent file kept next to the global config.
const StateFileName = "telemetry.json"

// State is the persisted consent choice. It lives outside config.yaml so that
// a shared project config can never opt a user in.
type State struct {
	Enabled      bool   `json:"enabled"`
	ConsentAsked bool   `json:"consent_asked"`
	AnonymousID  string `json:"anonymous_id"`
}

// StatePath returns ~/.tasksage/telemetry.json.
func StatePath() (string, error) {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, StateFileName), nil
}

// LoadState reads the consent file. A missing file yields a disabled state
// with a fresh anonymous id.
func LoadState() (*State, error) {
	path, err := StatePath()
	if err != nil {
		return nil, fmt.Errorf("telemetry state path: %w", err)
	}

	st := &State{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read telemetry state: %w", err)
	default:
		if err := json.Unmarshal(data, st); err != nil {
			return nil, fmt.Errorf("parse telemetry state: %w", err)
		}
	}

	if st.AnonymousID == "" {
		st.AnonymousID = uuid.NewString()
	}
	return st, nil
}

// Save writes the state with owner-only permissions.
func (s *State) Save() error {
	path, err := StatePath()
	if err != nil {
		return fmt.Errorf("telemetry state path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry state: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write telemetry state: %w", err)
	}
	return nil
}

// Enable records consent.
func (s *State) Enable() {
	s.Enabled = true
	s.ConsentAsked = true
}

// Disable records a refusal.
func (s *State) Disable() {
	s.Enabled = false
	s.ConsentAsked = true
}
