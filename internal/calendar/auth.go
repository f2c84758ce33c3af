package calendar

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/josephgoksu/tasksage/internal/config"
)

// Prompt carries the terminal used for the one-time OAuth consent.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// NewService returns an authenticated Calendar service. When no token is
// cached the user is asked to open the consent URL and paste the code back.
func NewService(ctx context.Context, cfg config.CalendarConfig, prompt Prompt) (*gcal.Service, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read calendar credentials %s: %w", cfg.CredentialsFile, err)
	}
	oauthCfg, err := google.ConfigFromJSON(raw, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse calendar credentials: %w", err)
	}

	tok, err := LoadToken(cfg.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		tok, err = authorize(ctx, oauthCfg, prompt)
		if err == nil {
			err = SaveToken(cfg.TokenFile, tok)
		}
	}
	if err != nil {
		return nil, err
	}

	srv, err := gcal.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return srv, nil
}

func authorize(ctx context.Context, cfg *oauth2.Config, prompt Prompt) (*oauth2.Token, error) {
	if prompt.In == nil || prompt.Out == nil {
		return nil, errors.New("calendar is not authorized yet; run `tasksage calendar export` from a terminal once")
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	}

	url := cfg.AuthCodeURL("tasksage", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(prompt.Out, "Open this URL to let tasksage add events to your calendar:\n\n  %s\n\nPaste the authorization code: ", url)

	code, err := bufio.NewReader(prompt.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("no authorization code entered")
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// LoadToken reads a cached OAuth token.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return tok, nil
}

// SaveToken caches an OAuth token with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("write token %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(tok)
}
