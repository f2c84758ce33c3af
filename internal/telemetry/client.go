package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"

	"github.com/josephgoksu/tasksage/internal/config"
)

// Client records usage events. Implementations never block the caller.
type Client interface {
	Track(event string, properties map[string]any)
	Close() error
}

// enqueuer is the subset of the PostHog client we use.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient sends events to PostHog under the anonymous id.
type PostHogClient struct {
	mu      sync.RWMutex
	client  enqueuer
	state   *State
	version string
}

// New returns a PostHog client when the user opted in and an API key is
// configured, and a NoopClient otherwise.
func New(cfg config.TelemetryConfig, state *State, version string) (Client, error) {
	if cfg.Disabled || cfg.APIKey == "" || state == nil || !state.Enabled {
		return NoopClient{}, nil
	}

	ph, err := posthog.NewWithConfig(cfg.APIKey, posthog.Config{
		Endpoint:  cfg.Host,
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietLogger{},
	})
	if err != nil {
		return nil, err
	}
	return newPostHogClient(ph, state, version), nil
}

func newPostHogClient(enq enqueuer, state *State, version string) *PostHogClient {
	return &PostHogClient{client: enq, state: state, version: version}
}

// Track enqueues an event. The SDK batches and sends it in the background.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil || c.state == nil || !c.state.Enabled {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("cli_version", c.version)
	// No person profiles: events stay anonymous.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.state.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes queued events.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// NoopClient drops every event.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}
func (NoopClient) Close() error                 { return nil }

// quietLogger keeps PostHog transport warnings out of CLI output.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
