// README: Process-wide, init-once holder for the Google Maps client.
package maps

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"googlemaps.github.io/maps"
)

// Loader hands out one shared *maps.Client. Concurrent first calls share a
// single in-flight initialisation; Close releases the client and the next
// Client call initialises a fresh one.
type Loader struct {
	apiKey  string
	timeout time.Duration
	opts    []maps.ClientOption
	newFn   func(opts ...maps.ClientOption) (*maps.Client, error)

	mu     sync.RWMutex
	client *maps.Client
	group  singleflight.Group
	loads  int
}

// NewLoader does not contact the service; the client is built on first use.
// Extra options are appended after the API key and HTTP client.
func NewLoader(apiKey string, timeout time.Duration, opts ...maps.ClientOption) *Loader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Loader{apiKey: apiKey, timeout: timeout, opts: opts, newFn: maps.NewClient}
}

func (l *Loader) Client(ctx context.Context) (*maps.Client, error) {
	l.mu.RLock()
	c := l.client
	l.mu.RUnlock()
	if c != nil {
		return c, nil
	}
	if l.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	ch := l.group.DoChan("client", func() (any, error) {
		l.mu.RLock()
		existing := l.client
		l.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}
		opts := append([]maps.ClientOption{
			maps.WithAPIKey(l.apiKey),
			maps.WithHTTPClient(&http.Client{Timeout: l.timeout}),
		}, l.opts...)
		client, err := l.newFn(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create maps client: %w", err)
		}
		l.mu.Lock()
		l.client = client
		l.loads++
		l.mu.Unlock()
		return client, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*maps.Client), nil
	}
}

func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.client != nil
}

// Close drops the shared client. Idempotent.
func (l *Loader) Close() {
	l.mu.Lock()
	l.client = nil
	l.mu.Unlock()
	l.group.Forget("client")
}
