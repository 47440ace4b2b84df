package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yndnr/appcore-go/internal/apiclient"
	"github.com/yndnr/appcore-go/internal/storage"
)

// ErrNotInitialized is returned when a dependent client is requested before
// Bootstrap.
var ErrNotInitialized = errors.New("app not initialized: call Bootstrap first")

// Recorder is notified after a successful bootstrap.
type Recorder interface {
	RecordBootstrap()
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithClientFactory replaces the API client constructor.
func WithClientFactory(f apiclient.Factory) Option {
	return func(r *Registry) {
		r.newClient = f
	}
}

// WithRecorder reports bootstraps to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		r.recorder = rec
	}
}

// Registry holds the app-wide dependencies.
type Registry struct {
	store     storage.Storage
	baseURL   string
	newClient apiclient.Factory
	logger    *slog.Logger
	recorder  Recorder

	mu          sync.Mutex
	initialized bool
	client      *apiclient.Client
}

// New creates an uninitialized registry. baseURL is read once, by Bootstrap.
func New(store storage.Storage, baseURL string, opts ...Option) *Registry {
	r := &Registry{
		store:   store,
		baseURL: baseURL,
		newClient: func(s storage.Storage, url string) (*apiclient.Client, error) {
			return apiclient.New(s, url)
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bootstrap constructs the dependent clients. Calling it again after a
// successful run logs a warning and does nothing. If construction fails the
// registry stays uninitialized and Bootstrap may be retried.
func (r *Registry) Bootstrap() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		r.logger.Warn("app already initialized")
		return nil
	}

	client, err := r.newClient(r.store, r.baseURL)
	if err != nil {
		return fmt.Errorf("bootstrap api client: %w", err)
	}

	r.client = client
	r.initialized = true

	if r.recorder != nil {
		r.recorder.RecordBootstrap()
	}
	r.logger.Info("app initialized", "api_base_url", client.BaseURL())
	return nil
}

// Initialized reports whether Bootstrap has completed.
func (r *Registry) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Storage returns the storage layer. It does not require Bootstrap.
func (r *Registry) Storage() storage.Storage {
	return r.store
}

// APIClient returns the API client, or ErrNotInitialized before Bootstrap.
func (r *Registry) APIClient() (*apiclient.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}
	return r.client, nil
}

// MustAPIClient is APIClient for callers that treat a missing Bootstrap as a
// programming error.
func (r *Registry) MustAPIClient() *apiclient.Client {
	c, err := r.APIClient()
	if err != nil {
		panic(err)
	}
	return c
}
