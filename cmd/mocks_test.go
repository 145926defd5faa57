package cmd

import (
	"context"
	"sync"
	"testing"

	"github.com/trly/servicedeck/internal/config"
	"github.com/trly/servicedeck/internal/history"
	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/systemd"
	"github.com/trly/servicedeck/internal/testutil"
	"github.com/trly/servicedeck/internal/testutil/fakerunner"
)

// MockValidator implements SystemValidator for testing.
type MockValidator struct {
	SystemRequirementsFunc func() error
}

func (m *MockValidator) SystemRequirements() error {
	if m.SystemRequirementsFunc != nil {
		return m.SystemRequirementsFunc()
	}
	return nil
}

// MockHistory implements history.Repository in memory.
type MockHistory struct {
	ListFunc func(context.Context, history.Query) ([]history.Entry, error)

	mu      sync.Mutex
	Entries []history.Entry
	Queries []history.Query
}

func (m *MockHistory) Record(_ context.Context, e *history.Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.Entries) + 1)
	m.Entries = append(m.Entries, *e)
	return e.ID, nil
}

func (m *MockHistory) List(ctx context.Context, q history.Query) ([]history.Entry, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return m.Entries, nil
}

// AppBuilder provides a fluent interface for building test Apps.
type AppBuilder struct {
	logger    log.Logger
	config    *config.Settings
	validator SystemValidator
	source    systemd.Source
	writer    systemd.UnitWriter
	history   history.Repository
}

// NewAppBuilder creates a new AppBuilder with sensible defaults.
func NewAppBuilder(t *testing.T) *AppBuilder {
	return &AppBuilder{
		logger:    testutil.NewTestLogger(t),
		config:    config.Defaults(),
		validator: &MockValidator{},
		source:    &systemd.MockSource{},
		writer:    &systemd.MockWriter{},
	}
}

func (b *AppBuilder) WithValidator(v SystemValidator) *AppBuilder {
	b.validator = v
	return b
}

func (b *AppBuilder) WithConfig(c *config.Settings) *AppBuilder {
	b.config = c
	return b
}

func (b *AppBuilder) WithSource(s systemd.Source) *AppBuilder {
	b.source = s
	return b
}

func (b *AppBuilder) WithWriter(w systemd.UnitWriter) *AppBuilder {
	b.writer = w
	return b
}

func (b *AppBuilder) WithHistory(h history.Repository) *AppBuilder {
	b.history = h
	return b
}

func (b *AppBuilder) Build(t *testing.T) *App {
	provider := testutil.NewMockConfig(t)
	provider.SetConfig(b.config)
	return &App{
		Logger:         b.logger,
		Config:         b.config,
		ConfigProvider: provider,
		Runner:         fakerunner.New(),
		Source:         b.source,
		Writer:         b.writer,
		History:        b.history,
		Validator:      b.validator,
	}
}
