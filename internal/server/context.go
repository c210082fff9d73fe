package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taslimamindia/inboxpilot/internal/calendar"
	"github.com/taslimamindia/inboxpilot/internal/gmail"
	"github.com/taslimamindia/inboxpilot/internal/instrumentation"
	"github.com/taslimamindia/inboxpilot/internal/scheduling"
)

// ServerContext holds the shared state of the MCP server: per-account
// Google clients, the scheduling engines built on top of them, and the
// observability hooks.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	schedConfig scheduling.Config

	gmailClients map[string]*gmail.Client
	engines      map[string]*scheduling.Engine

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. The scheduling
// configuration applies to every account's engine.
func NewServerContext(ctx context.Context, schedConfig scheduling.Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		schedConfig:  schedConfig,
		gmailClients: make(map[string]*gmail.Client),
		engines:      make(map[string]*scheduling.Engine),
	}

	// Eagerly create the default clients when a token is already cached.
	// Missing tokens are not an error, clients are created lazily on
	// first use after authentication.
	if gmail.HasTokenForAccount("default") {
		client, err := gmail.NewClient(shutdownCtx)
		if err != nil {
			slog.Warn("failed to create Gmail client for default account", "error", err)
		} else {
			sc.gmailClients["default"] = client
		}
	}

	return sc, nil
}

// Context returns the server's shutdown context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// SetMetrics attaches the metrics recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger attaches the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// GmailClientForAccount returns the Gmail client for a specific account,
// creating and caching it on first use. Returns nil when the account has no
// token.
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[account]; ok {
		return client
	}

	if !gmail.HasTokenForAccount(account) {
		return nil
	}

	client, err := gmail.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("failed to create Gmail client", "account", account, "error", err)
		return nil
	}

	sc.gmailClients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account.
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount("default")
}

// SetGmailClientForAccount sets the Gmail client for a specific account.
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
}

// EngineForAccount returns the scheduling engine for a specific account,
// creating and caching it on first use. Returns nil when the account has no
// token or the engine cannot be built.
func (sc *ServerContext) EngineForAccount(account string) *scheduling.Engine {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if engine, ok := sc.engines[account]; ok {
		return engine
	}

	if !calendar.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("failed to create Calendar client", "account", account, "error", err)
		return nil
	}

	engine, err := scheduling.NewEngine(client, sc.schedConfig)
	if err != nil {
		slog.Warn("failed to create scheduling engine", "account", account, "error", err)
		return nil
	}

	sc.engines[account] = engine
	return engine
}

// Engine returns the scheduling engine for the default account.
func (sc *ServerContext) Engine() *scheduling.Engine {
	return sc.EngineForAccount("default")
}

// SetEngineForAccount sets the scheduling engine for a specific account.
func (sc *ServerContext) SetEngineForAccount(account string, engine *scheduling.Engine) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.engines[account] = engine
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
