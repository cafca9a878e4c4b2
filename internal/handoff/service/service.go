// Package service hosts the handoff coordinator: the state machine that
// sequences nonce creation, provider redirect, provider callback, and session
// redemption across the stateless and stateful flows.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"relay/internal/audit"
	"relay/internal/handoff/models"
	"relay/internal/handoff/session"
	"relay/internal/handoff/store/nonce"
	"relay/internal/platform/metrics"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ProviderClient,UserLogin

// ProviderClient wraps the third-party OAuth provider SDK: it builds the
// authorization redirect and fetches the normalized profile after the
// provider calls back. Provider-specific quirks stay behind it.
type ProviderClient interface {
	Redirect(ctx context.Context, provider, state string) (models.RedirectResponse, error)
	FetchProfile(ctx context.Context, provider string, stateless bool) (models.ProviderProfile, error)
}

// UserLogin owns find-or-create policy and the first-party session. The
// coordinator consumes the LoginStatus taxonomy for branching only.
type UserLogin interface {
	// HandleOAuthLogin resolves a provider profile to a first-party user.
	HandleOAuthLogin(ctx context.Context, provider string, profile models.ProviderProfile) (*models.User, models.LoginStatus, error)
	// LogInWithID establishes a first-party session for a known user id.
	// An error means the collaborator rejected the id.
	LogInWithID(ctx context.Context, userID string) (*models.User, error)
}

// NonceStore is the client-nonce lifecycle consumed by the coordinator.
type NonceStore interface {
	Create(ctx context.Context) (string, error)
	SignedOf(raw string) string
	Resolve(ctx context.Context, signed string, expected nonce.State) (string, error)
	MarkRedirected(ctx context.Context, raw string) error
	AssignUser(ctx context.Context, raw, userID string) error
	UserIDOf(ctx context.Context, raw string) (string, error)
	Forget(ctx context.Context, raw string) error
}

// TokenStore is the server-token lifecycle consumed by the coordinator.
type TokenStore interface {
	Create(ctx context.Context, rawNonce string) (string, error)
	SignedOf(raw string) string
	NonceOf(ctx context.Context, signedToken string) (string, bool, error)
	Forget(ctx context.Context, signedToken string) (bool, error)
}

// Coordinator orchestrates the four protocol operations. One invocation per
// inbound request; cross-request concurrency is handled entirely by the
// single-key atomic semantics of the backing stores.
type Coordinator struct {
	nonces   NonceStore
	tokens   TokenStore
	provider ProviderClient
	login    UserLogin
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  audit.Publisher
	tracer   trace.Tracer
}

// Option configures optional coordinator collaborators.
type Option func(*Coordinator)

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithAuditPublisher attaches an audit sink.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(c *Coordinator) { c.auditor = p }
}

// New constructs a coordinator.
func New(nonces NonceStore, tokens TokenStore, provider ProviderClient, login UserLogin, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		nonces:   nonces,
		tokens:   tokens,
		provider: provider,
		login:    login,
		logger:   logger,
		auditor:  audit.Nop{},
		tracer:   otel.Tracer("relay/handoff"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// CreateClientNonce issues a signed client nonce and mirrors it into the
// caller's browser session. A mirror failure does not void the nonce; the
// mirror is a same-origin convenience, not part of the protocol.
func (c *Coordinator) CreateClientNonce(ctx context.Context, mirror session.Mirror) (string, error) {
	ctx, span := c.tracer.Start(ctx, "handoff.CreateClientNonce")
	defer span.End()

	signed, err := c.nonces.Create(ctx)
	if err != nil {
		return "", err
	}
	if mirror != nil {
		if err := mirror.Set(ctx, signed); err != nil {
			c.logger.Warn("session mirror update failed", "error", err)
		}
	}

	if c.metrics != nil {
		c.metrics.NoncesIssued.Inc()
	}
	c.auditor.Emit(ctx, audit.Event{Action: audit.ActionNonceIssued})
	return signed, nil
}

// BuildRedirect returns the provider authorization redirect. An empty
// requestNonce selects the stateful path (no bound state); otherwise the
// nonce is consumed from CREATED into REDIRECTED and a server token is bound
// to it and round-tripped as the OAuth state parameter.
func (c *Coordinator) BuildRedirect(ctx context.Context, provider, requestNonce string) (models.RedirectResponse, error) {
	ctx, span := c.tracer.Start(ctx, "handoff.BuildRedirect")
	defer span.End()

	if requestNonce == "" {
		redirect, err := c.provider.Redirect(ctx, provider, "")
		if err != nil {
			return models.RedirectResponse{}, err
		}
		c.countRedirect("stateful")
		c.auditor.Emit(ctx, audit.Event{Action: audit.ActionRedirectBuilt, Provider: provider, Flow: "stateful"})
		return redirect, nil
	}

	raw, err := c.nonces.Resolve(ctx, requestNonce, nonce.StateCreated)
	if err != nil {
		return models.RedirectResponse{}, err
	}
	if err := c.nonces.MarkRedirected(ctx, raw); err != nil {
		return models.RedirectResponse{}, err
	}
	signedToken, err := c.tokens.Create(ctx, raw)
	if err != nil {
		return models.RedirectResponse{}, err
	}
	redirect, err := c.provider.Redirect(ctx, provider, signedToken)
	if err != nil {
		return models.RedirectResponse{}, err
	}

	c.countRedirect("stateless")
	c.auditor.Emit(ctx, audit.Event{Action: audit.ActionRedirectBuilt, Provider: provider, Flow: "stateless"})
	return redirect, nil
}

func (c *Coordinator) countRedirect(flow string) {
	if c.metrics != nil {
		c.metrics.RedirectsBuilt.WithLabelValues(flow).Inc()
	}
}
