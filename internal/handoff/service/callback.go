package service

import (
	"context"
	"time"

	dErrors "relay/pkg/domain-errors"

	"relay/internal/audit"
	"relay/internal/handoff/models"
	"relay/internal/handoff/store/nonce"
)

// AuthenticateCallback handles the provider's return leg. The signed token
// (the round-tripped OAuth state) selects the flow: if it resolves to a bound
// nonce this is the stateless path, otherwise the stateful one.
//
// On a success status the stateless path consumes the token and writes the
// user id into the nonce slot for later redemption; the stateful path logs
// the user in directly. On a non-success status neither store is touched, but
// a bound nonce is still re-signed and returned so the originating context
// can be informed and cleaned up. The result is returned unconditionally.
func (c *Coordinator) AuthenticateCallback(ctx context.Context, provider, signedToken string) (models.OAuthLoginResult, error) {
	ctx, span := c.tracer.Start(ctx, "handoff.AuthenticateCallback")
	defer span.End()
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.CallbackSeconds.Observe(time.Since(start).Seconds())
		}
	}()

	rawNonce, bound, err := c.tokens.NonceOf(ctx, signedToken)
	if err != nil {
		return models.OAuthLoginResult{}, err
	}

	profile, err := c.provider.FetchProfile(ctx, provider, bound)
	if err != nil {
		return models.OAuthLoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "provider profile fetch failed")
	}

	user, status, err := c.login.HandleOAuthLogin(ctx, provider, profile)
	if err != nil {
		return models.OAuthLoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "login handling failed")
	}
	if status.Success() && user == nil {
		return models.OAuthLoginResult{}, dErrors.New(dErrors.CodeInternal, "success status without a user")
	}

	result := models.OAuthLoginResult{User: user, Status: status}
	flow := "stateful"
	if bound {
		flow = "stateless"
	}

	if status.Success() {
		if bound {
			if _, err := c.tokens.Forget(ctx, signedToken); err != nil {
				return models.OAuthLoginResult{}, err
			}
			if err := c.nonces.AssignUser(ctx, rawNonce, user.ID); err != nil {
				return models.OAuthLoginResult{}, err
			}
			result.SignedNonce = c.nonces.SignedOf(rawNonce)
		} else {
			if _, err := c.login.LogInWithID(ctx, user.ID); err != nil {
				return models.OAuthLoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "first-party login failed")
			}
		}
	} else if bound {
		// Best-effort courtesy: hand the nonce back even though the login
		// did not succeed.
		result.SignedNonce = c.nonces.SignedOf(rawNonce)
	}

	if c.metrics != nil {
		c.metrics.CallbackResults.WithLabelValues(string(status)).Inc()
	}
	event := audit.Event{Action: audit.ActionCallbackDone, Provider: provider, Flow: flow, Status: string(status)}
	if user != nil && status.Success() {
		event.UserID = user.ID
	}
	c.auditor.Emit(ctx, event)
	return result, nil
}

// RedeemClientNonce exchanges a consumed nonce for a first-party session
// exactly once. The slot is deleted regardless of outcome; a concurrent or
// repeated redemption finds it gone and fails instead of re-granting a
// session.
func (c *Coordinator) RedeemClientNonce(ctx context.Context, signedNonce string) (*models.User, error) {
	ctx, span := c.tracer.Start(ctx, "handoff.RedeemClientNonce")
	defer span.End()

	raw, err := c.nonces.Resolve(ctx, signedNonce, nonce.StateAny)
	if err != nil {
		c.countRedemption(ctx, "invalid_nonce", "")
		return nil, err
	}

	userID, userErr := c.nonces.UserIDOf(ctx, raw)

	// Single-use guarantee: delete before acting on the lookup outcome.
	if err := c.nonces.Forget(ctx, raw); err != nil {
		c.logger.Error("nonce deletion failed during redemption", "error", err)
	}

	if userErr != nil {
		c.countRedemption(ctx, "not_consumed", "")
		return nil, userErr
	}

	user, err := c.login.LogInWithID(ctx, userID)
	if err != nil || user == nil {
		c.countRedemption(ctx, "login_rejected", "")
		return nil, dErrors.New(dErrors.CodeInternal, "login collaborator rejected redeemed user")
	}

	c.countRedemption(ctx, "redeemed", user.ID)
	return user, nil
}

func (c *Coordinator) countRedemption(ctx context.Context, outcome, userID string) {
	if c.metrics != nil {
		c.metrics.Redemptions.WithLabelValues(outcome).Inc()
	}
	action := audit.ActionRedeemRejected
	if outcome == "redeemed" {
		action = audit.ActionNonceRedeemed
	}
	c.auditor.Emit(ctx, audit.Event{Action: action, Status: outcome, UserID: userID})
}
