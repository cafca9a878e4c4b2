// Package login implements the user-login collaborator: find-or-create from
// provider profiles, first-party session issuance, password attempts, and
// logout. The handoff coordinator consumes only HandleOAuthLogin and
// LogInWithID; the HTTP layer uses the rest.
package login

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	dErrors "relay/pkg/domain-errors"
	"relay/pkg/email"
	"relay/pkg/platform/sentinel"
	"relay/pkg/requestcontext"

	"relay/internal/handoff/models"
	"relay/internal/login/store/user"
)

// Service owns account resolution and first-party sessions.
type Service struct {
	users      user.Store
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     *slog.Logger
}

// New constructs the login service.
func New(users user.Store, jwtSecret string, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// HandleOAuthLogin resolves a provider profile to a first-party user,
// creating the account on first contact. The status taxonomy is owned here;
// the coordinator only branches on success. Infrastructure failures degrade
// to the InternalError status so callback handling can still inform the
// originating context.
func (s *Service) HandleOAuthLogin(ctx context.Context, provider string, profile models.ProviderProfile) (*models.User, models.LoginStatus, error) {
	existing, err := s.users.FindByProvider(ctx, provider, profile.ID)
	switch {
	case err == nil:
		return toModel(existing), models.LoginOk, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		s.logger.Error("provider identity lookup failed", "provider", provider, "error", err)
		return nil, models.InternalError, nil
	}

	if profile.Email == "" {
		return nil, models.EmailNotVerified, nil
	}

	if _, err := s.users.FindByEmail(ctx, profile.Email); err == nil {
		// The address belongs to an account with a different identity;
		// linking policy is out of scope, so refuse.
		return nil, models.EmailTaken, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.Error("email lookup failed", "provider", provider, "error", err)
		return nil, models.InternalError, nil
	}

	name := profile.Name
	if name == "" {
		name = email.DeriveDisplayName(profile.Email)
	}

	record := &user.Record{
		ID:             uuid.NewString(),
		Email:          profile.Email,
		Name:           name,
		Avatar:         profile.Avatar,
		Provider:       provider,
		ProviderUserID: profile.ID,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, models.EmailTaken, nil
		}
		s.logger.Error("user creation failed", "provider", provider, "error", err)
		return nil, models.InternalError, nil
	}
	s.logger.Info("user created from provider profile", "provider", provider, "user_id", record.ID)
	return toModel(record), models.UserCreated, nil
}

// LogInWithID establishes a first-party session for a known user id. An
// unknown id is an error: callers only pass ids this system issued.
func (s *Service) LogInWithID(ctx context.Context, userID string) (*models.User, error) {
	record, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "session user lookup failed")
	}
	s.logger.Info("first-party session established",
		"user_id", record.ID, "device", deviceName(ctx))
	return toModel(record), nil
}

// IssueSessionToken mints the signed session token the HTTP layer sets as
// the first-party session cookie.
func (s *Service) IssueSessionToken(ctx context.Context, u *models.User) (string, error) {
	now := requestcontext.Now(ctx)
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "session token signing failed")
	}
	return token, nil
}

// VerifySessionToken parses and validates a session token, returning the
// user it names.
func (s *Service) VerifySessionToken(ctx context.Context, token string) (*models.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	record, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session user no longer exists")
	}
	return toModel(record), nil
}

// Attempt verifies an email/password pair.
func (s *Service) Attempt(ctx context.Context, email, password string) (bool, error) {
	record, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "credential lookup failed")
	}
	if record.PasswordHash == "" {
		return false, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)) != nil {
		return false, nil
	}
	return true, nil
}

// Logout records the end of a first-party session. The cookie itself is
// cleared at the HTTP layer.
func (s *Service) Logout(ctx context.Context, userID string) {
	s.logger.Info("session ended", "user_id", userID, "device", deviceName(ctx))
}

// deviceName renders a short human-readable device label from the request's
// User-Agent for session logs.
func deviceName(ctx context.Context) string {
	raw := requestcontext.UserAgent(ctx)
	if raw == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	if browser == "" {
		return "unknown"
	}
	if ua.OS() != "" {
		return browser + " on " + ua.OS()
	}
	return browser
}

func toModel(r *user.Record) *models.User {
	return &models.User{
		ID:     r.ID,
		Email:  r.Email,
		Name:   r.Name,
		Avatar: r.Avatar,
	}
}
