package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	dErrors "relay/pkg/domain-errors"

	"relay/internal/audit"
	"relay/internal/handoff/models"
	"relay/internal/handoff/service/mocks"
	"relay/internal/handoff/session"
	"relay/internal/handoff/store/nonce"
)

type CoordinatorSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	nonces   *mocks.MockNonceStore
	tokens   *mocks.MockTokenStore
	provider *mocks.MockProviderClient
	login    *mocks.MockUserLogin
	recorder *audit.Recorder

	coordinator *Coordinator
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.nonces = mocks.NewMockNonceStore(s.ctrl)
	s.tokens = mocks.NewMockTokenStore(s.ctrl)
	s.provider = mocks.NewMockProviderClient(s.ctrl)
	s.login = mocks.NewMockUserLogin(s.ctrl)
	s.recorder = audit.NewRecorder()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.coordinator = New(s.nonces, s.tokens, s.provider, s.login, logger,
		WithAuditPublisher(s.recorder))
}

func (s *CoordinatorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CoordinatorSuite) lastEvent() audit.Event {
	events := s.recorder.Events()
	require.NotEmpty(s.T(), events)
	return events[len(events)-1]
}

func (s *CoordinatorSuite) TestCreateClientNonce() {
	ctx := context.Background()

	s.T().Run("happy path mirrors the nonce", func(t *testing.T) {
		s.nonces.EXPECT().Create(gomock.Any()).Return("signed.abc", nil)
		mirror := session.NewInMemory(testMirrorTTL)

		signed, err := s.coordinator.CreateClientNonce(ctx, mirror)
		require.NoError(t, err)
		assert.Equal(t, "signed.abc", signed)

		mirrored, ok := mirror.Get(ctx)
		require.True(t, ok)
		assert.Equal(t, "signed.abc", mirrored)
		assert.Equal(t, audit.ActionNonceIssued, s.lastEvent().Action)
	})

	s.T().Run("mirror failure does not void the nonce", func(t *testing.T) {
		s.nonces.EXPECT().Create(gomock.Any()).Return("signed.abc", nil)

		signed, err := s.coordinator.CreateClientNonce(ctx, failingMirror{})
		require.NoError(t, err)
		assert.Equal(t, "signed.abc", signed)
	})

	s.T().Run("nil mirror is allowed", func(t *testing.T) {
		s.nonces.EXPECT().Create(gomock.Any()).Return("signed.abc", nil)

		_, err := s.coordinator.CreateClientNonce(ctx, nil)
		require.NoError(t, err)
	})

	s.T().Run("store failure propagates", func(t *testing.T) {
		storeErr := dErrors.New(dErrors.CodeInternal, "boom")
		s.nonces.EXPECT().Create(gomock.Any()).Return("", storeErr)

		_, err := s.coordinator.CreateClientNonce(ctx, nil)
		assert.ErrorIs(t, err, storeErr)
	})
}

func (s *CoordinatorSuite) TestBuildRedirect_Stateful() {
	ctx := context.Background()
	s.provider.EXPECT().Redirect(gomock.Any(), "google", "").
		Return(models.RedirectResponse{URL: "https://accounts.example/auth"}, nil)

	redirect, err := s.coordinator.BuildRedirect(ctx, "google", "")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "https://accounts.example/auth", redirect.URL)

	event := s.lastEvent()
	assert.Equal(s.T(), audit.ActionRedirectBuilt, event.Action)
	assert.Equal(s.T(), "stateful", event.Flow)
}

func (s *CoordinatorSuite) TestBuildRedirect_Stateless() {
	ctx := context.Background()

	s.T().Run("happy path consumes the created state", func(t *testing.T) {
		gomock.InOrder(
			s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateCreated).Return("raw-nonce", nil),
			s.nonces.EXPECT().MarkRedirected(gomock.Any(), "raw-nonce").Return(nil),
			s.tokens.EXPECT().Create(gomock.Any(), "raw-nonce").Return("signed.token", nil),
			s.provider.EXPECT().Redirect(gomock.Any(), "github", "signed.token").
				Return(models.RedirectResponse{URL: "https://github.example/auth", State: "signed.token"}, nil),
		)

		redirect, err := s.coordinator.BuildRedirect(ctx, "github", "signed.nonce")
		require.NoError(t, err)
		assert.Equal(t, "signed.token", redirect.State)
		assert.Equal(t, "stateless", s.lastEvent().Flow)
	})

	s.T().Run("unknown nonce stops before any write", func(t *testing.T) {
		resolveErr := dErrors.New(dErrors.CodeInvalidNonce, "nonce unknown or expired")
		s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateCreated).Return("", resolveErr)

		_, err := s.coordinator.BuildRedirect(ctx, "github", "signed.nonce")
		assert.ErrorIs(t, err, resolveErr)
	})

	s.T().Run("second redirect from the same nonce fails", func(t *testing.T) {
		// After the first redirect the slot holds REDIRECTED, so resolving
		// against CREATED rejects.
		s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateCreated).
			Return("", dErrors.New(dErrors.CodeInvalidNonce, "nonce in unexpected state"))

		_, err := s.coordinator.BuildRedirect(ctx, "github", "signed.nonce")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce))
	})

	s.T().Run("token store failure propagates", func(t *testing.T) {
		tokenErr := dErrors.New(dErrors.CodeInternal, "token reservation failed")
		gomock.InOrder(
			s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateCreated).Return("raw-nonce", nil),
			s.nonces.EXPECT().MarkRedirected(gomock.Any(), "raw-nonce").Return(nil),
			s.tokens.EXPECT().Create(gomock.Any(), "raw-nonce").Return("", tokenErr),
		)

		_, err := s.coordinator.BuildRedirect(ctx, "github", "signed.nonce")
		assert.ErrorIs(t, err, tokenErr)
	})
}

func (s *CoordinatorSuite) TestAuthenticateCallback_Stateless() {
	ctx := context.Background()
	user := &models.User{ID: "user-42", Email: "a@example.com"}
	profile := models.ProviderProfile{ID: "prov-1", Email: "a@example.com"}

	s.T().Run("success writes the user into the nonce slot", func(t *testing.T) {
		gomock.InOrder(
			s.tokens.EXPECT().NonceOf(gomock.Any(), "signed.token").Return("raw-nonce", true, nil),
			s.provider.EXPECT().FetchProfile(gomock.Any(), "google", true).Return(profile, nil),
			s.login.EXPECT().HandleOAuthLogin(gomock.Any(), "google", profile).Return(user, models.LoginOk, nil),
			s.tokens.EXPECT().Forget(gomock.Any(), "signed.token").Return(true, nil),
			s.nonces.EXPECT().AssignUser(gomock.Any(), "raw-nonce", "user-42").Return(nil),
			s.nonces.EXPECT().SignedOf("raw-nonce").Return("signed.nonce"),
		)

		result, err := s.coordinator.AuthenticateCallback(ctx, "google", "signed.token")
		require.NoError(t, err)
		assert.Equal(t, models.LoginOk, result.Status)
		assert.Equal(t, "signed.nonce", result.SignedNonce)
		assert.Equal(t, user, result.User)

		event := s.lastEvent()
		assert.Equal(t, audit.ActionCallbackDone, event.Action)
		assert.Equal(t, "stateless", event.Flow)
		assert.Equal(t, "user-42", event.UserID)
	})

	s.T().Run("non-success still returns the nonce as a courtesy", func(t *testing.T) {
		gomock.InOrder(
			s.tokens.EXPECT().NonceOf(gomock.Any(), "signed.token").Return("raw-nonce", true, nil),
			s.provider.EXPECT().FetchProfile(gomock.Any(), "google", true).Return(profile, nil),
			s.login.EXPECT().HandleOAuthLogin(gomock.Any(), "google", profile).
				Return(nil, models.EmailTaken, nil),
			s.nonces.EXPECT().SignedOf("raw-nonce").Return("signed.nonce"),
		)

		result, err := s.coordinator.AuthenticateCallback(ctx, "google", "signed.token")
		require.NoError(t, err)
		assert.Equal(t, models.EmailTaken, result.Status)
		assert.Equal(t, "signed.nonce", result.SignedNonce)
		assert.Nil(t, result.User)
	})

	s.T().Run("success status without a user is an internal error", func(t *testing.T) {
		gomock.InOrder(
			s.tokens.EXPECT().NonceOf(gomock.Any(), "signed.token").Return("raw-nonce", true, nil),
			s.provider.EXPECT().FetchProfile(gomock.Any(), "google", true).Return(profile, nil),
			s.login.EXPECT().HandleOAuthLogin(gomock.Any(), "google", profile).
				Return(nil, models.LoginOk, nil),
		)

		_, err := s.coordinator.AuthenticateCallback(ctx, "google", "signed.token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.T().Run("profile fetch failure", func(t *testing.T) {
		gomock.InOrder(
			s.tokens.EXPECT().NonceOf(gomock.Any(), "signed.token").Return("raw-nonce", true, nil),
			s.provider.EXPECT().FetchProfile(gomock.Any(), "google", true).
				Return(models.ProviderProfile{}, errors.New("exchange rejected")),
		)

		_, err := s.coordinator.AuthenticateCallback(ctx, "google", "signed.token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *CoordinatorSuite) TestAuthenticateCallback_Stateful() {
	ctx := context.Background()
	user := &models.User{ID: "user-42", Email: "a@example.com"}
	profile := models.ProviderProfile{ID: "prov-1", Email: "a@example.com"}

	s.T().Run("success logs the user in directly", func(t *testing.T) {
		gomock.InOrder(
			s.tokens.EXPECT().NonceOf(gomock.Any(), "").Return("", false, nil),
			s.provider.EXPECT().FetchProfile(gomock.Any(), "google", false).Return(profile, nil),
			s.login.EXPECT().HandleOAuthLogin(gomock.Any(), "google", profile).Return(user, models.UserCreated, nil),
			s.login.EXPECT().LogInWithID(gomock.Any(), "user-42").Return(user, nil),
		)

		result, err := s.coordinator.AuthenticateCallback(ctx, "google", "")
		require.NoError(t, err)
		assert.Equal(t, models.UserCreated, result.Status)
		assert.Empty(t, result.SignedNonce)
		assert.Equal(t, "stateful", s.lastEvent().Flow)
	})

	s.T().Run("non-success has no nonce to return", func(t *testing.T) {
		gomock.InOrder(
			s.tokens.EXPECT().NonceOf(gomock.Any(), "").Return("", false, nil),
			s.provider.EXPECT().FetchProfile(gomock.Any(), "google", false).Return(profile, nil),
			s.login.EXPECT().HandleOAuthLogin(gomock.Any(), "google", profile).
				Return(nil, models.EmailNotVerified, nil),
		)

		result, err := s.coordinator.AuthenticateCallback(ctx, "google", "")
		require.NoError(t, err)
		assert.Equal(t, models.EmailNotVerified, result.Status)
		assert.Empty(t, result.SignedNonce)
	})
}

func (s *CoordinatorSuite) TestRedeemClientNonce() {
	ctx := context.Background()
	user := &models.User{ID: "user-42"}

	s.T().Run("happy path deletes the slot and grants the session", func(t *testing.T) {
		gomock.InOrder(
			s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateAny).Return("raw-nonce", nil),
			s.nonces.EXPECT().UserIDOf(gomock.Any(), "raw-nonce").Return("user-42", nil),
			s.nonces.EXPECT().Forget(gomock.Any(), "raw-nonce").Return(nil),
			s.login.EXPECT().LogInWithID(gomock.Any(), "user-42").Return(user, nil),
		)

		got, err := s.coordinator.RedeemClientNonce(ctx, "signed.nonce")
		require.NoError(t, err)
		assert.Equal(t, user, got)
		assert.Equal(t, audit.ActionNonceRedeemed, s.lastEvent().Action)
	})

	s.T().Run("unknown nonce", func(t *testing.T) {
		s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateAny).
			Return("", dErrors.New(dErrors.CodeInvalidNonce, "nonce unknown or expired"))

		_, err := s.coordinator.RedeemClientNonce(ctx, "signed.nonce")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce))
		assert.Equal(t, audit.ActionRedeemRejected, s.lastEvent().Action)
	})

	s.T().Run("unconsumed nonce is deleted before failing", func(t *testing.T) {
		notConsumed := dErrors.New(dErrors.CodeInternal, "nonce not yet consumed by a login")
		gomock.InOrder(
			s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateAny).Return("raw-nonce", nil),
			s.nonces.EXPECT().UserIDOf(gomock.Any(), "raw-nonce").Return("", notConsumed),
			s.nonces.EXPECT().Forget(gomock.Any(), "raw-nonce").Return(nil),
		)

		_, err := s.coordinator.RedeemClientNonce(ctx, "signed.nonce")
		assert.ErrorIs(t, err, notConsumed)
	})

	s.T().Run("login collaborator rejection", func(t *testing.T) {
		gomock.InOrder(
			s.nonces.EXPECT().Resolve(gomock.Any(), "signed.nonce", nonce.StateAny).Return("raw-nonce", nil),
			s.nonces.EXPECT().UserIDOf(gomock.Any(), "raw-nonce").Return("user-42", nil),
			s.nonces.EXPECT().Forget(gomock.Any(), "raw-nonce").Return(nil),
			s.login.EXPECT().LogInWithID(gomock.Any(), "user-42").Return(nil, errors.New("no such user")),
		)

		_, err := s.coordinator.RedeemClientNonce(ctx, "signed.nonce")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

const testMirrorTTL = 5 * time.Minute

// failingMirror always fails its writes.
type failingMirror struct{}

func (failingMirror) Set(context.Context, string) error  { return errors.New("cookie jar sealed") }
func (failingMirror) Get(context.Context) (string, bool) { return "", false }
func (failingMirror) IsValid(context.Context) bool       { return false }
func (failingMirror) Clear(context.Context) error        { return nil }
