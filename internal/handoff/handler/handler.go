// Package handler exposes the four handoff operations over HTTP. It stays
// thin: decode, delegate to the coordinator, map coded errors to statuses.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	dErrors "relay/pkg/domain-errors"
	"relay/pkg/requestcontext"

	"relay/internal/handoff/models"
	"relay/internal/handoff/service"
	"relay/internal/handoff/session"
	"relay/internal/login"
	"relay/internal/platform/middleware"
)

// sessionCookie is the first-party session cookie name.
const sessionCookie = "relay_auth"

// Handler wires HTTP endpoints to the handoff coordinator.
type Handler struct {
	coordinator *service.Coordinator
	login       *login.Service
	cookies     sessions.Store
	mirrorName  string
	mirrorTTL   time.Duration
	logger      *slog.Logger
}

// New constructs the handler. cookies backs the per-browser session mirror.
func New(c *service.Coordinator, l *login.Service, cookies sessions.Store, mirrorName string, mirrorTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		coordinator: c,
		login:       l,
		cookies:     cookies,
		mirrorName:  mirrorName,
		mirrorTTL:   mirrorTTL,
		logger:      logger,
	}
}

// Register mounts the handoff routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/handoff/nonce", h.createNonce)
	r.Get("/handoff/mirror", h.readMirror)
	r.Get("/handoff/redirect/{provider}", h.buildRedirect)
	r.Get("/handoff/callback/{provider}", h.callback)
	r.Post("/handoff/redeem", h.redeem)
	r.Post("/login", h.passwordLogin)
	r.Post("/logout", h.logout)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(sessionCookie, h.login, h.logger))
		r.Get("/me", h.me)
	})
}

func (h *Handler) mirror(w http.ResponseWriter, r *http.Request) session.Mirror {
	return session.NewCookieMirror(h.cookies, h.mirrorName, h.mirrorTTL, w, r)
}

func (h *Handler) createNonce(w http.ResponseWriter, r *http.Request) {
	signed, err := h.coordinator.CreateClientNonce(r.Context(), h.mirror(w, r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"nonce": signed})
}

// readMirror is the same-origin convenience read of the latest issued nonce.
func (h *Handler) readMirror(w http.ResponseWriter, r *http.Request) {
	nonce, ok := h.mirror(w, r).Get(r.Context())
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": string(dErrors.CodeNotFound)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"nonce": nonce})
}

func (h *Handler) buildRedirect(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	requestNonce := r.URL.Query().Get("nonce")

	redirect, err := h.coordinator.BuildRedirect(r.Context(), provider, requestNonce)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.Redirect(w, r, redirect.URL, http.StatusFound)
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	query := r.URL.Query()
	ctx := requestcontext.WithOAuthCode(r.Context(), query.Get("code"))

	result, err := h.coordinator.AuthenticateCallback(ctx, provider, query.Get("state"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	// Stateful success carries the session in a first-party cookie; the
	// stateless one hands the nonce back for the originating context.
	if result.Status.Success() && result.SignedNonce == "" {
		if err := h.setSessionCookie(w, r, result.User); err != nil {
			h.writeError(w, err)
			return
		}
	}

	status := http.StatusOK
	if !result.Status.Success() {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, callbackResponse(result))
}

func (h *Handler) redeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nonce string `json:"nonce"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nonce == "" {
		h.writeError(w, dErrors.New(dErrors.CodeBadRequest, "nonce is required"))
		return
	}

	user, err := h.coordinator.RedeemClientNonce(r.Context(), req.Nonce)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.setSessionCookie(w, r, user); err != nil {
		h.writeError(w, err)
		return
	}
	_ = h.mirror(w, r).Clear(r.Context())
	writeJSON(w, http.StatusOK, userResponse(user))
}

func (h *Handler) passwordLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		h.writeError(w, dErrors.New(dErrors.CodeBadRequest, "email and password are required"))
		return
	}

	ok, err := h.login.Attempt(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": string(dErrors.CodeUnauthorized)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// me returns the user behind the current session.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user := middleware.SessionUser(r.Context())
	if user == nil {
		h.writeError(w, dErrors.New(dErrors.CodeUnauthorized, "no session"))
		return
	}
	writeJSON(w, http.StatusOK, userResponse(user))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if user, verr := h.login.VerifySessionToken(r.Context(), cookie.Value); verr == nil {
			h.login.Logout(r.Context(), user.ID)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, user *models.User) error {
	token, err := h.login.IssueSessionToken(r.Context(), user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func callbackResponse(result models.OAuthLoginResult) map[string]any {
	resp := map[string]any{"status": string(result.Status)}
	if result.SignedNonce != "" {
		resp["nonce"] = result.SignedNonce
	}
	if result.User != nil && result.Status.Success() {
		resp["user"] = userResponse(result.User)
	}
	return resp
}

func userResponse(user *models.User) map[string]string {
	return map[string]string{
		"id":     user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"avatar": user.Avatar,
	}
}

// writeError centralizes coded error translation to HTTP responses. Only the
// code crosses the wire; messages and causes stay in the logs.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
	}
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("handoff request failed", "code", code, "error", err)
	} else {
		h.logger.Info("handoff request rejected", "code", code, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": string(code)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
