// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

var tracer = otel.Tracer("gatehouse/web")

// Handlers owns the application routes. Each handler is a pure
// request-to-Outcome function; respond translates outcomes to HTTP.
type Handlers struct {
	auth     *auth.Service
	gate     *Gate
	renderer Renderer
	metrics  *observability.Metrics
	logger   *slog.Logger
	ttl      time.Duration
}

// NewHandlers creates the handler set. metrics may be nil when the
// observability server is disabled. A non-positive ttl falls back to the
// session manager default so cookie and session expire together.
func NewHandlers(svc *auth.Service, gate *Gate, renderer Renderer, metrics *observability.Metrics, logger *slog.Logger, ttl time.Duration) (*Handlers, error) {
	if svc == nil {
		return nil, oops.Code("HANDLERS_INVALID").Errorf("auth service is required")
	}
	if gate == nil {
		return nil, oops.Code("HANDLERS_INVALID").Errorf("gate is required")
	}
	if renderer == nil {
		return nil, oops.Code("HANDLERS_INVALID").Errorf("renderer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}
	return &Handlers{
		auth:     svc,
		gate:     gate,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
		ttl:      ttl,
	}, nil
}

// Router builds the application mux. The "/" fallback catches everything the
// explicit patterns don't and serves the 404 page.
func (h *Handlers) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.wrap("/", h.handleLanding))
	mux.HandleFunc("GET /signup", h.wrap("/signup", h.handleSignupForm))
	mux.HandleFunc("POST /signup", h.wrap("/signup", h.handleSignup))
	mux.HandleFunc("GET /login", h.wrap("/login", h.handleLoginForm))
	mux.HandleFunc("POST /login", h.wrap("/login", h.handleLogin))
	mux.HandleFunc("GET /members", h.wrap("/members", h.handleMembers))
	mux.HandleFunc("GET /admin", h.wrap("/admin", h.handleAdmin))
	mux.HandleFunc("POST /admin/toggle/{id}", h.wrap("/admin/toggle", h.handleToggleRole))
	mux.HandleFunc("GET /logout", h.wrap("/logout", h.handleLogout))
	mux.HandleFunc("/", h.wrap("404", h.handleNotFound))
	return mux
}

// landingData feeds the landing view. User is nil for visitors.
type landingData struct {
	User *auth.UserSnapshot
}

// formData feeds the signup and login views. Name and Email echo the
// submitted values back so a rejected form doesn't lose them; the password
// never round-trips.
type formData struct {
	Error string
	Name  string
	Email string
}

type membersData struct {
	User auth.UserSnapshot
}

type adminData struct {
	Caller auth.UserSnapshot
	Users  []*auth.User
}

func (h *Handlers) handleLanding(r *http.Request) Outcome {
	user, err := h.gate.Optional(r)
	if err != nil {
		return Fail(err)
	}
	return Rendered(ViewLanding, landingData{User: user})
}

func (h *Handlers) handleSignupForm(*http.Request) Outcome {
	return Rendered(ViewSignup, formData{})
}

func (h *Handlers) handleSignup(r *http.Request) Outcome {
	in := auth.SignupInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	user, token, err := h.auth.Signup(r.Context(), in)
	if err != nil {
		if msg, ok := formMessage(err); ok {
			h.recordAuthAttempt("signup", "rejected")
			return Rendered(ViewSignup, formData{Error: msg, Name: in.Name, Email: in.Email})
		}
		h.recordAuthAttempt("signup", "error")
		return Fail(err)
	}

	h.recordAuthAttempt("signup", "ok")
	h.logger.Info("user signed up", "user_id", user.ID.String())
	return Redirect("/members").WithSession(token)
}

func (h *Handlers) handleLoginForm(*http.Request) Outcome {
	return Rendered(ViewLogin, formData{})
}

func (h *Handlers) handleLogin(r *http.Request) Outcome {
	in := auth.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	user, token, err := h.auth.Login(r.Context(), in)
	if err != nil {
		if msg, ok := formMessage(err); ok {
			h.recordAuthAttempt("login", "rejected")
			return Rendered(ViewLogin, formData{Error: msg, Email: in.Email})
		}
		h.recordAuthAttempt("login", "error")
		return Fail(err)
	}

	h.recordAuthAttempt("login", "ok")
	h.logger.Info("user logged in", "user_id", user.ID.String())
	return Redirect("/members").WithSession(token)
}

func (h *Handlers) handleMembers(r *http.Request) Outcome {
	user, out := h.gate.Require(r, "/")
	if user == nil {
		return out
	}
	return Rendered(ViewMembers, membersData{User: *user})
}

func (h *Handlers) handleAdmin(r *http.Request) Outcome {
	user, out := h.gate.RequireAdmin(r)
	if user == nil {
		return out
	}

	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		return Fail(err)
	}
	return Rendered(ViewAdmin, adminData{Caller: *user, Users: users})
}

func (h *Handlers) handleToggleRole(r *http.Request) Outcome {
	caller, out := h.gate.RequireAdmin(r)
	if caller == nil {
		return out
	}

	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		// A malformed id can't name any user.
		return RenderedStatus(http.StatusNotFound, ViewNotFound, nil)
	}

	updated, err := h.auth.ToggleRole(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return RenderedStatus(http.StatusNotFound, ViewNotFound, nil)
		}
		return Fail(err)
	}

	if h.metrics != nil {
		h.metrics.RoleTogglesTotal.Inc()
	}
	h.logger.Info("role toggled",
		"actor_id", caller.ID.String(),
		"user_id", updated.ID.String(),
		"role", string(updated.Role))
	return Redirect("/admin")
}

func (h *Handlers) handleLogout(r *http.Request) Outcome {
	if err := h.auth.Logout(r.Context(), sessionToken(r)); err != nil {
		return Fail(err)
	}
	return Redirect("/").WithClearedSession()
}

func (h *Handlers) handleNotFound(*http.Request) Outcome {
	return RenderedStatus(http.StatusNotFound, ViewNotFound, nil)
}

// formMessage maps expected auth failures to the message re-rendered on the
// submitted form. Anything else is an internal error and returns false.
func formMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return auth.ErrDuplicateEmail.Error(), true
	case errors.Is(err, auth.ErrInvalidCredentials):
		return auth.ErrInvalidCredentials.Error(), true
	}
	if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == "AUTH_INVALID_INPUT" {
		return oopsErr.Error(), true
	}
	return "", false
}

// wrap adapts an Outcome handler to http.HandlerFunc and traces the request.
func (h *Handlers) wrap(route string, fn func(*http.Request) Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "web.request",
			trace.WithAttributes(
				attribute.String("http.route", route),
				attribute.String("http.method", r.Method),
			),
		)
		defer span.End()

		out := fn(r.WithContext(ctx))
		if out.Err != nil {
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
		}
		h.respond(w, r, route, out)
	}
}

// respond translates an Outcome into an HTTP response: cookie side effects
// first, then exactly one of redirect, error page, or rendered view. Views
// render to a buffer so a template failure can still produce a clean 500.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, route string, out Outcome) {
	if out.ClearSession {
		clearSessionCookie(w)
	} else if out.SessionToken != "" {
		setSessionCookie(w, out.SessionToken, h.ttl)
	}

	if out.Err != nil {
		errutil.LogError(h.logger, "request failed", out.Err)
		out = RenderedStatus(http.StatusInternalServerError, ViewError, nil)
	}

	if out.RedirectPath != "" {
		h.recordRequest(route, http.StatusSeeOther)
		http.Redirect(w, r, out.RedirectPath, http.StatusSeeOther)
		return
	}

	status := out.Status
	if status == 0 {
		status = http.StatusOK
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, out.View, out.Data); err != nil {
		observability.RecordRenderFailure(out.View)
		errutil.LogError(h.logger, "render failed", err)
		h.recordRequest(route, http.StatusInternalServerError)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.recordRequest(route, status)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // Body write error means the client went away
	w.Write(buf.Bytes())
}

func (h *Handlers) recordRequest(route string, status int) {
	if h.metrics == nil {
		return
	}
	h.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (h *Handlers) recordAuthAttempt(op, status string) {
	if h.metrics == nil {
		return
	}
	h.metrics.AuthAttemptsTotal.WithLabelValues(op, status).Inc()
}
