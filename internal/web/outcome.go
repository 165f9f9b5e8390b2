// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import "net/http"

// Outcome is the tagged result of a request: exactly one of a rendered
// view, a redirect target, or an error. Session cookie changes ride along
// so handlers never touch the ResponseWriter.
type Outcome struct {
	// View and Data describe a page render. Status defaults to 200.
	View   string
	Data   any
	Status int

	// RedirectPath, when set, wins over View.
	RedirectPath string

	// Err marks the request as failed; respond maps it to a status and an
	// error page. Set exclusively of View and RedirectPath.
	Err error

	// SessionToken, when non-empty, is written to the session cookie
	// before the response. ClearSession drops the cookie instead.
	SessionToken string
	ClearSession bool
}

// Rendered builds a render outcome with status 200.
func Rendered(view string, data any) Outcome {
	return Outcome{View: view, Data: data, Status: http.StatusOK}
}

// RenderedStatus builds a render outcome with an explicit status, used for
// the 403/404 pages.
func RenderedStatus(status int, view string, data any) Outcome {
	return Outcome{View: view, Data: data, Status: status}
}

// Redirect builds a redirect outcome. Responses use 303 See Other so a
// redirected POST is re-requested as GET.
func Redirect(path string) Outcome {
	return Outcome{RedirectPath: path}
}

// Fail builds a failure outcome.
func Fail(err error) Outcome {
	return Outcome{Err: err}
}

// WithSession attaches a session token to set on the response cookie.
func (o Outcome) WithSession(token string) Outcome {
	o.SessionToken = token
	return o
}

// WithClearedSession marks the session cookie for removal.
func (o Outcome) WithClearedSession() Outcome {
	o.ClearSession = true
	return o
}
