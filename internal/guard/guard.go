// Package guard decides whether protected content may render for the
// current session.
package guard

import (
	"net/url"

	"github.com/dukahub/storefront/internal/session"
)

type Requirements struct {
	RequireAuth  bool
	RequireAdmin bool
}

type Action int

const (
	// Wait means the session is still loading and no decision can be made.
	Wait Action = iota
	Allow
	Redirect
)

type Decision struct {
	Action Action
	// Target is the redirect destination when Action is Redirect.
	Target string
}

const (
	loginRoute = "/auth/login"
	homeRoute  = "/"
)

// Evaluate is a pure decision over a session snapshot; the host re-runs it
// whenever the session, the requirements, or the path change.
func Evaluate(state session.State, req Requirements, path string) Decision {
	if state.IsLoading {
		return Decision{Action: Wait}
	}

	needsAuth := req.RequireAuth || req.RequireAdmin
	if needsAuth && !state.IsAuthenticated {
		return Decision{
			Action: Redirect,
			Target: loginRoute + "?returnUrl=" + url.QueryEscape(path),
		}
	}

	if req.RequireAdmin && (state.User == nil || !state.User.IsStaff) {
		return Decision{Action: Redirect, Target: homeRoute}
	}

	return Decision{Action: Allow}
}

// Guard binds the decision to a live session store.
type Guard struct {
	sessions session.Service
}

func New(sessions session.Service) *Guard {
	return &Guard{sessions: sessions}
}

func (g *Guard) Evaluate(req Requirements, path string) Decision {
	return Evaluate(g.sessions.State(), req, path)
}

// Watch re-evaluates on every session change and reports each decision.
// The returned cancel detaches the watcher.
func (g *Guard) Watch(req Requirements, path func() string, fn func(Decision)) (cancel func()) {
	fn(g.Evaluate(req, path()))
	return g.sessions.Subscribe(func(state session.State) {
		fn(Evaluate(state, req, path()))
	})
}
