package session

import "github.com/dukahub/storefront/internal/api"

// State is a read-only snapshot of the auth session. IsAuthenticated implies
// User is non-nil.
type State struct {
	User            *api.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

type actionType int

const (
	authStart actionType = iota
	authSuccess
	authFailure
	authLogout
	clearError
)

type action struct {
	typ  actionType
	user *api.User
	msg  string
}

// reduce applies a transition to the session state. It is the only place
// state fields change.
func reduce(state State, a action) State {
	switch a.typ {
	case authStart:
		state.IsLoading = true
		state.Error = ""
		return state
	case authSuccess:
		return State{User: a.user, IsAuthenticated: true, IsLoading: false}
	case authFailure:
		return State{Error: a.msg}
	case authLogout:
		return State{}
	case clearError:
		state.Error = ""
		return state
	default:
		return state
	}
}
