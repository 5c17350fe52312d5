// Package gateway gates the route table at the edge, before any page logic
// runs. It trusts only cookies: the tokens plus a user_data blob written at
// login. This is a coarser check layered in front of the in-app route guard.
package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
)

var protectedRoutes = []string{
	"/profile",
	"/orders",
	"/wishlist",
	"/checkout",
	"/admin",
}

var adminRoutes = []string{
	"/admin",
}

// Public-only auth pages bounce already-authenticated users home.
var publicRoutes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/reset-password",
}

var protectedAPIRoutes = []string{
	"/api/auth/me",
	"/api/orders",
	"/api/profile",
	"/api/cart",
	"/api/wishlist",
	"/api/admin",
	"/api/payments",
	"/api/checkout",
}

type userData struct {
	IsStaff     bool `json:"isStaff"`
	IsSuperuser bool `json:"isSuperuser"`
}

type Gateway struct {
	verifier      *TokenVerifier
	metrics       *Collector
	allowedOrigin string
}

// New builds the gateway. verifier may be nil, in which case any non-empty
// access token counts as authenticated; metrics may be nil.
func New(verifier *TokenVerifier, metrics *Collector, allowedOrigin string) *Gateway {
	return &Gateway{verifier: verifier, metrics: metrics, allowedOrigin: allowedOrigin}
}

func matchesAny(path string, routes []string) bool {
	for _, route := range routes {
		if strings.HasPrefix(path, route) {
			return true
		}
	}
	return false
}

func (g *Gateway) identify(r *http.Request) (authenticated bool, admin bool) {
	cookie, err := r.Cookie("access_token")
	if err != nil || cookie.Value == "" {
		return false, false
	}

	if g.verifier != nil {
		if _, err := g.verifier.Validate(cookie.Value); err != nil {
			// Expired or forged token: treat as unauthenticated.
			return false, false
		}
	}

	if dataCookie, err := r.Cookie("user_data"); err == nil {
		raw, err := url.QueryUnescape(dataCookie.Value)
		if err != nil {
			raw = dataCookie.Value
		}
		var user userData
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			log.Printf("error parsing user data cookie: %v", err)
		} else {
			admin = user.IsStaff || user.IsSuperuser
		}
	}
	return true, admin
}

func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}

func (g *Gateway) redirectLogin(w http.ResponseWriter, r *http.Request) {
	target := "/auth/login?returnUrl=" + url.QueryEscape(r.URL.Path)
	if g.metrics != nil {
		g.metrics.RecordRedirect("login")
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (g *Gateway) redirectHome(w http.ResponseWriter, r *http.Request) {
	if g.metrics != nil {
		g.metrics.RecordRedirect("home")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (g *Gateway) allow(next http.Handler, w http.ResponseWriter, r *http.Request) {
	if g.metrics != nil {
		g.metrics.RecordAllowed()
	}
	next.ServeHTTP(w, r)
}

// Middleware gates page and API routes from cookies alone.
func (g *Gateway) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			authenticated, admin := g.identify(r)

			if strings.HasPrefix(path, "/api/") {
				g.handleAPI(next, w, r, authenticated, admin)
				return
			}

			if matchesAny(path, publicRoutes) {
				if authenticated {
					g.redirectHome(w, r)
					return
				}
				g.allow(next, w, r)
				return
			}

			if matchesAny(path, adminRoutes) {
				if !authenticated {
					g.redirectLogin(w, r)
					return
				}
				if !admin {
					g.redirectHome(w, r)
					return
				}
				g.allow(next, w, r)
				return
			}

			if matchesAny(path, protectedRoutes) && !authenticated {
				g.redirectLogin(w, r)
				return
			}

			g.allow(next, w, r)
		})
	}
}

func (g *Gateway) setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", g.allowedOrigin)
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token, X-Requested-With, Accept")
	h.Set("Access-Control-Allow-Credentials", "true")
}

func (g *Gateway) handleAPI(next http.Handler, w http.ResponseWriter, r *http.Request, authenticated, admin bool) {
	g.setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := r.URL.Path
	if matchesAny(path, protectedAPIRoutes) {
		if !authenticated {
			if g.metrics != nil {
				g.metrics.RecordDenied("unauthenticated")
			}
			writeJSONError(w, http.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED")
			return
		}
		if strings.HasPrefix(path, "/api/admin") && !admin {
			if g.metrics != nil {
				g.metrics.RecordDenied("forbidden")
			}
			writeJSONError(w, http.StatusForbidden, "Admin privileges required", "FORBIDDEN")
			return
		}
	}

	g.allow(next, w, r)
}
