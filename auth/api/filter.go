package api

import (
	"net/http"

	"github.com/andrebq/doorman/auth"
	"github.com/andrebq/doorman/internal/logutil"
)

type (
	// Guard decides, per request, whether the wrapped handler may run.
	// Open paths pass through untouched; everything else must resolve to
	// a user via the configured strategy. Requests that carry no
	// credential evidence at all get a 401, requests whose evidence does
	// not resolve to a user get a 403 with no hint of which step failed.
	Guard struct {
		strategy  auth.Strategy
		openPaths []string
	}
)

func NewGuard(strategy auth.Strategy, openPaths []string) *Guard {
	return &Guard{
		strategy:  strategy,
		openPaths: openPaths,
	}
}

func (g *Guard) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.strategy.RequireAuth(r.URL.Path, g.openPaths) {
			sensitive.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		if !g.hasEvidence(r) {
			writeJSON(w, http.StatusUnauthorized, envelope{Message: "Unauthorized"})
			return
		}
		u, ok := g.strategy.CurrentUser(ctx, r)
		if !ok {
			log := logutil.GetOrDefault(ctx)
			log.Debug().Str("path", r.URL.Path).Msg("credentials did not resolve to a user")
			writeJSON(w, http.StatusForbidden, envelope{Message: "Forbidden"})
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithUser(ctx, u)))
	})
}

// hasEvidence reports whether the request attempted authentication at
// all, either via the Authorization header or the session cookie. The
// distinction only selects between 401 and 403, never leaks further
// detail.
func (g *Guard) hasEvidence(r *http.Request) bool {
	if g.strategy.AuthorizationHeader(r) != "" {
		return true
	}
	_, err := r.Cookie(auth.SessionCookie)
	return err == nil
}
