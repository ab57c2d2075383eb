package guard

import (
	"context"
	"net/url"
	"strings"

	"campus-dashboard/internal/domain"
	"campus-dashboard/internal/routes"
	"campus-dashboard/internal/session"
)

// Kind classifies a navigation decision.
type Kind int

const (
	// Proceed lets the navigation through.
	Proceed Kind = iota
	// RedirectToLogin sends the visitor to the login route, carrying the
	// originally requested path in the redirect query parameter.
	RedirectToLogin
	// Redirect reroutes the navigation to Decision.Target.
	Redirect
)

// Decision is the outcome of evaluating one navigation attempt.
type Decision struct {
	Kind   Kind
	Target string
}

// Policy captures the configurable parts of the authorization pipeline.
type Policy struct {
	// AllowReregister lets an authenticated user open the register page
	// instead of bouncing back into the app. Login always bounces.
	AllowReregister bool
	// AdminLanding is the route name an admin lands on instead of the
	// generic dashboard.
	AdminLanding string
}

// SessionSource is the slice of the session store the guard reads.
type SessionSource interface {
	Bootstrap(ctx context.Context) error
	Snapshot() session.Snapshot
}

// Guard gates every navigation attempt against the route table and the
// current session.
type Guard struct {
	sessions SessionSource
	table    *routes.Table
	policy   Policy
}

func New(sessions SessionSource, table *routes.Table, policy Policy) *Guard {
	return &Guard{sessions: sessions, table: table, policy: policy}
}

// Check resolves fullPath against the route table and decides whether the
// navigation proceeds. The session bootstrap is awaited first; it is the
// pipeline's only suspension point.
func (g *Guard) Check(ctx context.Context, fullPath string) (Decision, error) {
	if err := g.sessions.Bootstrap(ctx); err != nil {
		return Decision{}, err
	}

	path, query := splitPath(fullPath)
	route := g.table.Match(path)
	return Evaluate(route, fullPath, query, g.sessions.Snapshot(), g.policy, g.table), nil
}

// Evaluate is the pure decision function over (route metadata, session
// snapshot). The ordering is load-bearing: authentication before role,
// role before the admin landing substitution, so an unauthenticated admin
// is sent to login and a mismatched role is denied before any landing
// logic runs.
func Evaluate(route routes.Route, fullPath string, query url.Values, snap session.Snapshot, policy Policy, table *routes.Table) Decision {
	if route.Meta.Public {
		if snap.IsAuthenticated() && !(route.Name == routes.NameRegister && policy.AllowReregister) {
			target := "/"
			if redirect := query.Get("redirect"); redirect != "" {
				target = redirect
			}
			return Decision{Kind: Redirect, Target: target}
		}
		return Decision{Kind: Proceed}
	}

	if !snap.IsAuthenticated() {
		return Decision{Kind: RedirectToLogin, Target: loginTarget(fullPath)}
	}

	if !route.Allows(snap.Role()) {
		return Decision{Kind: Redirect, Target: "/"}
	}

	if route.Name == routes.NameDashboard && snap.Role() == domain.RoleAdmin {
		if landing, ok := table.ByName(policy.AdminLanding); ok && landing.Name != route.Name {
			return Decision{Kind: Redirect, Target: landing.Path}
		}
	}

	return Decision{Kind: Proceed}
}

func loginTarget(fullPath string) string {
	return "/login?redirect=" + url.QueryEscape(fullPath)
}

func splitPath(fullPath string) (string, url.Values) {
	path := fullPath
	query := url.Values{}
	if i := strings.IndexByte(fullPath, '?'); i >= 0 {
		path = fullPath[:i]
		if parsed, err := url.ParseQuery(fullPath[i+1:]); err == nil {
			query = parsed
		}
	}
	return path, query
}
