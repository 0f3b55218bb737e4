package route

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLoginPath reports a login path that cannot be routed or would loop.
	ErrInvalidLoginPath = errors.New("route: invalid login path")
	// ErrInvalidLandingPath reports a landing path that cannot be routed or would loop.
	ErrInvalidLandingPath = errors.New("route: invalid landing path")
)

// Class is the access classification of a request path.
type Class string

const (
	// ClassPublic is reachable with or without a session.
	ClassPublic Class = "PUBLIC"
	// ClassAuthOnly is reachable only without a session (login, forgot password).
	ClassAuthOnly Class = "AUTH_ONLY"
	// ClassProtected requires a session. It is the default.
	ClassProtected Class = "PROTECTED"
)

// Action is what the gate does with a request.
type Action string

const (
	ActionProceed  Action = "PROCEED"
	ActionRedirect Action = "REDIRECT"
)

// Decision is the outcome of evaluating a request against the table.
type Decision struct {
	Action   Action
	Location string
}

// Table holds the route sets the gate evaluates. Patterns are exact paths;
// a trailing "*" turns a pattern into a prefix match.
type Table struct {
	Public      []string
	AuthOnly    []string
	Excluded    []string
	LoginPath   string
	LandingPath string
}

// Classify returns the class of path. Public wins over AuthOnly when a path
// is listed in both.
func (t Table) Classify(path string) Class {
	path = normalize(path)
	switch {
	case matchAny(t.Public, path):
		return ClassPublic
	case matchAny(t.AuthOnly, path):
		return ClassAuthOnly
	default:
		return ClassProtected
	}
}

// IsExcluded reports whether path bypasses the gate entirely.
func (t Table) IsExcluded(path string) bool {
	return matchAny(t.Excluded, normalize(path))
}

// Decide maps a route class and session presence to a decision.
func (t Table) Decide(class Class, authenticated bool) Decision {
	switch {
	case class == ClassAuthOnly && authenticated:
		return Decision{Action: ActionRedirect, Location: t.LandingPath}
	case class == ClassProtected && !authenticated:
		return Decision{Action: ActionRedirect, Location: t.LoginPath}
	default:
		return Decision{Action: ActionProceed}
	}
}

// Validate checks that both redirect targets are absolute paths and cannot loop.
func (t Table) Validate() error {
	if !strings.HasPrefix(t.LoginPath, "/") {
		return fmt.Errorf("%w: %q must start with /", ErrInvalidLoginPath, t.LoginPath)
	}
	if !strings.HasPrefix(t.LandingPath, "/") {
		return fmt.Errorf("%w: %q must start with /", ErrInvalidLandingPath, t.LandingPath)
	}
	if t.Classify(t.LoginPath) == ClassProtected {
		return fmt.Errorf("%w: %s must be public or auth-only", ErrInvalidLoginPath, t.LoginPath)
	}
	if t.Classify(t.LandingPath) == ClassAuthOnly {
		return fmt.Errorf("%w: %s must not be auth-only", ErrInvalidLandingPath, t.LandingPath)
	}
	return nil
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if match(p, path) {
			return true
		}
	}
	return false
}

func match(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix) || path == normalize(prefix)
	}
	return normalize(pattern) == path
}
