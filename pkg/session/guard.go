package session

// Decision is the route guard's verdict for a navigation attempt.
type Decision int

const (
	ShowLoading Decision = iota
	RedirectToLogin
	RedirectToUnauthorized
	Render
)

func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "loading"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToUnauthorized:
		return "redirect_to_unauthorized"
	case Render:
		return "render"
	}
	return "unknown"
}

// Outcome pairs a decision with the originally requested path, preserved
// for post-login redirect.
type Outcome struct {
	Decision Decision
	Next     string
}

// Decide derives the route guard's verdict from the manager's status and
// the route's role requirement. It holds no state of its own.
func Decide(status Status, sess *Session, requiredRole, requestedPath string) Outcome {
	switch status {
	case StatusLoading:
		return Outcome{Decision: ShowLoading}
	case StatusUnauthenticated:
		return Outcome{Decision: RedirectToLogin, Next: requestedPath}
	}

	if requiredRole != "" && (sess == nil || sess.User.Role != requiredRole) {
		return Outcome{Decision: RedirectToUnauthorized}
	}
	return Outcome{Decision: Render}
}
