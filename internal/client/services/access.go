package services

import "context"

// Access is where the presentation layer should send the user.
type Access int

const (
	AccessGranted Access = iota
	// AccessRegister: nobody has registered yet.
	AccessRegister
	// AccessLogin: users exist but nobody is logged in.
	AccessLogin
)

func (a Access) String() string {
	switch a {
	case AccessGranted:
		return "granted"
	case AccessRegister:
		return "register"
	case AccessLogin:
		return "login"
	}
	return "unknown"
}

// ResolveAccess is the guard for commands that need a logged-in user.
func ResolveAccess(ctx context.Context, auth AuthService) Access {
	if auth.IsAuthenticated() {
		return AccessGranted
	}
	if !auth.HasUsers(ctx) {
		return AccessRegister
	}
	return AccessLogin
}
