package user

import "context"

// RegisteredHook runs inside the registration transaction. An error rolls it back.
type RegisteredHook interface {
	OnRegistered(ctx context.Context, u *User) error
}

type LoggedInHook interface {
	OnLoggedIn(ctx context.Context, u *User, plainToken string) error
}

type ShownHook interface {
	OnShown(ctx context.Context, u *User) error
}

type LoggedOutHook interface {
	OnLoggedOut(ctx context.Context, userID int64) error
}

// Hooks holds the optional lifecycle callbacks. Nil entries are skipped.
// Errors from LoggedIn, Shown and LoggedOut are logged and never change the outcome.
type Hooks struct {
	Registered RegisteredHook
	LoggedIn   LoggedInHook
	Shown      ShownHook
	LoggedOut  LoggedOutHook
}

// HooksFrom fills every hook that v implements.
func HooksFrom(v interface{}) Hooks {
	var h Hooks
	if r, ok := v.(RegisteredHook); ok {
		h.Registered = r
	}
	if l, ok := v.(LoggedInHook); ok {
		h.LoggedIn = l
	}
	if s, ok := v.(ShownHook); ok {
		h.Shown = s
	}
	if o, ok := v.(LoggedOutHook); ok {
		h.LoggedOut = o
	}
	return h
}
