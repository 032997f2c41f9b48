// Package utils holds small helpers shared across the application: context
// keys, password hashing, JWT issuing and validation, and JSON response
// writing.
package utils

import "context"

// contextKey keeps our context values from colliding with other packages'
// string keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is where the auth middleware stores the authenticated user's
// ID. Read it back with [GetUserIDFromContext].
var UserIDCtxKey = contextKey("userID")

// GetUserIDFromContext returns the authenticated user ID from ctx. ok is
// false when the value is absent or not an int64.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
