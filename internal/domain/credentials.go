package domain

import "log/slog"

// Credentials is a username/password pair as submitted by the login form.
// Values are kept exactly as typed; trimming is only applied for presence checks.
type Credentials struct {
	Username string
	Password string
}

var _ slog.LogValuer = Credentials{}

// LogValue implements slog.LogValuer. The password is never logged.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("username", c.Username))
}
