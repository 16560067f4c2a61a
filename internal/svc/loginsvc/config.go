package loginsvc

import "time"

// AuthConfig contains the token settings of the login service.
type AuthConfig struct {
	// SigningKey is the HS256 secret; when empty the key file is used
	SigningKey string `env:"SIGNING_KEY" default:""`

	// SigningKeyFile is the path of a PEM key file, created on first start
	SigningKeyFile string `env:"SIGNING_KEY_FILE" default:"var/storage/loginsvc.key"`

	// TokenDuration is the validity window of session tokens
	TokenDuration time.Duration `env:"TOKEN_DURATION" default:"8h"`

	// Issuer is written to the iss claim and required when tokens are read back
	Issuer string `env:"ISSUER" default:"homecase-login"`

	// LandingLocation is where a successful login redirects to
	LandingLocation string `env:"LANDING_LOCATION" default:"/"`
}
