package domain

import "time"

// RoleAdmin is the role required on tokens used against the admin API.
const RoleAdmin = "admin"

// TokenIssuer issues signed tokens for operators of the admin API.
type TokenIssuer interface {
	Issue(subject string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token carrying the admin role and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}
