// Package identity is the boundary to the external identity provider. The
// cart core only needs an opaque, stable user id; how credentials become a
// session is someone else's problem.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid or expired session token")

// Verifier resolves a bearer token to a user id.
type Verifier interface {
	Resolve(ctx context.Context, token string) (string, error)
}
