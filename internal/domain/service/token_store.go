package service

import (
	"context"
)

// TokenStore reads the bearer credential used to authenticate backend calls.
// The wider persistent key-value store behind it is out of scope.
type TokenStore interface {
	BearerToken(ctx context.Context) (string, error)
}
