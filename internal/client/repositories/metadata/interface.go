// Package metadata stores small client settings that must survive restarts,
// such as the forced-offline flag and the session token.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, v bool) error
}
