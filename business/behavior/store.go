package behavior

import "context"

// Store is the opaque key/string persistence abstraction backing behavior
// metrics. The second return of Get reports whether the key existed.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
