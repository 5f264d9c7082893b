package ports

import "context"

// Durable storage keys shared by every Storage driver.
const (
	KeyToken       = "token"
	KeyCurrentUser = "currentUser"
)

// Storage is the durable local key-value store the session survives in.
// Get reports ok=false for a missing key; Remove of a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
