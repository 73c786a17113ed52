package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an injected client (rueidis/mock in tests).
func NewStoreForTest(client rueidis.Client) *Store {
	return &Store{client: client}
}
