package realtime

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates the client backing the shared slug reservation set.
func NewRedis(addr, password string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	log.Printf("[realtime] redis client created (addr: %s)", addr)
	return rdb
}
