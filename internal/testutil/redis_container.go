// Package testutil starts the containers integration tests run against.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	redisOnce sync.Once
	redisAddr string
	redisErr  error
)

// RedisAddress returns the host:port of a Redis container shared by every
// test in the package. The test is skipped when no container runtime is
// reachable.
func RedisAddress(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	redisOnce.Do(func() {
		// Give generous timeout in CI environments
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		redisC, err := testcontainers.Run(
			ctx, "redis:7",
			testcontainers.WithExposedPorts("6379/tcp"),
			testcontainers.WithWaitStrategy(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			),
		)
		if err != nil {
			redisErr = err
			return
		}

		endpoint, err := redisC.Endpoint(ctx, "")
		if err != nil {
			_ = redisC.Terminate(context.Background())
			redisErr = err
			return
		}
		redisAddr = endpoint
	})

	if redisErr != nil {
		t.Skipf("redis container unavailable: %v", redisErr)
	}
	return redisAddr
}
