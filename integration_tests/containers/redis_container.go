//go:build integration

package containers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupRedisContainer starts a Redis testcontainer and returns the container
// and its host:port address.
func SetupRedisContainer(ctx context.Context) (testcontainers.Container, string, error) {
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Ready to accept connections"),
				wait.ForListeningPort("6379/tcp"),
			).WithDeadline(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		if redisContainer != nil {
			_ = testcontainers.TerminateContainer(redisContainer)
		}
		return nil, "", fmt.Errorf("failed to start redis container: %w", err)
	}

	addr, err := redisContainer.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		_ = testcontainers.TerminateContainer(redisContainer)
		return nil, "", fmt.Errorf("failed to get redis endpoint: %w", err)
	}

	log.Printf("Redis container started and ready. Address: %s", addr)
	return redisContainer, addr, nil
}
