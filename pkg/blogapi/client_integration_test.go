//go:build integration

package blogapi_test

import (
	"context"
	"testing"

	"github.com/Sternrassler/blogfeed/internal/testutil"
	"github.com/Sternrassler/blogfeed/pkg/blogapi"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer creates a Redis container for integration testing.
func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		client.Close()
		redisContainer.Terminate(ctx)
	})

	return client
}

func TestIntegration_ConditionalFeedRequests(t *testing.T) {
	redisClient := setupRedisContainer(t)

	mock := testutil.NewMockBlogAPI(testutil.SamplePosts(3)...)
	defer mock.Close()

	cfg := blogapi.DefaultConfig(mock.URL(), "u-1")
	cfg.Redis = redisClient
	client, err := blogapi.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	q := blogapi.ListQuery{Limit: 2, Page: 1}

	first, err := client.ListPosts(ctx, q)
	if err != nil {
		t.Fatalf("Request 1 failed: %v", err)
	}
	if mock.GetConditionalCount() != 0 {
		t.Errorf("conditional requests after first call = %d, want 0", mock.GetConditionalCount())
	}

	second, err := client.ListPosts(ctx, q)
	if err != nil {
		t.Fatalf("Request 2 failed: %v", err)
	}

	if mock.GetRequestCount() != 2 {
		t.Errorf("requests = %d, want 2 (revalidation still hits the backend)", mock.GetRequestCount())
	}
	if mock.GetConditionalCount() != 1 {
		t.Errorf("conditional requests = %d, want 1", mock.GetConditionalCount())
	}
	if len(second) != len(first) || second[0].ID != first[0].ID || second[1].ID != first[1].ID {
		t.Errorf("revalidated page = %+v, want %+v", second, first)
	}

	// Different limit, different cache key: plain request.
	mock.AddPosts(testutil.SamplePosts(1)[0])
	third, err := client.ListPosts(ctx, blogapi.ListQuery{Limit: 5, Page: 1})
	if err != nil {
		t.Fatalf("Request 3 failed: %v", err)
	}
	if len(third) != 4 {
		t.Errorf("len(third) = %d, want 4", len(third))
	}
}
