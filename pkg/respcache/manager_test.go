package respcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis and skips when none is running.
// The integration suite in pkg/blogapi uses testcontainers instead.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil redis client")
		}
	}()
	NewManager(nil)
}

func TestManager_SetGetDelete(t *testing.T) {
	manager := NewManager(setupTestRedis(t))
	ctx := context.Background()
	key := Key{Path: "/api/v1/bulk/42", Viewer: "42"}

	entry := &Entry{
		Data:       []byte(`{"posts":[]}`),
		ETag:       `"v1"`,
		StatusCode: 200,
		CachedAt:   time.Now(),
		Expires:    time.Now().Add(time.Minute),
	}

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ETag != entry.ETag || string(got.Data) != string(entry.Data) {
		t.Errorf("Get() = %+v, want %+v", got, entry)
	}

	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete = %v, want ErrCacheMiss", err)
	}
}

func TestManager_SetExpiredIsDropped(t *testing.T) {
	manager := NewManager(setupTestRedis(t))
	ctx := context.Background()
	key := Key{Path: "/expired"}

	if err := manager.Set(ctx, key, &Entry{Expires: time.Now().Add(-time.Second)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get = %v, want ErrCacheMiss", err)
	}
}

func TestManager_Touch(t *testing.T) {
	manager := NewManager(setupTestRedis(t))
	ctx := context.Background()
	key := Key{Path: "/touch"}

	if err := manager.Set(ctx, key, &Entry{Data: []byte("x"), Expires: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	newExpires := time.Now().Add(time.Hour)
	if err := manager.Touch(ctx, key, newExpires); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := got.Expires.Sub(newExpires); diff < -time.Second || diff > time.Second {
		t.Errorf("Expires = %v, want %v", got.Expires, newExpires)
	}
}

func TestManager_SetNilEntry(t *testing.T) {
	manager := NewManager(redis.NewClient(&redis.Options{Addr: "localhost:6379"}))
	if err := manager.Set(context.Background(), Key{Path: "/x"}, nil); err == nil {
		t.Error("Set with nil entry should return error")
	}
}
