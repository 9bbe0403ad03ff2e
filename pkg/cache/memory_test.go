package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type statusRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestMemoryCacheStructRoundTrip(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	ctx := context.Background()

	in := &statusRecord{ID: "abc", Status: "done"}
	if err := mc.Set(ctx, "job:abc", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out statusRecord
	if err := mc.Get(ctx, "job:abc", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.ID != "abc" || out.Status != "done" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestMemoryCacheStringRoundTrip(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var s string
	if err := mc.Get(ctx, "k", &s); err != nil {
		t.Fatalf("get: %v", err)
	}
	if s != "v" {
		t.Fatalf("got %q", s)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	var s string
	err := mc.Get(context.Background(), "missing", &s)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var s string
	if err := mc.Get(ctx, "k", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}
