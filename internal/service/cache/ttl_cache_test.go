package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestTTLCacheRoundTrip(t *testing.T) {
	c := NewTTLCache()
	if err := c.SetBytes("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := c.GetBytes("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(b, []byte("v")) {
		t.Fatalf("got %q", b)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok, _ := c.GetBytes("k"); ok {
		t.Fatalf("expired key should be gone")
	}
}

func TestTTLCacheEvictsWhenFull(t *testing.T) {
	c := NewTTLCacheSize(1)
	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	if _, ok, _ := c.GetBytes("a"); ok {
		t.Fatalf("oldest entry should have been evicted")
	}
	if _, ok, _ := c.GetBytes("b"); !ok {
		t.Fatalf("newest entry should survive")
	}
}

func TestTTLCacheEvictsExpiredFirst(t *testing.T) {
	c := NewTTLCacheSize(2)
	c.Set("stale", []byte("1"), time.Millisecond)
	c.Set("live", []byte("2"), time.Minute)
	time.Sleep(10 * time.Millisecond)
	c.Set("new", []byte("3"), time.Minute)
	if _, ok, _ := c.GetBytes("live"); !ok {
		t.Fatalf("unexpired entry should survive eviction")
	}
	if _, ok, _ := c.GetBytes("new"); !ok {
		t.Fatalf("inserted entry should be present")
	}
}
