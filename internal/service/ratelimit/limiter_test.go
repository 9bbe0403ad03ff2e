package ratelimit

import (
    "testing"
    "time"
)

func TestAllowExhaustsCapacity(t *testing.T) {
    l := New()
    for i := 0; i < 2; i++ {
        if !l.Allow("k", 2, 0) {
            t.Fatalf("request %d should be allowed", i+1)
        }
    }
    if l.Allow("k", 2, 0) {
        t.Fatalf("request over capacity should be denied")
    }
}

func TestAllowKeysAreIndependent(t *testing.T) {
    l := New()
    if !l.Allow("a", 1, 0) {
        t.Fatalf("first key should be allowed")
    }
    if l.Allow("a", 1, 0) {
        t.Fatalf("first key should be exhausted")
    }
    if !l.Allow("b", 1, 0) {
        t.Fatalf("second key should have its own bucket")
    }
}

func TestAllowRefills(t *testing.T) {
    l := New()
    if !l.Allow("k", 1, 100) {
        t.Fatalf("initial token should be available")
    }
    if l.Allow("k", 1, 100) {
        t.Fatalf("bucket should be empty right away")
    }
    time.Sleep(30 * time.Millisecond)
    if !l.Allow("k", 1, 100) {
        t.Fatalf("bucket should have refilled")
    }
}
