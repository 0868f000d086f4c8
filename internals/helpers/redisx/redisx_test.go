package redisx

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

var _ fiber.Storage = (*Store)(nil)

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	s := NewStore(nil, "test", time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	if v, err := s.GetCtx(ctx, "missing"); err != nil || v != nil {
		t.Fatalf("missing key = %q, %v", v, err)
	}
	if err := s.SetCtx(ctx, "a", []byte("1"), 0); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("a"); string(v) != "1" {
		t.Fatalf("a = %q", v)
	}

	_ = s.Set("short", []byte("x"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if v, _ := s.Get("short"); v != nil {
		t.Fatalf("expired key still present: %q", v)
	}

	_ = s.Delete("a")
	if v, _ := s.Get("a"); v != nil {
		t.Fatal("delete ignored")
	}
	if s.Backend() != "memory" {
		t.Fatal(s.Backend())
	}
}

func TestOpenWithoutURL(t *testing.T) {
	c, err := Open(context.Background(), " ")
	if c != nil || err != nil {
		t.Fatalf("Open(\"\") = %v, %v", c, err)
	}
}

func TestMemoryStoreReclaimsExpiredKeys(t *testing.T) {
	s := newStore(nil, "test", time.Minute, 5*time.Millisecond)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_ = s.SetCtx(ctx, fmt.Sprintf("ip-%d", i), []byte("1"), 10*time.Millisecond)
	}
	_ = s.SetCtx(ctx, "keep", []byte("1"), time.Hour)

	deadline := time.Now().Add(2 * time.Second)
	for s.memLen() > 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := s.memLen(); n != 1 {
		t.Fatalf("expired keys not reclaimed: %d left", n)
	}
	if v, _ := s.GetCtx(ctx, "keep"); string(v) != "1" {
		t.Fatal("live key swept")
	}
}

func TestSweepAndClose(t *testing.T) {
	s := newStore(nil, "", 0, time.Hour)
	_ = s.Set("a", []byte("1"), time.Millisecond)
	_ = s.Set("b", []byte("1"), 0)
	if n := s.sweep(time.Now().Add(time.Second)); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal("second Close must be a no-op")
	}
}
