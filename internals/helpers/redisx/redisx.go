// Package redisx: koneksi Redis opsional + key/value store dengan TTL.
// Tanpa REDIS_URL store jatuh ke memori proses (cukup untuk satu instance).
package redisx

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open: URL kosong → (nil, nil), pemanggil memakai fallback memori.
func Open(ctx context.Context, rawURL string) (*redis.Client, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Printf("[INFO] redis connected addr=%s db=%d", opt.Addr, opt.DB)
	return client, nil
}

type memEntry struct {
	val []byte
	exp time.Time // zero: tanpa expiry
}

// Store memenuhi fiber.Storage (dipakai limiter) dan dipakai langsung
// oleh fitur yang butuh state pendek (filter pencarian).
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	mu  sync.Mutex
	mem map[string]memEntry

	stop     chan struct{}
	stopOnce sync.Once
}

// DefaultGCInterval: jarak sweep key kedaluwarsa pada fallback memori.
const DefaultGCInterval = 10 * time.Second

func NewStore(client *redis.Client, prefix string, defaultTTL time.Duration) *Store {
	return newStore(client, prefix, defaultTTL, DefaultGCInterval)
}

func newStore(client *redis.Client, prefix string, defaultTTL, gcEvery time.Duration) *Store {
	s := &Store{
		client: client,
		prefix: prefix,
		ttl:    defaultTTL,
		mem:    map[string]memEntry{},
		stop:   make(chan struct{}),
	}
	if client == nil {
		go s.gc(gcEvery)
	}
	return s
}

// gc membuang entry kedaluwarsa sampai Close dipanggil.
func (s *Store) gc(every time.Duration) {
	if every <= 0 {
		every = DefaultGCInterval
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-t.C:
			s.sweep(now)
		}
	}
}

func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.mem {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(s.mem, k)
			n++
		}
	}
	return n
}

func (s *Store) memLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mem)
}

func (s *Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *Store) Backend() string {
	if s.client != nil {
		return "redis"
	}
	return "memory"
}

/* ===== context-aware API ===== */

// GetCtx: key tidak ada → (nil, nil).
func (s *Store) GetCtx(ctx context.Context, k string) ([]byte, error) {
	if s.client != nil {
		b, err := s.client.Get(ctx, s.key(k)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.mem[s.key(k)]
	if !ok {
		return nil, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.mem, s.key(k))
		return nil, nil
	}
	return e.val, nil
}

// SetCtx: exp <= 0 memakai TTL default store.
func (s *Store) SetCtx(ctx context.Context, k string, val []byte, exp time.Duration) error {
	if exp <= 0 {
		exp = s.ttl
	}
	if s.client != nil {
		return s.client.Set(ctx, s.key(k), val, exp).Err()
	}

	e := memEntry{val: append([]byte(nil), val...)}
	if exp > 0 {
		e.exp = time.Now().Add(exp)
	}
	s.mu.Lock()
	s.mem[s.key(k)] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) DeleteCtx(ctx context.Context, k string) error {
	if s.client != nil {
		return s.client.Del(ctx, s.key(k)).Err()
	}
	s.mu.Lock()
	delete(s.mem, s.key(k))
	s.mu.Unlock()
	return nil
}

/* ===== fiber.Storage ===== */

const opTimeout = 250 * time.Millisecond

func (s *Store) Get(k string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.GetCtx(ctx, k)
}

func (s *Store) Set(k string, val []byte, exp time.Duration) error {
	if k == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.SetCtx(ctx, k, val, exp)
}

func (s *Store) Delete(k string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.DeleteCtx(ctx, k)
}

// Reset hanya mengosongkan key dengan prefix store ini.
func (s *Store) Reset() error {
	if s.client == nil {
		s.mu.Lock()
		s.mem = map[string]memEntry{}
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	iter := s.client.Scan(ctx, 0, s.key("*"), 200).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close menghentikan gc memori; client Redis bersama tidak ditutup.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
