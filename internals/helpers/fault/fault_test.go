package fault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		f    *Fault
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("not owner"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{AlreadyDecided(), http.StatusConflict},
		{Upstream("db", errors.New("boom")), http.StatusInternalServerError},
		{Unavailable("ai off"), http.StatusServiceUnavailable},
		{Unrecoverable("cascade", nil), http.StatusInternalServerError},
		{RateLimited("slow down", nil), http.StatusTooManyRequests},
		{Timeout("late", nil), http.StatusRequestTimeout},
	}
	for _, c := range cases {
		if got := c.f.Status(); got != c.want {
			t.Errorf("%s: status = %d, want %d", c.f.Error(), got, c.want)
		}
	}
}

func TestAsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("decide: %w", AlreadyDecided())
	f, ok := As(err)
	if !ok {
		t.Fatal("expected fault in chain")
	}
	if f.Code != CodeAlreadyDecided {
		t.Fatalf("code = %q", f.Code)
	}
	if !Is(err, KindConflict) {
		t.Fatal("expected conflict kind")
	}
	if !errors.Is(NotFound("x"), ErrNotFound) {
		t.Fatal("NotFound should unwrap to ErrNotFound")
	}
}
