package useragent_test

import (
	"testing"

	"github.com/pummelhq/pummel/internal/useragent"
)

func TestPoolContents(t *testing.T) {
	if len(useragent.Pool) != 8 {
		t.Errorf("expected 8 signatures, got %d", len(useragent.Pool))
	}
	seen := make(map[string]bool)
	for _, ua := range useragent.Pool {
		if ua == "" {
			t.Errorf("empty signature in pool")
		}
		if seen[ua] {
			t.Errorf("duplicate signature %q", ua)
		}
		seen[ua] = true
	}
}

func TestRandomDrawsFromPool(t *testing.T) {
	members := make(map[string]bool, len(useragent.Pool))
	for _, ua := range useragent.Pool {
		members[ua] = true
	}
	for i := 0; i < 100; i++ {
		if ua := useragent.Random(); !members[ua] {
			t.Fatalf("Random returned %q, not a pool member", ua)
		}
	}
}
