package media

import (
	"errors"
	"testing"
)

func TestSetupCacheRunsOncePerKey(t *testing.T) {
	cache := NewSetupCache()

	runs := 0
	setup := func() error {
		runs++
		return nil
	}

	for i := 0; i < 3; i++ {
		if err := cache.Do("file:/tmp/a.log", setup); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if runs != 1 {
		t.Errorf("setup ran %d times, want 1", runs)
	}

	if err := cache.Do("file:/tmp/b.log", setup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs != 2 {
		t.Errorf("distinct key should run setup again, got %d runs", runs)
	}
}

func TestSetupCacheRetriesAfterFailure(t *testing.T) {
	cache := NewSetupCache()

	boom := errors.New("transient")
	runs := 0
	fail := true
	setup := func() error {
		runs++
		if fail {
			return boom
		}
		return nil
	}

	if err := cache.Do("k", setup); !errors.Is(err, boom) {
		t.Fatalf("expected setup error, got %v", err)
	}
	if cache.Done("k") {
		t.Error("failed setup should not be recorded")
	}

	fail = false
	if err := cache.Do("k", setup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cache.Done("k") {
		t.Error("successful setup should be recorded")
	}
	if runs != 2 {
		t.Errorf("setup ran %d times, want 2", runs)
	}
}
