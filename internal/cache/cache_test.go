package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	value := []byte(`{"content":"cookie consent requires prior opt-in"}`)
	if err := c.Set("kb:v1:abc", value, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("kb:v1:abc")
	if !found {
		t.Fatal("Expected cache hit within TTL")
	}
	if string(got) != string(value) {
		t.Errorf("Expected %q, got %q", value, got)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("kb:v1:short", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("kb:v1:short"); found {
		t.Error("Expected miss after TTL expiry")
	}
}

func TestMemoryCache_DeleteMatching(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("kb:v1:one", []byte("1"), time.Minute)
	c.Set("kb:v1:two", []byte("2"), time.Minute)
	c.Set("other:key", []byte("3"), time.Minute)

	if err := c.DeleteMatching("kb:v1:"); err != nil {
		t.Fatalf("DeleteMatching failed: %v", err)
	}

	if _, found := c.Get("kb:v1:one"); found {
		t.Error("Expected kb:v1:one to be invalidated")
	}
	if _, found := c.Get("kb:v1:two"); found {
		t.Error("Expected kb:v1:two to be invalidated")
	}
	if _, found := c.Get("other:key"); !found {
		t.Error("Expected non-matching key to survive")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("kb:v1:disk", []byte("persisted"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("kb:v1:disk")
	if !found {
		t.Fatal("Expected disk cache hit")
	}
	if string(got) != "persisted" {
		t.Errorf("Expected %q, got %q", "persisted", got)
	}

	if err := c.DeleteMatching("kb:v1:"); err != nil {
		t.Fatalf("DeleteMatching failed: %v", err)
	}
	if _, found := c.Get("kb:v1:disk"); found {
		t.Error("Expected entry removed by prefix invalidation")
	}
}

func TestAnswerKey_Deterministic(t *testing.T) {
	type ctx struct {
		Jurisdiction string `json:"jurisdiction"`
	}

	k1 := AnswerKey("cookie_consent", ctx{Jurisdiction: "HU"})
	k2 := AnswerKey("cookie_consent", ctx{Jurisdiction: "HU"})
	if k1 != k2 {
		t.Errorf("Expected identical keys for identical queries, got %q and %q", k1, k2)
	}

	k3 := AnswerKey("cookie_consent", ctx{Jurisdiction: "DE"})
	if k1 == k3 {
		t.Error("Expected different keys for different contexts")
	}

	k4 := AnswerKey("privacy_policy", ctx{Jurisdiction: "HU"})
	if k1 == k4 {
		t.Error("Expected different keys for different requirement types")
	}
}
