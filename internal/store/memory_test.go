package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testConfig() Config {
	cfg := Config{MaxArtifacts: 2, TTLMinutes: 60}
	return cfg
}

func artifact(createdAt time.Time) Artifact {
	return Artifact{
		ID:               uuid.New(),
		CreatedAt:        createdAt,
		TotalAssignments: 3,
		TotalFiles:       6,
		GenerationTime:   2 * time.Second,
		Data:             []byte("zip"),
	}
}

func TestMemoryStoreLatestAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testConfig())

	if _, err := s.Latest(ctx); err != ErrNoArtifact {
		t.Fatalf("empty store Latest: got %v, want ErrNoArtifact", err)
	}

	first := artifact(time.Now())
	second := artifact(time.Now())
	if err := s.Put(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, second); err != nil {
		t.Fatal(err)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second.ID {
		t.Errorf("Latest = %s, want %s", latest.ID, second.ID)
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != first.ID {
		t.Errorf("Get = %s, want %s", got.ID, first.ID)
	}

	if _, err := s.Get(ctx, uuid.New()); err != ErrNoArtifact {
		t.Errorf("unknown id: got %v, want ErrNoArtifact", err)
	}
}

func TestMemoryStoreRetentionCap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testConfig())

	first := artifact(time.Now())
	second := artifact(time.Now())
	third := artifact(time.Now())
	for _, a := range []Artifact{first, second, third} {
		if err := s.Put(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.Get(ctx, first.ID); err != ErrNoArtifact {
		t.Errorf("oldest artifact should be pruned, got %v", err)
	}
	if _, err := s.Get(ctx, third.ID); err != nil {
		t.Errorf("newest artifact pruned: %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testConfig())

	now := time.Now()
	s.clock = func() time.Time { return now }

	old := artifact(now.Add(-2 * time.Hour))
	fresh := artifact(now)
	if err := s.Put(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get(ctx, old.ID); err != ErrNoArtifact {
		t.Errorf("expired artifact: got %v, want ErrNoArtifact", err)
	}
	if _, err := s.Latest(ctx); err != nil {
		t.Errorf("latest should survive: %v", err)
	}
}

func TestMemoryStoreLatestSurvivesTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testConfig())

	now := time.Now()
	s.clock = func() time.Time { return now }

	stale := artifact(now.Add(-2 * time.Hour))
	if err := s.Put(ctx, stale); err != nil {
		t.Fatal(err)
	}

	// The only artifact is past TTL but remains downloadable until a
	// newer generation replaces it.
	if _, err := s.Latest(ctx); err != nil {
		t.Errorf("stale latest should stay reachable: %v", err)
	}
}
