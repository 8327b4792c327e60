package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps artifacts in process memory with bounded
// retention. Writes and the latest pointer are serialized under one
// lock, so a concurrent download never observes a half-written
// archive.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[uuid.UUID]Artifact
	order     []uuid.UUID
	latest    uuid.UUID

	maxArtifacts int
	ttl          time.Duration
	clock        func() time.Time
}

func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{
		artifacts:    make(map[uuid.UUID]Artifact),
		maxArtifacts: cfg.MaxArtifacts,
		ttl:          cfg.TTL(),
		clock:        time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, artifact Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.artifacts[artifact.ID] = artifact
	s.order = append(s.order, artifact.ID)
	s.latest = artifact.ID
	s.prune()
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(s.latest)
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

func (s *MemoryStore) lookup(id uuid.UUID) (Artifact, error) {
	artifact, ok := s.artifacts[id]
	if !ok {
		return Artifact{}, ErrNoArtifact
	}
	// The latest artifact stays reachable past its TTL so /download
	// keeps working until the next generation replaces it.
	if id != s.latest && s.ttl > 0 && s.clock().Sub(artifact.CreatedAt) > s.ttl {
		return Artifact{}, ErrNoArtifact
	}
	return artifact, nil
}

// prune drops expired artifacts and the oldest entries beyond the
// retention cap. The latest artifact is never pruned by the cap.
func (s *MemoryStore) prune() {
	now := s.clock()
	kept := s.order[:0]
	for _, id := range s.order {
		artifact := s.artifacts[id]
		expired := s.ttl > 0 && now.Sub(artifact.CreatedAt) > s.ttl
		if expired && id != s.latest {
			delete(s.artifacts, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	for s.maxArtifacts > 0 && len(s.order) > s.maxArtifacts {
		oldest := s.order[0]
		if oldest == s.latest {
			break
		}
		delete(s.artifacts, oldest)
		s.order = s.order[1:]
	}
}
