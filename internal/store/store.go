package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoArtifact is returned when no archive matches the request.
var ErrNoArtifact = errors.New("no artifact")

// Artifact is one generated archive plus its generation metrics. The
// store is content-addressed by generation id; the latest artifact is
// additionally reachable without an id.
type Artifact struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	TotalAssignments int
	TotalFiles       int
	GenerationTime   time.Duration
	Data             []byte
}

// ArtifactStore holds generated archives. Implementations must only
// publish complete artifacts: Latest moves after the blob write
// finishes, never during it.
type ArtifactStore interface {
	Put(ctx context.Context, artifact Artifact) error
	Latest(ctx context.Context) (Artifact, error)
	Get(ctx context.Context, id uuid.UUID) (Artifact, error)
}

// Config controls artifact retention and the optional database
// backing. With an empty database URL the in-memory store is used.
type Config struct {
	DatabaseURL  string `json:"database_url"`
	MaxArtifacts int    `json:"max_artifacts"`
	TTLMinutes   int    `json:"ttl_minutes"`
}

func (c *Config) SetDefaults() {
	if c.MaxArtifacts == 0 {
		c.MaxArtifacts = 8
	}
	if c.TTLMinutes == 0 {
		c.TTLMinutes = 240
	}
}

func (c *Config) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}
