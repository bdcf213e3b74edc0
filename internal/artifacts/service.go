package artifacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"

	"github.com/google/uuid"
)

// Fixed artifact names. Existence of individual blobs is not tracked in
// the job record; absence is discovered lazily by the URL consumer.
const (
	ArtifactSummary    = "summary"
	ArtifactPreviewPNG = "preview_png"
	ArtifactMeshGLB    = "mesh_glb"
	ArtifactMeshVTU    = "mesh_vtu"
)

var (
	// ErrStorageNotConfigured distinguishes "nobody set up storage" from
	// a backend rejection.
	ErrStorageNotConfigured = errors.New("blob storage is not configured")

	// ErrStorageBackend wraps signing failures reported by the backend.
	ErrStorageBackend = errors.New("blob storage backend error")
)

const (
	// DefaultTTL applies when the caller does not override the expiry.
	DefaultTTL = time.Hour

	minTTL = time.Minute
	maxTTL = 24 * time.Hour
)

// ArtifactPaths returns the fixed blob layout for a job's outputs.
func ArtifactPaths(jobID uuid.UUID) map[string]string {
	id := jobID.String()
	return map[string]string{
		ArtifactSummary:    fmt.Sprintf("%s/summary.json", id),
		ArtifactPreviewPNG: fmt.Sprintf("%s/data/preview.png", id),
		ArtifactMeshGLB:    fmt.Sprintf("%s/data/mesh.glb", id),
		ArtifactMeshVTU:    fmt.Sprintf("%s/data/mesh.vtu", id),
	}
}

// URLSet is the result of a signed URL request. All URLs share one expiry.
type URLSet struct {
	URLs      map[string]string
	ExpiresIn time.Duration
}

// Service generates time-limited signed URLs for a job's stored outputs.
// Read-only and side-effect free: failures never touch job state.
type Service struct {
	jobs   store.JobStore
	client BlobClient
}

// NewService creates the artifact access layer. client may be nil when
// storage is unconfigured; requests then fail with
// ErrStorageNotConfigured.
func NewService(jobs store.JobStore, client BlobClient) *Service {
	return &Service{jobs: jobs, client: client}
}

// ArtifactURLs validates that the job exists, then produces signed
// read-only URLs for every fixed artifact name. ttl <= 0 selects the
// default; out-of-range overrides are clamped rather than rejected.
func (s *Service) ArtifactURLs(ctx context.Context, jobID uuid.UUID, ttl time.Duration) (*URLSet, error) {
	// Existence check first: unknown jobs must surface as NotFound
	// before any signing request goes out.
	if _, err := s.jobs.GetJob(ctx, jobID); err != nil {
		return nil, err
	}

	if s.client == nil {
		return nil, ErrStorageNotConfigured
	}

	switch {
	case ttl <= 0:
		ttl = DefaultTTL
	case ttl < minTTL:
		ttl = minTTL
	case ttl > maxTTL:
		ttl = maxTTL
	}

	urls := make(map[string]string)
	for name, path := range ArtifactPaths(jobID) {
		signed, err := s.client.SignedGetURL(ctx, path, ttl)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageBackend, err)
		}
		urls[name] = signed
	}

	return &URLSet{URLs: urls, ExpiresIn: ttl}, nil
}
