package artifacts

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store"

	"github.com/google/uuid"
)

type fakeJobStore struct {
	jobs map[uuid.UUID]*store.Job
}

func (f *fakeJobStore) CreateJob(ctx context.Context, name string, input *store.SimulationInput) (*store.Job, error) {
	panic("not used")
}

func (f *fakeJobStore) GetJob(ctx context.Context, id uuid.UUID) (*store.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return job, nil
}

func (f *fakeJobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status store.JobStatus, logMessage string) (*store.Job, error) {
	panic("not used")
}

func (f *fakeJobStore) ListJobs(ctx context.Context, opts store.ListOptions) (*store.JobPage, error) {
	panic("not used")
}

// signingClient counts signing calls so tests can assert that unknown
// jobs never reach the backend.
type signingClient struct {
	signCalls int
	signErr   error
	lastTTL   time.Duration
}

func (c *signingClient) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	return nil
}

func (c *signingClient) SignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	c.signCalls++
	c.lastTTL = expiry
	if c.signErr != nil {
		return "", c.signErr
	}
	return "https://signed.example/" + key, nil
}

func (c *signingClient) BaseURL() string {
	return "s3://fea-artifacts"
}

func knownJob() (*fakeJobStore, uuid.UUID) {
	id := uuid.New()
	return &fakeJobStore{jobs: map[uuid.UUID]*store.Job{
		id: {ID: id, Name: "beam-study", Status: store.StatusCompleted},
	}}, id
}

func TestArtifactURLs_AllFixedArtifacts(t *testing.T) {
	jobs, id := knownJob()
	client := &signingClient{}
	svc := NewService(jobs, client)

	urls, err := svc.ArtifactURLs(context.Background(), id, 0)
	if err != nil {
		t.Fatalf("ArtifactURLs failed: %v", err)
	}

	for _, name := range []string{ArtifactSummary, ArtifactPreviewPNG, ArtifactMeshGLB, ArtifactMeshVTU} {
		if urls.URLs[name] == "" {
			t.Errorf("missing URL for %s", name)
		}
	}
	if len(urls.URLs) != 4 {
		t.Errorf("got %d URLs, want 4", len(urls.URLs))
	}

	if !strings.HasSuffix(urls.URLs[ArtifactSummary], id.String()+"/summary.json") {
		t.Errorf("summary path wrong: %s", urls.URLs[ArtifactSummary])
	}
	if !strings.HasSuffix(urls.URLs[ArtifactPreviewPNG], id.String()+"/data/preview.png") {
		t.Errorf("preview path wrong: %s", urls.URLs[ArtifactPreviewPNG])
	}
}

func TestArtifactURLs_DefaultTTL(t *testing.T) {
	jobs, id := knownJob()
	client := &signingClient{}
	svc := NewService(jobs, client)

	urls, err := svc.ArtifactURLs(context.Background(), id, 0)
	if err != nil {
		t.Fatalf("ArtifactURLs failed: %v", err)
	}
	if urls.ExpiresIn != DefaultTTL {
		t.Errorf("got ttl %v, want default %v", urls.ExpiresIn, DefaultTTL)
	}
	if client.lastTTL != DefaultTTL {
		t.Errorf("backend signed with %v, want %v", client.lastTTL, DefaultTTL)
	}
}

func TestArtifactURLs_TTLClamped(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"below minimum", 5 * time.Second, minTTL},
		{"above maximum", 48 * time.Hour, maxTTL},
		{"in range", 2 * time.Hour, 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, id := knownJob()
			svc := NewService(jobs, &signingClient{})

			urls, err := svc.ArtifactURLs(context.Background(), id, tt.ttl)
			if err != nil {
				t.Fatalf("ArtifactURLs failed: %v", err)
			}
			if urls.ExpiresIn != tt.want {
				t.Errorf("got ttl %v, want %v", urls.ExpiresIn, tt.want)
			}
		})
	}
}

func TestArtifactURLs_UnknownJobNeverSigns(t *testing.T) {
	jobs, _ := knownJob()
	client := &signingClient{}
	svc := NewService(jobs, client)

	_, err := svc.ArtifactURLs(context.Background(), uuid.New(), 0)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if client.signCalls != 0 {
		t.Errorf("backend was asked to sign %d URLs for an unknown job", client.signCalls)
	}
}

func TestArtifactURLs_StorageNotConfigured(t *testing.T) {
	jobs, id := knownJob()
	svc := NewService(jobs, nil)

	_, err := svc.ArtifactURLs(context.Background(), id, 0)
	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("got %v, want ErrStorageNotConfigured", err)
	}
}

func TestArtifactURLs_BackendFailure(t *testing.T) {
	jobs, id := knownJob()
	svc := NewService(jobs, &signingClient{signErr: errors.New("credentials expired")})

	_, err := svc.ArtifactURLs(context.Background(), id, 0)
	if !errors.Is(err, ErrStorageBackend) {
		t.Errorf("got %v, want ErrStorageBackend", err)
	}
}
