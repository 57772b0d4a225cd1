package dataset

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ready4uni/advisor-go/internal/config"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/majors"
)

type stubFetcher struct {
	data []byte
	err  error
	keys []string
}

func (s *stubFetcher) Fetch(_ context.Context, key string) ([]byte, error) {
	s.keys = append(s.keys, key)
	return s.data, s.err
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

const remoteDataset = `[
  {
    "id": "quantum_engineering",
    "name": "Quantum Engineering",
    "description": "Engineering of quantum devices and computation.",
    "requirements": {"Math": 18, "Physics": 17},
    "keywords": ["quantum", "physics"],
    "career_paths": ["Quantum Engineer"],
    "universities": ["Instituto Superior Técnico"]
  }
]`

func TestLoadCatalogDisabled(t *testing.T) {
	catalog, err := LoadCatalog(context.Background(), config.DatasetConfig{Enabled: false}, testLogger())
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	embedded, _ := majors.Default()
	if catalog.Len() != embedded.Len() {
		t.Errorf("catalog size = %d, want embedded %d", catalog.Len(), embedded.Len())
	}
}

func TestLoadRemoteCatalog(t *testing.T) {
	f := &stubFetcher{data: []byte(remoteDataset)}

	catalog, err := load(context.Background(), f, "majors.json", testLogger())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.keys) != 1 || f.keys[0] != "majors.json" {
		t.Errorf("fetched keys = %v", f.keys)
	}
	if catalog.Len() != 1 {
		t.Fatalf("catalog size = %d, want 1", catalog.Len())
	}
	if _, err := catalog.Resolve("Quantum Engineering"); err != nil {
		t.Errorf("Resolve: %v", err)
	}
}

func TestLoadFallsBackOnFetchError(t *testing.T) {
	f := &stubFetcher{err: errors.New("connection refused")}

	catalog, err := load(context.Background(), f, "majors.json", testLogger())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	embedded, _ := majors.Default()
	if catalog.Len() != embedded.Len() {
		t.Errorf("catalog size = %d, want embedded %d", catalog.Len(), embedded.Len())
	}
}

func TestLoadFallsBackOnInvalidData(t *testing.T) {
	f := &stubFetcher{data: []byte(`{"not": "a dataset"}`)}

	catalog, err := load(context.Background(), f, "majors.json", testLogger())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := catalog.Resolve("Computer Science"); err != nil {
		t.Errorf("embedded fallback missing Computer Science: %v", err)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), config.DatasetConfig{
		Enabled:    true,
		BucketName: "majors",
	})
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
