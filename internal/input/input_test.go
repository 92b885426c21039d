package input

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/discochess/openingweeks/internal/source"
	"github.com/discochess/openingweeks/internal/source/memsource"
)

const csvData = "Date,Moves,EloRating\n01/02/24,e2e4 e7e5,1000\n"

func TestSchemeOf(t *testing.T) {
	tests := []struct {
		location string
		want     Scheme
	}{
		{"games.csv", File},
		{"/data/games.csv.zst", File},
		{"gs://bucket/games.csv", GCS},
		{"s3://bucket/exports/games.csv.gz", S3},
		{"http://example.com/games.csv", HTTP},
		{"https://example.com/games.csv", HTTPS},
		{"gsx://bucket/games.csv", File},
	}

	for _, tt := range tests {
		if got := SchemeOf(tt.location); got != tt.want {
			t.Errorf("SchemeOf(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.csv")
	if err := os.WriteFile(path, []byte(csvData), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rc, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if string(got) != csvData {
		t.Errorf("Open() = %q, want %q", got, csvData)
	}
}

func TestOpen_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, csvData)
	}))
	defer srv.Close()

	rc, err := Open(context.Background(), srv.URL+"/games.csv", WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if string(got) != csvData {
		t.Errorf("Open() = %q, want %q", got, csvData)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(context.Background(), ""); !errors.Is(err, ErrEmptyLocation) {
		t.Errorf("Open(\"\") error = %v, want ErrEmptyLocation", err)
	}
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := Open(context.Background(), "gs://"); err == nil {
		t.Error("Open(gs://) should fail without a bucket")
	}
}

func TestOpen_WithSource(t *testing.T) {
	mem := memsource.New()
	mem.Put("exports/games.csv", []byte(csvData))

	rc, err := Open(context.Background(), "exports/games.csv", WithSource(mem))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if string(got) != csvData {
		t.Errorf("Open() = %q, want %q", got, csvData)
	}

	// The location is an object name, never a local path.
	if _, err := Open(context.Background(), "gs://bucket/games.csv", WithSource(mem)); !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Open(gs://) error = %v, want ErrNotFound", err)
	}
}
