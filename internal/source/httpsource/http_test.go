package httpsource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/discochess/openingweeks/internal/codec"
	"github.com/discochess/openingweeks/internal/source"
)

const csvData = "Date,Moves,EloRating\n01/02/24,e2e4 e7e5,1000\n"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	var gz bytes.Buffer
	w, err := codec.Gzip().Writer(&gz)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	w.Write([]byte(csvData))
	w.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/games.csv", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, csvData)
	})
	mux.HandleFunc("/games.csv.gz", func(w http.ResponseWriter, r *http.Request) {
		w.Write(gz.Bytes())
	})
	mux.HandleFunc("/broken.csv", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/slow.csv", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSource_Open(t *testing.T) {
	srv := newServer(t)
	s := New(WithHTTPClient(srv.Client()))
	defer s.Close()

	for _, path := range []string{"/games.csv", "/games.csv.gz", "/games.csv.gz?token=abc"} {
		t.Run(path, func(t *testing.T) {
			rc, err := s.Open(context.Background(), srv.URL+path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer rc.Close()

			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != csvData {
				t.Errorf("Open() = %q, want %q", got, csvData)
			}
		})
	}
}

func TestSource_OpenErrors(t *testing.T) {
	srv := newServer(t)
	s := New(WithHTTPClient(srv.Client()))

	if _, err := s.Open(context.Background(), srv.URL+"/missing.csv"); !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Open(context.Background(), srv.URL+"/broken.csv"); err == nil {
		t.Error("Open(broken) should fail on a 500 response")
	}
}

func TestSource_OpenCancelled(t *testing.T) {
	srv := newServer(t)
	s := New(WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := s.Open(ctx, srv.URL+"/slow.csv"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Open(slow) error = %v, want context.DeadlineExceeded", err)
	}
}
