package aplsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcherSuccess(t *testing.T) {
	body := "UPC,Description\n00011110001,Milk\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, 5)
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if string(res.Body) != body {
		t.Errorf("body = %q", res.Body)
	}
	if res.ContentType != "text/csv" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if res.Fingerprint != Fingerprint([]byte(body)) {
		t.Error("fingerprint does not match content hash")
	}
}

func TestHTTPFetcherFingerprintIsDeterministic(t *testing.T) {
	a := Fingerprint([]byte("same bytes"))
	b := Fingerprint([]byte("same bytes"))
	c := Fingerprint([]byte("other bytes"))

	if a != b {
		t.Error("identical content must produce identical fingerprints")
	}
	if a == c {
		t.Error("different content must produce different fingerprints")
	}
}

func TestHTTPFetcherFollowsRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			fmt.Fprint(w, "payload")
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, 5)
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(res.Body) != "payload" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestHTTPFetcherRedirectCap(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every response redirects again; the hop cap has to break the loop.
		http.Redirect(w, r, srv.URL+"/again", http.StatusFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, 5)
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error on redirect loop")
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("err = %v, want wrapped ErrFetchFailed", err)
	}
}

func TestHTTPFetcherNon2xx(t *testing.T) {
	tests := []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusForbidden}

	for _, status := range tests {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			f := NewHTTPFetcher(5*time.Second, 5)
			if _, err := f.Fetch(context.Background(), srv.URL); !errors.Is(err, ErrFetchFailed) {
				t.Errorf("status %d: err = %v, want ErrFetchFailed", status, err)
			}
		})
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(50*time.Millisecond, 5)
	if _, err := f.Fetch(context.Background(), srv.URL); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("err = %v, want ErrFetchFailed on timeout", err)
	}
}
