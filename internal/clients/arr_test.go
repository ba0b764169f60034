// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newRadarrTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var deletes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.URL.Path == "/api/v3/system/status":
			w.Write([]byte(`{"version":"5.0"}`))
		case r.URL.Path == "/api/v3/movie" && r.Method == http.MethodGet:
			w.Write([]byte(`[
				{"id":1,"title":"The Matrix","tmdbId":603,"titleSlug":"the-matrix","sizeOnDisk":10000000000},
				{"id":2,"title":"Heat","tmdbId":949,"titleSlug":"heat","sizeOnDisk":8000000000}]`))
		case strings.HasPrefix(r.URL.Path, "/api/v3/movie/") && r.Method == http.MethodDelete:
			if r.URL.Path == "/api/v3/movie/1" {
				deletes = append(deletes, r.URL.RawQuery)
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, &deletes
}

func TestRadarrValidateConnection(t *testing.T) {
	srv, _ := newRadarrTestServer(t)
	defer srv.Close()

	if !NewRadarrClient(srv.URL, testAPIKey, 5*time.Second).ValidateConnection(context.Background()) {
		t.Error("valid key should validate")
	}
	if NewRadarrClient(srv.URL, "wrong", 5*time.Second).ValidateConnection(context.Background()) {
		t.Error("wrong key must not validate")
	}
}

func TestRadarrFindByTmdbID(t *testing.T) {
	srv, _ := newRadarrTestServer(t)
	defer srv.Close()
	c := NewRadarrClient(srv.URL, testAPIKey, 5*time.Second)

	movie, err := c.FindByTmdbID(context.Background(), 949)
	if err != nil {
		t.Fatalf("FindByTmdbID: %v", err)
	}
	if movie == nil || movie.ID != 2 || movie.Title != "Heat" {
		t.Errorf("wrong match: %+v", movie)
	}

	missing, err := c.FindByTmdbID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("FindByTmdbID(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestRadarrDeleteByTmdbID(t *testing.T) {
	srv, deletes := newRadarrTestServer(t)
	defer srv.Close()
	c := NewRadarrClient(srv.URL, testAPIKey, 5*time.Second)

	ok, msg := c.DeleteByTmdbID(context.Background(), 603, true)
	if !ok {
		t.Fatalf("delete failed: %s", msg)
	}
	if len(*deletes) != 1 || !strings.Contains((*deletes)[0], "deleteFiles=true") {
		t.Errorf("deleteFiles flag not forwarded: %v", *deletes)
	}

	ok, msg = c.DeleteByTmdbID(context.Background(), 12345, true)
	if ok {
		t.Error("delete of unknown TMDB id should fail")
	}
	if !strings.Contains(msg, "12345") {
		t.Errorf("failure message should name the TMDB id, got %q", msg)
	}
}

func TestRadarrDeleteMovieNotFound(t *testing.T) {
	srv, _ := newRadarrTestServer(t)
	defer srv.Close()
	c := NewRadarrClient(srv.URL, testAPIKey, 5*time.Second)

	ok, msg := c.DeleteMovie(context.Background(), 999, true)
	if ok {
		t.Error("missing movie should fail")
	}
	if !strings.Contains(msg, "not found") {
		t.Errorf("expected descriptive not-found message, got %q", msg)
	}
}

func TestRadarrTitleSlugs(t *testing.T) {
	srv, _ := newRadarrTestServer(t)
	defer srv.Close()
	c := NewRadarrClient(srv.URL, testAPIKey, 5*time.Second)

	slugs, err := c.TitleSlugs(context.Background())
	if err != nil {
		t.Fatalf("TitleSlugs: %v", err)
	}
	if slugs[603] != "the-matrix" || slugs[949] != "heat" {
		t.Errorf("unexpected slug map: %v", slugs)
	}
}

func TestSonarrDeleteByTmdbID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v3/series" && r.Method == http.MethodGet:
			w.Write([]byte(`[{"id":7,"title":"Dark","tmdbId":70523,"tvdbId":328487,"titleSlug":"dark"}]`))
		case r.URL.Path == "/api/v3/series/7" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewSonarrClient(srv.URL, testAPIKey, 5*time.Second)
	ok, msg := c.DeleteByTmdbID(context.Background(), 70523, true)
	if !ok {
		t.Errorf("series delete failed: %s", msg)
	}

	ok, _ = c.DeleteByTmdbID(context.Background(), 1, true)
	if ok {
		t.Error("unknown series should fail")
	}
}

func TestNormalizeBaseURLArr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://host:8080/", "http://host:8080"},
		{"http://host:8080///", "http://host:8080"},
		{" http://host ", "http://host"},
		{"http://host", "http://host"},
	}
	for _, tt := range tests {
		if got := normalizeBaseURL(tt.in); got != tt.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
