package tvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, "test-key", nil)
	if err != nil {
		t.Fatal(err)
	}
	return server, client
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatal(err)
	}
}

func TestSearchSeries(t *testing.T) {
	var loggedIn atomic.Bool
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var req loginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey != "test-key" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			loggedIn.Store(true)
			writeJSON(t, w, map[string]any{"data": map[string]string{"token": "tok123"}})
		case "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
				t.Errorf("Authorization = %q", got)
			}
			if got := r.URL.Query().Get("query"); got != "Twin Peaks" {
				t.Errorf("query = %q", got)
			}
			writeJSON(t, w, map[string]any{"data": []map[string]string{
				{"tvdb_id": "not-a-series", "name": "Movie", "type": "movie"},
				{"tvdb_id": "70533", "name": "Twin Peaks", "year": "1990", "type": "series"},
			}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	series, err := client.SearchSeries(context.Background(), "Twin Peaks")
	if err != nil {
		t.Fatal(err)
	}
	if !loggedIn.Load() {
		t.Fatal("expected login before search")
	}
	if series.ID != 70533 || series.Name != "Twin Peaks" {
		t.Fatalf("got %+v", series)
	}
}

func TestSearchSeriesNotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			writeJSON(t, w, map[string]any{"data": map[string]string{"token": "tok"}})
		case "/search":
			writeJSON(t, w, map[string]any{"data": []map[string]string{}})
		}
	})

	_, err := client.SearchSeries(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSeasonEpisodesPagination(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/login":
			writeJSON(t, w, map[string]any{"data": map[string]string{"token": "tok"}})
		case r.URL.Path == "/series/70533/episodes/default":
			page := r.URL.Query().Get("page")
			if page == "0" {
				writeJSON(t, w, map[string]any{
					"data": map[string]any{"episodes": []map[string]any{
						{"id": 2, "seasonNumber": 1, "number": 2, "name": "Traces to Nowhere"},
						{"id": 99, "seasonNumber": 2, "number": 1, "name": "Wrong Season"},
					}},
					"links": map[string]string{"next": "/series/70533/episodes/default?page=1"},
				})
				return
			}
			writeJSON(t, w, map[string]any{
				"data": map[string]any{"episodes": []map[string]any{
					{"id": 1, "seasonNumber": 1, "number": 1, "name": "Pilot"},
				}},
				"links": map[string]string{"next": ""},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	episodes, err := client.SeasonEpisodes(context.Background(), 70533, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(episodes) != 2 {
		t.Fatalf("got %d episodes: %+v", len(episodes), episodes)
	}
	if episodes[0].EpisodeNumber != 1 || episodes[0].Title != "Pilot" {
		t.Fatalf("episodes not sorted: %+v", episodes)
	}
	if episodes[1].EpisodeNumber != 2 {
		t.Fatalf("got %+v", episodes[1])
	}
}

func TestAuthenticationCached(t *testing.T) {
	var logins atomic.Int32
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			logins.Add(1)
			writeJSON(t, w, map[string]any{"data": map[string]string{"token": "tok"}})
		case "/search":
			writeJSON(t, w, map[string]any{"data": []map[string]string{
				{"tvdb_id": "1", "name": "x", "type": "series"},
			}})
		}
	})

	for i := 0; i < 3; i++ {
		if _, err := client.SearchSeries(context.Background(), fmt.Sprintf("q%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	if got := logins.Load(); got != 1 {
		t.Fatalf("expected a single login, got %d", got)
	}
}

func TestMissingAPIKey(t *testing.T) {
	client, err := New("https://example.invalid", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.SearchSeries(context.Background(), "x"); err != ErrAPIKeyMissing {
		t.Fatalf("got %v", err)
	}
}
