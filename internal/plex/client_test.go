package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const sectionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="2">
  <Directory key="1" type="movie" title="Movies"/>
  <Directory key="2" type="show" title="TV Shows"/>
</MediaContainer>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "token123", nil)
}

func TestSections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Plex-Token"); got != "token123" {
			t.Errorf("X-Plex-Token = %q", got)
		}
		fmt.Fprint(w, sectionsXML)
	})

	sections, err := client.Sections(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %+v", sections)
	}
	if sections[0].Key != "1" || sections[0].Title != "Movies" {
		t.Fatalf("got %+v", sections[0])
	}
}

func TestRefresh(t *testing.T) {
	var refreshed atomic.Bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			fmt.Fprint(w, sectionsXML)
		case "/library/sections/2/refresh":
			refreshed.Store(true)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	// Library name match is case-insensitive.
	if err := client.Refresh(context.Background(), "tv shows"); err != nil {
		t.Fatal(err)
	}
	if !refreshed.Load() {
		t.Fatal("refresh endpoint not hit")
	}
}

func TestRefreshUnknownLibrary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sectionsXML)
	})

	err := client.Refresh(context.Background(), "Anime")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSectionsCached(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/library/sections" {
			calls.Add(1)
		}
		fmt.Fprint(w, sectionsXML)
	})

	for i := 0; i < 3; i++ {
		if _, err := client.Sections(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("sections fetched %d times", got)
	}
}

func TestSignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/sign_in.xml" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("X-Plex-Client-Identifier") == "" {
			t.Error("missing client identifier")
		}
		fmt.Fprint(w, `<user authenticationToken="newtoken"/>`)
	}))
	defer server.Close()

	client := New("", "", nil, WithSignInURL(server.URL))
	token, err := client.SignIn(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if token != "newtoken" {
		t.Fatalf("token = %q", token)
	}
}

func TestServer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<MediaContainer friendlyName="den" version="1.40.0" platform="Linux"/>`)
	})

	info, err := client.Server(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "den" || info.Version != "1.40.0" {
		t.Fatalf("got %+v", info)
	}
}

func TestNotConfigured(t *testing.T) {
	client := New("", "", nil)
	if _, err := client.Sections(context.Background()); err != ErrNotConfigured {
		t.Fatalf("got %v", err)
	}
	if err := client.Refresh(context.Background(), "Movies"); err != ErrNotConfigured {
		t.Fatalf("got %v", err)
	}
}
