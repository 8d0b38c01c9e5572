package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchStringSendsBrowserHeaders(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	client := NewClient(BrowserClient)
	body, err := client.FetchString(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchString failed: %v", err)
	}

	if body != "<html>ok</html>" {
		t.Errorf("Unexpected body: %q", body)
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("Expected browser-like User-Agent, got %q", gotUA)
	}
}

func TestFetchStringNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(BrowserClient)
	if _, err := client.FetchString(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 403 response, got nil")
	}
}

func TestFetchStringTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	client := NewClientWithTimeout(BrowserClient, 20*time.Millisecond)
	if _, err := client.FetchString(context.Background(), server.URL); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestFetchStringContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(BrowserClient)
	if _, err := client.FetchString(ctx, server.URL); err == nil {
		t.Fatal("Expected context deadline error, got nil")
	}
}
