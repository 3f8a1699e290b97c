package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pario-ai/dishcache/pkg/models"
)

func TestAnalyze(t *testing.T) {
	var gotBody analyzeBody
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != analyzePath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fodmap":{"level":"low"}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, APIKey: "secret"}, nil)
	raw, err := c.Analyze(context.Background(), models.AnalyzeRequest{DishName: "Pad Thai", PlaceID: "p9"})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"fodmap":{"level":"low"}}` {
		t.Errorf("unexpected payload %s", raw)
	}
	if gotBody.DishName != "Pad Thai" || gotBody.PlaceID != "p9" {
		t.Errorf("unexpected body %+v", gotBody)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected a request id")
	}
}

func TestAnalyzeNoKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("expected no auth header, got %q", h)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := New(Options{BaseURL: srv.URL}, nil).Analyze(context.Background(), models.AnalyzeRequest{DishName: "x"}); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such dish", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(Options{BaseURL: srv.URL}, nil).Analyze(context.Background(), models.AnalyzeRequest{DishName: "x"})
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := New(Options{BaseURL: srv.URL}, nil).Analyze(context.Background(), models.AnalyzeRequest{DishName: "x"})
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
}
