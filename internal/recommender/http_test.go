package recommender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

func TestRankDecodesOrderedItems(t *testing.T) {
	var gotQuery Query
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rank" {
			t.Errorf("path = %s, want /rank", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotQuery); err != nil {
			t.Errorf("decode query: %v", err)
		}
		json.NewEncoder(w).Encode(rankResponse{Items: []ItemRef{
			{Kind: "news", ID: 3},
			{Kind: "article", ID: 1},
		}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	viewer := uint(7)
	refs, err := c.Rank(context.Background(), Query{UserID: &viewer, Limit: 10, Mode: ModePersonalized})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(refs) != 2 || refs[0].Kind != "news" || refs[1].ID != 1 {
		t.Fatalf("Rank() = %+v", refs)
	}
	if gotQuery.UserID == nil || *gotQuery.UserID != 7 {
		t.Fatalf("query user_id = %v, want 7", gotQuery.UserID)
	}
	if gotQuery.Mode != ModePersonalized {
		t.Fatalf("query mode = %s, want personalized", gotQuery.Mode)
	}
}

func TestRankUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.Rank(context.Background(), Query{Limit: 10})
	if !utils.IsUpstream(err) {
		t.Fatalf("Rank() error = %v, want upstream", err)
	}
}

func TestRankBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := c.Rank(ctx, Query{Limit: 10}); err == nil {
			t.Fatalf("Rank() #%d succeeded against a failing upstream", i)
		}
	}

	// Once open, the breaker fails fast without reaching the server.
	if requests >= 10 {
		t.Fatalf("breaker never opened: %d requests reached the upstream", requests)
	}
}

func TestSendFeedbackPostsPayload(t *testing.T) {
	var got Feedback
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feedback" {
			t.Errorf("path = %s, want /feedback", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	fb := Feedback{Reaction: "like", UserID: 7, Target: models.Ref{Kind: "article", ID: 42}, Timestamp: 1700000000}
	if err := c.SendFeedback(context.Background(), fb); err != nil {
		t.Fatalf("SendFeedback() error = %v", err)
	}
	if got != fb {
		t.Fatalf("posted feedback = %+v, want %+v", got, fb)
	}
}

func TestDeleteItemMarksDeleted(t *testing.T) {
	var got struct {
		Target  models.Ref `json:"target"`
		Deleted bool       `json:"deleted"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	target := models.Ref{Kind: "article", ID: 42}
	if err := c.DeleteItem(context.Background(), target); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if got.Target != target || !got.Deleted {
		t.Fatalf("posted = %+v, want deleted target", got)
	}
}
