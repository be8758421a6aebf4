package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/amishk599/jobmarket/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleAnalysis(text string) model.Analysis {
	return model.Analysis{
		Topic:    "Sustainable finance",
		JobCount: 3,
		Text:     text,
	}
}

func TestSlackNotifier_SingleMessage(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleAnalysis("Roles cluster around ESG reporting.")); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Blocks) != 4 {
		t.Fatalf("expected header, context, section, divider; got %d blocks", len(payload.Blocks))
	}
	if got := payload.Blocks[0].Text.Text; got != "Job market analysis: Sustainable finance" {
		t.Errorf("header text = %q", got)
	}
	if got := payload.Blocks[1].Elements[0].Text; got != "Based on 3 job postings" {
		t.Errorf("context text = %q", got)
	}
	if got := payload.Blocks[2].Text.Text; got != "Roles cluster around ESG reporting." {
		t.Errorf("section text = %q", got)
	}
	if payload.Blocks[3].Type != "divider" {
		t.Errorf("last block = %q, want divider", payload.Blocks[3].Type)
	}
}

func TestSlackNotifier_ErrorVariantIsLabelled(t *testing.T) {
	a := sampleAnalysis("error, status code: 401")
	a.Err = errors.New("error, status code: 401")

	payloads := buildPayloads(a)
	if got := payloads[0].Blocks[1].Elements[0].Text; !strings.Contains(got, "failed") {
		t.Errorf("context text = %q, want failure label", got)
	}
}

func TestSlackNotifier_SplitsLongAnalysis(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	line := strings.Repeat("x", 99) + "\n"
	text := strings.Repeat(line, 30*50) // 150k chars -> 50 sections

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleAnalysis(text)); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 messages, got %d", c)
	}
}

func TestSlackNotifier_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	err := n.Notify(context.Background(), sampleAnalysis("text"))
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected HTTPError 500, got %v", err)
	}
}

func TestSendTestMessage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := SendTestMessage(context.Background(), n); err != nil {
		t.Fatalf("SendTestMessage() = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestChunkText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  []string
	}{
		{name: "empty", input: "", limit: 10, want: nil},
		{name: "fits", input: "short", limit: 10, want: []string{"short"}},
		{name: "splits on newline", input: "aaaa\nbbbb\ncccc", limit: 10, want: []string{"aaaa\nbbbb", "cccc"}},
		{name: "hard split without newline", input: "abcdefghij", limit: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "multibyte runes", input: "ééééé", limit: 2, want: []string{"éé", "éé", "é"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := chunkText(tc.input, tc.limit)
			if len(got) != len(tc.want) {
				t.Fatalf("chunkText(%q, %d) = %q, want %q", tc.input, tc.limit, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tc.want[i])
				}
				if utf8.RuneCountInString(got[i]) > tc.limit {
					t.Errorf("chunk %d exceeds limit: %q", i, got[i])
				}
			}
		})
	}
}
