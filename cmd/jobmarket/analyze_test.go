package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// withFlags sets the package-level flag values for one test.
func withFlags(t *testing.T, path string, strictMode bool) {
	t.Helper()
	oldPath, oldStrict, oldPager := cfgPath, strict, usePager
	cfgPath, strict, usePager = path, strictMode, false
	t.Cleanup(func() { cfgPath, strict, usePager = oldPath, oldStrict, oldPager })
}

func writeConfig(t *testing.T, searchURL, aiURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "search:\n  base_url: " + searchURL + "\n  api_key: rapid-key\n" +
		"analysis:\n  base_url: " + aiURL + "\n  api_key: openai-key\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func failingUpstreams(t *testing.T) (search, completion *httptest.Server) {
	t.Helper()
	search = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	completion = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	}))
	t.Cleanup(search.Close)
	t.Cleanup(completion.Close)
	return search, completion
}

func TestRunAnalyze_ConfigErrorIsReturned(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), false)

	err := runAnalyze(analyzeCmd, nil)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestRunAnalyze_StrictReturnsAnalysisError(t *testing.T) {
	search, completion := failingUpstreams(t)
	withFlags(t, writeConfig(t, search.URL, completion.URL), true)

	err := runAnalyze(analyzeCmd, nil)
	if err == nil {
		t.Fatal("expected strict mode to fail on a completion error")
	}
}

func TestRunAnalyze_DegradesWithoutStrict(t *testing.T) {
	search, completion := failingUpstreams(t)
	withFlags(t, writeConfig(t, search.URL, completion.URL), false)

	if err := runAnalyze(analyzeCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCheck_ConfigErrorIsReturned(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), false)

	if err := runCheck(checkCmd, nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
