package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/cache"
	"github.com/matzehuels/gitmaster/pkg/integrations"
	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
	"github.com/matzehuels/gitmaster/pkg/store"
)

func fakeGitHub() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/app":
			w.Write([]byte(`{"name": "app", "full_name": "octo/app", "owner": {"login": "octo"},
				"description": "Demo app", "default_branch": "main"}`))
		case "/repos/octo/app/git/trees/main":
			w.Write([]byte(`{"sha": "t1", "tree": [
				{"path": "package.json", "type": "blob", "size": 50},
				{"path": "src", "type": "tree"},
				{"path": "src/index.js", "type": "blob", "size": 30}
			]}`))
		case "/repos/octo/app/contents/package.json":
			w.Write([]byte(`{"dependencies": {"express": "4.18.2"}}`))
		case "/repos/octo/limited":
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusForbidden)
		case "/rate_limit":
			w.Write([]byte(`{"resources": {"core": {"limit": 60, "remaining": 59, "reset": 1700000000}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gh := fakeGitHub()
	t.Cleanup(gh.Close)

	client := ghapi.NewClient("", ghapi.WithBaseURL(gh.URL),
		ghapi.WithHTTPOptions(integrations.WithRetry(1, time.Millisecond)))
	runner := analysis.NewRunner(cache.NewNullCache(), nil, store.NewMemoryStore(), nil)
	srv := New(runner, client, nil, Config{Version: "test"})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

func do(t *testing.T, method, url, body string) (int, response) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, resp := do(t, http.MethodGet, ts.URL+"/health", "")
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("GET /health = %d %+v", status, resp)
	}
	var data healthResponse
	json.Unmarshal(resp.Data, &data)
	if data.Status != "ok" || data.Version != "test" {
		t.Errorf("health data = %+v", data)
	}
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t)

	status, resp := do(t, http.MethodPost, ts.URL+"/api/analyze", `{"url": "https://github.com/octo/app"}`)
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("POST /api/analyze = %d %+v", status, resp.Error)
	}
	var res analysis.Result
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.ID == "" || res.Repository == nil || res.Repository.FullName != "octo/app" {
		t.Errorf("result = id:%q repo:%+v", res.ID, res.Repository)
	}
	if res.Dependencies.TotalCount != 1 || res.Insight.ProjectType != "Backend Service / API" {
		t.Errorf("result deps=%d type=%q", res.Dependencies.TotalCount, res.Insight.ProjectType)
	}

	status, resp = do(t, http.MethodGet, ts.URL+"/api/analyses/"+res.ID, "")
	if status != http.StatusOK || !resp.Success {
		t.Errorf("GET stored analysis = %d %+v", status, resp.Error)
	}

	status, resp = do(t, http.MethodGet, ts.URL+"/api/analyses?repository=octo/app", "")
	var recs []store.Record
	json.Unmarshal(resp.Data, &recs)
	if status != http.StatusOK || len(recs) != 1 || recs[0].ID != res.ID {
		t.Errorf("GET /api/analyses = %d %v", status, recs)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing url", `{}`, http.StatusBadRequest, "MISSING_URL"},
		{"blank url", `{"url": "  "}`, http.StatusBadRequest, "MISSING_URL"},
		{"invalid url", `{"url": "not-a-repo"}`, http.StatusBadRequest, "INVALID_URL"},
		{"bad json", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown repo", `{"url": "octo/missing"}`, http.StatusNotFound, "NOT_FOUND"},
		{"rate limited", `{"url": "octo/limited"}`, http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := do(t, http.MethodPost, ts.URL+"/api/analyze", tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if resp.Success || resp.Error == nil || string(resp.Error.Code) != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t)
	status, resp := do(t, http.MethodGet, ts.URL+"/api/analyze/status", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var data statusResponse
	json.Unmarshal(resp.Data, &data)
	if data.Authenticated || data.RateLimit == nil || data.RateLimit.Remaining != 59 {
		t.Errorf("status data = %+v", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ts := newTestServer(t)
	status, resp := do(t, http.MethodGet, ts.URL+"/api/analyses/nope", "")
	if status != http.StatusNotFound || resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("GET unknown analysis = %d %+v", status, resp.Error)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := New(analysis.NewRunner(nil, nil, nil, nil), ghapi.NewClient(""), nil, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
