package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/algotrace"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/observability"
	"github.com/aretw0/algotrace/pkg/permalink"
	"github.com/aretw0/algotrace/pkg/playback"
	"github.com/aretw0/algotrace/pkg/session"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(session.WithPlayerOptions(playback.WithClock(playback.NewManualClock())))
	t.Cleanup(mgr.CloseAll)
	h, err := NewHandler(algotrace.New(), append([]Option{WithSessions(mgr)}, opts...)...)
	require.NoError(t, err)
	return h, mgr
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func openSession(t *testing.T, h http.Handler, body string) SessionStatus {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[SessionStatus](t, w)
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "algotrace API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/events"))
	assert.Contains(t, doc.Components.Schemas, "BuildRequest")
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", "")
	info := decodeBody[map[string]string](t, w)
	assert.Equal(t, "algotrace-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.Equal(t, strings.TrimSpace(algotrace.Version), info["version"])
}

func TestOpenAPIAndSwagger(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, http.MethodGet, "/swagger", "")
	assert.Contains(t, w.Body.String(), "swagger-ui")
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodOptions, "/runs", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAlgorithms(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/algorithms", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]algorithms.Definition](t, w)
	assert.Len(t, list, len(algorithms.All()))
	assert.Equal(t, algorithms.All()[0].ID, list[0].ID)

	w = do(t, h, http.MethodGet, "/algorithms/bfs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Graphs", decodeBody[algorithms.Definition](t, w).Category)

	w = do(t, h, http.MethodGet, "/algorithms/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildRun(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"Default Input", `{"algorithmId":"bubble-sort"}`, http.StatusOK},
		{"Custom Input", `{"algorithmId":"bfs","input":{"graph":{"nodes":["A","B"],"edges":[["A","B"]]}}}`, http.StatusOK},
		{"Unknown Algorithm", `{"algorithmId":"bogo-sort"}`, http.StatusNotFound},
		{"Missing Algorithm", `{"input":{}}`, http.StatusBadRequest},
		{"Wrong Type", `{"algorithmId":"bubble-sort","input":{"array":["x"]}}`, http.StatusBadRequest},
		{"Fractional Integer", `{"algorithmId":"climb-stairs","input":{"n":2.5}}`, http.StatusBadRequest},
		{"Malformed JSON", `{"algorithmId":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/runs", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := do(t, h, http.MethodPost, "/runs", `{"algorithmId":"bubble-sort","input":{"array":[5,1,4,2,8,3]}}`)
	run := decodeBody[domain.Run](t, w)
	assert.Equal(t, "bubble-sort", run.Algorithm)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 8}, run.Final().Array)
}

func TestPermalink(t *testing.T) {
	h, _ := newTestHandler(t, WithBaseURL("https://example.test/app"))

	w := do(t, h, http.MethodPost, "/permalink", `{"algorithmId":"two-sum","input":{"array":[3,3],"target":6}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[PermalinkResponse](t, w)
	assert.Equal(t, permalink.Encode("two-sum", domain.Input{Array: []int{3, 3}, Target: domain.IntPtr(6)}), resp.State)
	assert.True(t, strings.HasPrefix(resp.URL, "https://example.test/app?state="))

	w = do(t, h, http.MethodGet, "/permalink?state="+url.QueryEscape(resp.State), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decodeBody[permalink.Payload](t, w)
	assert.Equal(t, "two-sum", p.AlgorithmID)
	assert.Equal(t, []int{3, 3}, p.Input.Array)

	w = do(t, h, http.MethodGet, "/permalink?state=%25%25%25", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/permalink", `{"algorithmId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_Lifecycle(t *testing.T) {
	h, mgr := newTestHandler(t)

	st := openSession(t, h, `{"algorithmId":"stack","input":{"stack":[1,2]},"speed":2,"loop":true}`)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, "stack", st.AlgorithmID)
	assert.Equal(t, -1, st.Emission.Index)
	assert.Equal(t, 3, st.Emission.Total)
	assert.Equal(t, 2.0, st.Speed)
	assert.True(t, st.Loop)
	assert.Equal(t, []string{st.ID}, mgr.List())

	w := do(t, h, http.MethodGet, "/sessions", "")
	assert.JSONEq(t, `{"sessions":["`+st.ID+`"]}`, w.Body.String())

	base := "/sessions/" + st.ID
	w = do(t, h, http.MethodPost, base+"/forward", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeBody[SessionStatus](t, w).Emission.Index)

	do(t, h, http.MethodPost, base+"/forward", "")
	w = do(t, h, http.MethodPost, base+"/backward", "")
	assert.Equal(t, 0, decodeBody[SessionStatus](t, w).Emission.Index)

	w = do(t, h, http.MethodPost, base+"/play", "")
	assert.Equal(t, playback.Playing.String(), decodeBody[SessionStatus](t, w).State)
	w = do(t, h, http.MethodPost, base+"/pause", "")
	assert.Equal(t, playback.Paused.String(), decodeBody[SessionStatus](t, w).State)

	w = do(t, h, http.MethodPost, base+"/reset", "")
	st = decodeBody[SessionStatus](t, w)
	assert.Equal(t, -1, st.Emission.Index)
	assert.Equal(t, playback.Idle.String(), st.State)

	w = do(t, h, http.MethodPut, base+"/speed", `{"speed":10}`)
	assert.Equal(t, playback.MaxSpeed, decodeBody[SessionStatus](t, w).Speed)
	w = do(t, h, http.MethodPut, base+"/speed", `{"speed":"fast"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, base+"/loop", `{"loop":false}`)
	assert.False(t, decodeBody[SessionStatus](t, w).Loop)

	w = do(t, h, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, http.MethodPost, base+"/forward", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_OpenErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", `{"algorithmId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/sessions", `{"algorithmId":"bfs","loop":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/sessions/missing/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// readEvent returns the next SSE event name and data.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if name != "" || data != "" {
				return name, data
			}
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestSubscribeEvents_Stream(t *testing.T) {
	h, mgr := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	st := openSession(t, h, `{"algorithmId":"queue"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+st.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	name, data := readEvent(t, reader)
	assert.Equal(t, "ping", name)
	assert.Equal(t, "connected", data)
	require.Equal(t, 1, mgr.Subscribers(st.ID))

	post, err := http.Post(srv.URL+"/sessions/"+st.ID+"/forward", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	post.Body.Close()

	name, data = readEvent(t, reader)
	assert.Equal(t, session.EventStep, name)
	var ev session.Event
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	require.NotNil(t, ev.Emission)
	assert.Equal(t, 0, ev.Emission.Index)
	assert.Equal(t, []int{7}, ev.Emission.State.Queue)

	require.NoError(t, mgr.Close(st.ID))
	name, _ = readEvent(t, reader)
	assert.Equal(t, "close", name)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewCollector()
	mgr := session.NewManager(session.WithMetrics(metrics))
	t.Cleanup(mgr.CloseAll)
	h, err := NewHandler(algotrace.New(algotrace.WithMetrics(metrics)), WithSessions(mgr), WithMetrics(metrics))
	require.NoError(t, err)

	openSession(t, h, `{"algorithmId":"bubble-sort"}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `algotrace_runs_built_total{algorithm="bubble-sort"} 1`)
	assert.Contains(t, body, "algotrace_sessions_active 1")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAlgorithmNotFound, http.StatusNotFound},
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrInvalidPermalink, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
