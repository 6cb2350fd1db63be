package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/leethint/credential"
	"github.com/longkey1/leethint/internal/leethint/prompt"
	"github.com/longkey1/leethint/internal/leethint/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sk-or-v1-0123456789abcdef"

type fakeSender struct {
	release chan struct{}
	calls   chan []leethint.Message
}

func (f *fakeSender) Send(ctx context.Context, model string, messages []leethint.Message, cred string) ([]byte, error) {
	if f.calls != nil {
		f.calls <- messages
	}
	if f.release != nil {
		<-f.release
	}
	return []byte(`{"choices":[{"message":{"role":"assistant","content":"Try a **hash map**."}}]}`), nil
}

func setupServer(t *testing.T, sender session.Sender) (*Server, *credential.Store) {
	t.Helper()
	store := credential.NewStore(credential.NewMemoryKV(), nil)
	srv := New(Config{
		Model:          leethint.DefaultModel,
		Language:       "C++",
		Prompt:         &prompt.Prompt{System: "{{problem_statement}}|{{programming_language}}|{{user_code}}"},
		AllowedOrigins: []string{"https://leetcode.com"},
	}, store, sender, nil)
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

type view struct {
	ID      string               `json:"id"`
	State   string               `json:"state"`
	Context leethint.Context     `json:"context"`
	Entries []leethint.ChatEntry `json:"entries"`
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) view {
	t.Helper()
	var v view
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, h http.Handler, body any) view {
	t.Helper()
	resp := do(t, h, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, resp.Code)
	return decodeView(t, resp)
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t, &fakeSender{})
	resp := do(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestCredentialEndpoints(t *testing.T) {
	srv, store := setupServer(t, &fakeSender{})
	h := srv.Handler()

	resp := do(t, h, http.MethodGet, "/api/credential", nil)
	assert.JSONEq(t, `{"configured":false,"masked":""}`, resp.Body.String())

	resp = do(t, h, http.MethodPut, "/api/credential", map[string]string{"apiKey": "sk-proj-nope"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"OpenRouter keys must start with sk-or-v1-"}`, resp.Body.String())

	resp = do(t, h, http.MethodPut, "/api/credential", map[string]string{"apiKey": testKey})
	assert.Equal(t, http.StatusNoContent, resp.Code)
	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, testKey, got)

	resp = do(t, h, http.MethodGet, "/api/credential", nil)
	assert.JSONEq(t, `{"configured":true,"masked":"sk-o...cdef"}`, resp.Body.String())

	resp = do(t, h, http.MethodPut, "/api/credential", map[string]string{"apiKey": "sk-or-v1-a b"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	got, _ = store.Load()
	assert.Equal(t, testKey, got, "rejected key must not replace the stored one")

	resp = do(t, h, http.MethodDelete, "/api/credential", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	_, ok = store.Load()
	assert.False(t, ok)
}

func TestCreateSession(t *testing.T) {
	srv, _ := setupServer(t, &fakeSender{})
	h := srv.Handler()

	v := createSession(t, h, map[string]string{
		"problemStatement": `<meta name="description" content="Two Sum">`,
	})
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "idle", v.State)
	assert.Equal(t, "Two Sum", v.Context.ProblemStatement)
	assert.Equal(t, "C++", v.Context.ProgrammingLanguage)
	assert.Empty(t, v.Entries)

	v = createSession(t, h, map[string]string{"problemStatement": "x", "language": "Go"})
	assert.Equal(t, "Go", v.Context.ProgrammingLanguage)

	resp := do(t, h, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUnknownSession(t *testing.T) {
	srv, _ := setupServer(t, &fakeSender{})
	h := srv.Handler()

	resp := do(t, h, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = do(t, h, http.MethodPost, "/api/sessions/nope/messages", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPostMessage(t *testing.T) {
	sender := &fakeSender{calls: make(chan []leethint.Message, 1)}
	srv, store := setupServer(t, sender)
	require.NoError(t, store.Save(testKey))
	h := srv.Handler()

	v := createSession(t, h, map[string]string{"problemStatement": "Two Sum", "code": "int a;"})

	resp := do(t, h, http.MethodPost, "/api/sessions/"+v.ID+"/messages", map[string]string{
		"text": "any hints?",
		"code": `<div class="view-line">int b;</div>`,
	})
	require.Equal(t, http.StatusAccepted, resp.Code)
	accepted := decodeView(t, resp)
	require.NotEmpty(t, accepted.Entries)
	assert.Equal(t, leethint.UserEntry("any hints?"), accepted.Entries[0])

	msgs := <-sender.calls
	assert.Equal(t, "Two Sum|C++|int b;", msgs[0].Content)

	assert.Eventually(t, func() bool {
		got := decodeView(t, do(t, h, http.MethodGet, "/api/sessions/"+v.ID, nil))
		return got.State == "idle" && len(got.Entries) == 2
	}, time.Second, 10*time.Millisecond)

	got := decodeView(t, do(t, h, http.MethodGet, "/api/sessions/"+v.ID, nil))
	assert.Equal(t, leethint.AssistantEntry("Try a **hash map**."), got.Entries[1])
}

func TestPostMessageKeepsAngleBrackets(t *testing.T) {
	sender := &fakeSender{calls: make(chan []leethint.Message, 1)}
	srv, store := setupServer(t, sender)
	require.NoError(t, store.Save(testKey))
	h := srv.Handler()

	statement := "Return indices i < j such that nums[i] + nums[j] > target."
	v := createSession(t, h, map[string]string{"problemStatement": statement})
	assert.Equal(t, statement, v.Context.ProblemStatement)

	code := "#include <vector>\nvector<int> twoSum(vector<int>& a) { return a; }"
	resp := do(t, h, http.MethodPost, "/api/sessions/"+v.ID+"/messages", map[string]string{"text": "q", "code": code})
	require.Equal(t, http.StatusAccepted, resp.Code)

	msgs := <-sender.calls
	assert.Equal(t, statement+"|C++|"+code, msgs[0].Content)
}

func TestPostMessageKeepsCodeWhenOmitted(t *testing.T) {
	sender := &fakeSender{calls: make(chan []leethint.Message, 1)}
	srv, store := setupServer(t, sender)
	require.NoError(t, store.Save(testKey))
	h := srv.Handler()

	v := createSession(t, h, map[string]string{"problemStatement": "p", "code": "int a;"})
	resp := do(t, h, http.MethodPost, "/api/sessions/"+v.ID+"/messages", map[string]string{"text": "q"})
	require.Equal(t, http.StatusAccepted, resp.Code)

	msgs := <-sender.calls
	assert.Equal(t, "p|C++|int a;", msgs[0].Content)
}

func TestPostMessageRejections(t *testing.T) {
	sender := &fakeSender{release: make(chan struct{})}
	srv, store := setupServer(t, sender)
	require.NoError(t, store.Save(testKey))
	h := srv.Handler()

	v := createSession(t, h, map[string]string{"problemStatement": "p"})
	path := "/api/sessions/" + v.ID + "/messages"

	resp := do(t, h, http.MethodPost, path, map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, h, http.MethodPost, path, map[string]string{"text": "first"})
	require.Equal(t, http.StatusAccepted, resp.Code)

	resp = do(t, h, http.MethodPost, path, map[string]string{"text": "second"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	close(sender.release)
	assert.Eventually(t, func() bool {
		got := decodeView(t, do(t, h, http.MethodGet, "/api/sessions/"+v.ID, nil))
		return got.State == "idle"
	}, time.Second, 10*time.Millisecond)

	got := decodeView(t, do(t, h, http.MethodGet, "/api/sessions/"+v.ID, nil))
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "first", got.Entries[0].Text)
}

func TestMissingCredentialProducesErrorEntry(t *testing.T) {
	srv, _ := setupServer(t, &fakeSender{})
	h := srv.Handler()

	v := createSession(t, h, map[string]string{"problemStatement": "p"})
	resp := do(t, h, http.MethodPost, "/api/sessions/"+v.ID+"/messages", map[string]string{"text": "hi"})
	require.Equal(t, http.StatusAccepted, resp.Code)

	assert.Eventually(t, func() bool {
		got := decodeView(t, do(t, h, http.MethodGet, "/api/sessions/"+v.ID, nil))
		return len(got.Entries) == 2 && got.Entries[1] == leethint.ErrorEntry(session.ErrorText)
	}, time.Second, 10*time.Millisecond)
}

func TestCORSAllowedOrigin(t *testing.T) {
	srv, _ := setupServer(t, &fakeSender{})

	req := httptest.NewRequest(http.MethodOptions, "/api/credential", nil)
	req.Header.Set("Origin", "https://leetcode.com")
	resp := httptest.NewRecorder()
	srv.Handler().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "https://leetcode.com", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestCORSRejectsOtherOrigins(t *testing.T) {
	srv, store := setupServer(t, &fakeSender{})
	require.NoError(t, store.Save(testKey))
	h := srv.Handler()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodOptions, "/api/credential", ""},
		{http.MethodPut, "/api/credential", `{"apiKey":"sk-or-v1-attacker"}`},
		{http.MethodDelete, "/api/credential", ""},
		{http.MethodGet, "/api/credential", ""},
		{http.MethodPost, "/api/sessions", `{"problemStatement":"p"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Origin", "https://evil.example")
			req.Header.Set("Content-Type", "text/plain")
			resp := httptest.NewRecorder()
			h.ServeHTTP(resp, req)

			assert.Equal(t, http.StatusForbidden, resp.Code)
			assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, testKey, got)
	assert.Empty(t, srv.sessions.sessions)
}

func TestRequestWithoutOriginIsServed(t *testing.T) {
	srv, _ := setupServer(t, &fakeSender{})
	resp := do(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestOversizedBodyIsRejected(t *testing.T) {
	srv, store := setupServer(t, &fakeSender{})
	h := srv.Handler()

	huge := `{"apiKey":"` + "sk-or-v1-" + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/credential", strings.NewReader(huge))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	_, ok := store.Load()
	assert.False(t, ok)

	v := createSession(t, h, map[string]string{"problemStatement": "p"})
	resp = do(t, h, http.MethodPost, "/api/sessions/"+v.ID+"/messages", map[string]string{
		"text": "q",
		"code": strings.Repeat("x", maxBodyBytes),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Equal(t, 0, srv.sessions.sessions[v.ID].session.Len())
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, _ := setupServer(t, &fakeSender{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
