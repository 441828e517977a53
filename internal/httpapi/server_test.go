package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"modelhost/internal/app"
	"modelhost/internal/engine"
	"modelhost/internal/events"
	"modelhost/internal/supervisor"
	"modelhost/pkg/types"
)

type mockService struct {
	models      []types.Model
	status      types.StatusResponse
	ready       bool
	installErr  error
	launchPort  int
	launchErr   error
	loadErr     error
	generateErr error
	tokens      []string
}

func (m *mockService) Models() []types.Model { return append([]types.Model(nil), m.models...) }

func (m *mockService) Resolve(id string) (types.Model, error) {
	for _, md := range m.models {
		if md.ID == id {
			return md, nil
		}
	}
	return types.Model{}, app.ErrNotFound(id)
}

func (m *mockService) Install(ctx context.Context, id string, sink events.Sink) error {
	if m.installErr != nil {
		sink.InstallProgress(types.InstallProgress{ModelID: id, Status: types.InstallStatusError, Message: m.installErr.Error()})
		return m.installErr
	}
	sink.InstallProgress(types.InstallProgress{ModelID: id, Status: types.InstallStatusDownloading, Progress: 50})
	sink.InstallProgress(types.InstallProgress{ModelID: id, Status: types.InstallStatusCompleted, Progress: 100})
	return nil
}

func (m *mockService) Launch(ctx context.Context, id string) (int, error) {
	if _, err := m.Resolve(id); err != nil {
		return 0, err
	}
	return m.launchPort, m.launchErr
}

func (m *mockService) Load(id string) error { return m.loadErr }

func (m *mockService) Generate(ctx context.Context, prompt string, sink events.Sink) error {
	if m.generateErr != nil {
		return m.generateErr
	}
	for _, tok := range m.tokens {
		sink.ChatToken(types.ChatToken{Token: tok})
	}
	sink.ChatFinished(types.ChatFinished{Reason: types.FinishEOS})
	return nil
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}, {ID: "m2"}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 {
		t.Fatalf("models len=%d", len(body.Models))
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{EngineModel: "m1", EngineReady: true}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.EngineModel != "m1" || !body.EngineReady {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestInstallStreamsProgress(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}}}
	r := NewMux(svc)
	w := postJSON(t, r, "/install", `{"model":"m1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/x-ndjson") {
		t.Fatalf("content-type=%s", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 ndjson lines, got %d: %q", len(lines), w.Body.String())
	}
	var last types.InstallProgress
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
		t.Fatalf("json: %v", err)
	}
	if last.Status != types.InstallStatusCompleted || last.Progress != 100 {
		t.Fatalf("unexpected terminal event: %+v", last)
	}
}

func TestInstallUnknownModel404(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := postJSON(t, r, "/install", `{"model":"nope"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusNotFound {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestInstallModelRequired(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	if w := postJSON(t, r, "/install", `{"model":"  "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestLaunchReturnsPort(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}}, launchPort: 43817}
	r := NewMux(svc)
	w := postJSON(t, r, "/launch", `{"model":"m1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.LaunchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Port != 43817 {
		t.Fatalf("port=%d", body.Port)
	}
}

func TestLaunchErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not installed", supervisor.ErrModelNotInstalled("m1"), http.StatusNotFound},
		{"spawn", supervisor.ErrSpawn("boom"), http.StatusBadGateway},
		{"health timeout", supervisor.ErrHealthTimeout("no health"), http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{models: []types.Model{{ID: "m1"}}, launchErr: tc.err}
			r := NewMux(svc)
			w := postJSON(t, r, "/launch", `{"model":"m1"}`)
			if w.Code != tc.want {
				t.Fatalf("status=%d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestLoadHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}}}
	r := NewMux(svc)
	w := postJSON(t, r, "/load", `{"model":"m1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.LoadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Model != "m1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestLoadEngineUnavailable503(t *testing.T) {
	svc := &mockService{loadErr: engine.ErrEngineUnavailable("not built")}
	r := NewMux(svc)
	if w := postJSON(t, r, "/load", `{"model":"m1"}`); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGenerateStreamsTokens(t *testing.T) {
	svc := &mockService{tokens: []string{"Hello", " world"}}
	r := NewMux(svc)
	w := postJSON(t, r, "/generate", `{"prompt":"hi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/x-ndjson") {
		t.Fatalf("content-type=%s", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 ndjson lines, got %d: %q", len(lines), w.Body.String())
	}
	var fin types.ChatFinished
	if err := json.Unmarshal([]byte(lines[2]), &fin); err != nil {
		t.Fatalf("json: %v", err)
	}
	if fin.Reason != types.FinishEOS {
		t.Fatalf("unexpected finish: %+v", fin)
	}
}

func TestGenerateNoModel503(t *testing.T) {
	svc := &mockService{generateErr: engine.ErrEngineUnavailable("no model loaded")}
	r := NewMux(svc)
	w := postJSON(t, r, "/generate", `{"prompt":"hi"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
}

func TestGeneratePromptRequired(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	if w := postJSON(t, r, "/generate", `{"prompt":"   "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGenerateBadJSON(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	if w := postJSON(t, r, "/generate", "not-json"); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGenerateUnsupportedMediaType(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(`{"prompt":"hi"}`))
	req.Header.Set("Content-Type", "text/plain")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGenerateBodyTooLarge(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	big := make([]byte, (1<<20)+10)
	for i := range big {
		big[i] = 'a'
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too-large body, got %d", w.Code)
	}
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}}, launchPort: 1}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/launch", bytes.NewBufferString(`{"model":"m1"}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with mixed-case content-type, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)

	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected Access-Control-Allow-Origin to be set")
	}
}
