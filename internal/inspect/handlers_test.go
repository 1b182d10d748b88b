package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ferro-labs/ferrohooks"
)

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	r := ferrohooks.New(nil)
	err := r.Register(ferrohooks.Bundle{
		Key: "request.received",
		Run: []ferrohooks.RunFunc{
			func(_ context.Context, _ ferrohooks.Value, data any, _ *ferrohooks.SharedContext, _ *ferrohooks.PhaseContext) (any, error) {
				n, _ := data.(float64)
				return n * 2, nil
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &Handlers{Registry: r}
}

func TestListExtensionPoints(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/extension-points", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		ExtensionPoints []ExtensionPointInfo `json:"extension_points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.ExtensionPoints) != 1 || body.ExtensionPoints[0].Key != "request.received" {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.ExtensionPoints[0].RunCallbacks != 1 {
		t.Errorf("run callbacks = %d, want 1", body.ExtensionPoints[0].RunCallbacks)
	}
}

func TestGetExtensionPoint_NotFound(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/extension-points/unknown", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTriggerRun(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodPost, "/run/request.received", strings.NewReader("21"))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Key     string  `json:"key"`
		Present bool    `json:"present"`
		Result  float64 `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Present || body.Result != 42 {
		t.Errorf("unexpected run response: %+v", body)
	}
}

func TestTriggerRun_UnknownKey(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodPost, "/run/unknown", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListRuns_NotConfigured(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}
}

func TestRequireToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireToken("secret")(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}

	open := RequireToken("")(ok)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("empty configured token should disable auth: status = %d", rec.Code)
	}
}
