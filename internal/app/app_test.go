package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/vibechat/service/internal/config"
	"github.com/vibechat/service/internal/db"
)

func newTestEngine(t *testing.T) http.Handler {
	t.Helper()
	conn, errOpen := db.Open("file:" + filepath.Join(t.TempDir(), "app.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	cfg := config.Config{
		BaseURL:        "https://vibechat.app",
		AllowedOrigins: []string{"*"},
		RateLimit:      1000,
		JWT:            config.JWTConfig{Secret: "test-secret", Expiry: time.Hour},
		AI:             config.AIConfig{DefaultModel: "gpt-3.5-turbo"},
	}
	return NewEngine(conn, cfg)
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if errEncode := json.NewEncoder(&buf).Encode(body); errEncode != nil {
			t.Fatalf("encode: %v", errEncode)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), errDecode)
	}
	return w.Code, out
}

func TestEngine_ServiceMetadata(t *testing.T) {
	h := newTestEngine(t)

	status, resp := do(t, h, http.MethodGet, "/", nil)
	if status != http.StatusOK {
		t.Fatalf("root: status %d resp %v", status, resp)
	}
	if resp["message"] != "VibeChat AI Service" || resp["version"] != "1.0.0" || resp["status"] != "running" {
		t.Fatalf("unexpected root payload %v", resp)
	}

	status, resp = do(t, h, http.MethodGet, "/health", nil)
	if status != http.StatusOK {
		t.Fatalf("health: status %d resp %v", status, resp)
	}
	if resp["status"] != "healthy" {
		t.Fatalf("health payload %v", resp)
	}
}

func TestEngine_RegisterCreateRoomFetchByCode(t *testing.T) {
	h := newTestEngine(t)

	status, resp := do(t, h, http.MethodPost, "/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: status %d resp %v", status, resp)
	}
	user, _ := resp["user"].(map[string]any)
	userID, _ := user["user_id"].(string)

	status, resp = do(t, h, http.MethodPost, "/rooms", map[string]any{
		"name":    "Alice's Room",
		"user_id": userID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create room: status %d resp %v", status, resp)
	}
	room, _ := resp["room"].(map[string]any)
	code, _ := room["room_code"].(string)
	if len(code) != 8 {
		t.Fatalf("room_code %q", code)
	}

	status, resp = do(t, h, http.MethodGet, "/rooms/code/"+code, nil)
	if status != http.StatusOK {
		t.Fatalf("get by code: status %d resp %v", status, resp)
	}
	fetched, _ := resp["room"].(map[string]any)
	if fetched["name"] != "Alice's Room" {
		t.Fatalf("fetched room %v", fetched)
	}
	if fetched["room_url"] != "https://vibechat.app/"+code {
		t.Fatalf("room_url %v", fetched["room_url"])
	}
}

func TestEngine_CORSPreflight(t *testing.T) {
	h := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/rooms", nil)
	req.Header.Set("Origin", "https://client.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("missing Access-Control-Allow-Origin header")
	}
}
