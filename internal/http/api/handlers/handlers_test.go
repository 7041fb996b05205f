package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/config"
	"github.com/vibechat/service/internal/db"
)

const (
	testBaseURL = "https://vibechat.app"
	testModel   = "gpt-3.5-turbo"
	testSecret  = "test-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := db.Open("file:" + filepath.Join(t.TempDir(), "test.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

// newTestRouter mounts every handler group the way the server does,
// without middleware.
func newTestRouter(t *testing.T, conn *gorm.DB) *gin.Engine {
	t.Helper()
	r := gin.New()

	auth := NewAuthHandler(conn, config.JWTConfig{Secret: testSecret, Expiry: time.Hour})
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)

	rooms := NewRoomHandler(conn, testBaseURL)
	r.POST("/rooms", rooms.Create)
	r.GET("/rooms/user/:user_id", rooms.ListByUser)
	r.GET("/rooms/code/:code", rooms.GetByCode)
	r.PUT("/rooms/:id", rooms.Update)
	r.DELETE("/rooms/:id", rooms.Delete)

	bots := NewBotHandler(conn, testModel)
	r.POST("/bots", bots.Create)
	r.GET("/bots/user/:user_id", bots.ListByUser)
	r.GET("/bots/room/:room_id", bots.ListByRoom)
	r.PUT("/bots/:id", bots.Update)
	r.DELETE("/bots/:id", bots.Delete)

	ai := NewAIHandler(config.Config{
		BaseURL: testBaseURL,
		AI:      config.AIConfig{DefaultModel: testModel},
	})
	r.POST("/ai/generate-room-link", ai.GenerateRoomLink)
	r.POST("/ai/generate-user-id", ai.GenerateUserID)
	r.POST("/ai/generate-api-token", ai.GenerateAPIToken)
	r.POST("/ai/analyze-text", ai.AnalyzeText)

	billing := NewBillingHandler(conn, "")
	r.POST("/billing/update-wallet", billing.UpdateWallet)
	r.GET("/billing/payout-info", billing.PayoutInfo)
	r.POST("/billing/process-payment", billing.ProcessPayment)

	subs := NewSubscriptionHandler(conn, "")
	r.GET("/subscriptions/tiers", subs.Tiers)
	r.GET("/subscriptions/user/:user_id", subs.ListByUser)
	r.POST("/subscriptions/purchase", subs.Purchase)
	r.POST("/subscriptions/:id/cancel", subs.Cancel)
	r.GET("/subscriptions/payment-methods", subs.PaymentMethods)
	r.GET("/subscriptions/btc-wallet", subs.BTCWallet)

	servers := NewPreMadeServerHandler(conn)
	r.GET("/pre-made-servers", servers.List)
	r.GET("/pre-made-servers/:name", servers.GetByName)

	return r
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response.
func doJSON(t *testing.T, r http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if errEncode := json.NewEncoder(&buf).Encode(body); errEncode != nil {
			t.Fatalf("encode body: %v", errEncode)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), errDecode)
	}
	return w.Code, out
}

// registerUser registers a user and returns their external user ID.
func registerUser(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	status, resp := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d resp %v", username, status, resp)
	}
	user, _ := resp["user"].(map[string]any)
	userID, _ := user["user_id"].(string)
	if userID == "" {
		t.Fatalf("register %s: missing user_id in %v", username, resp)
	}
	return userID
}

// createRoom creates a room for the user and returns its response map.
func createRoom(t *testing.T, r http.Handler, userID, name string) map[string]any {
	t.Helper()
	status, resp := doJSON(t, r, http.MethodPost, "/rooms", gin.H{
		"name":    name,
		"user_id": userID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create room: status %d resp %v", status, resp)
	}
	room, _ := resp["room"].(map[string]any)
	if room == nil {
		t.Fatalf("create room: missing room in %v", resp)
	}
	return room
}
