package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vibechat/service/internal/billing"
	"github.com/vibechat/service/internal/models"
)

func TestSubscriptionTiers(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)

	status, resp := doJSON(t, r, http.MethodGet, "/subscriptions/tiers", nil)
	if status != http.StatusOK {
		t.Fatalf("status %d resp %v", status, resp)
	}
	tiers, _ := resp["tiers"].([]any)
	if len(tiers) != 3 {
		t.Fatalf("got %d tiers, want 3", len(tiers))
	}
	last, _ := tiers[2].(map[string]any)
	if last["name"] != "premium" || last["price"] != "$14.99" {
		t.Fatalf("unexpected last tier %v", last)
	}
}

func TestSubscriptionPurchase_SupersedesActive(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)
	alice := registerUser(t, r, "alice")

	status, resp := doJSON(t, r, http.MethodPost, "/subscriptions/purchase", gin.H{
		"user_id": alice,
		"tier":    "classic",
	})
	if status != http.StatusCreated {
		t.Fatalf("first purchase: status %d resp %v", status, resp)
	}
	sub, _ := resp["subscription"].(map[string]any)
	if sub["tier"] != "classic" || sub["status"] != models.SubscriptionActive {
		t.Fatalf("unexpected subscription %v", sub)
	}
	if sub["payment_method"] != models.PaymentMethodBTC {
		t.Fatalf("payment_method %v, want btc default", sub["payment_method"])
	}
	ref, _ := sub["payment_reference"].(string)
	if len(ref) != len("PAY-")+16 || ref[:4] != "PAY-" {
		t.Fatalf("payment_reference %q", ref)
	}
	if sub["end_date"] == nil {
		t.Fatalf("missing end_date")
	}
	features, _ := sub["features"].([]any)
	if len(features) == 0 {
		t.Fatalf("missing features")
	}

	status, resp = doJSON(t, r, http.MethodPost, "/subscriptions/purchase", gin.H{
		"user_id":        alice,
		"tier":           "premium",
		"payment_method": "paypal",
	})
	if status != http.StatusCreated {
		t.Fatalf("second purchase: status %d resp %v", status, resp)
	}

	var active []models.Subscription
	if errFind := conn.Where("status = ?", models.SubscriptionActive).Find(&active).Error; errFind != nil {
		t.Fatalf("find active: %v", errFind)
	}
	if len(active) != 1 || active[0].Tier != "premium" {
		t.Fatalf("active subscriptions %v, want single premium", active)
	}

	status, resp = doJSON(t, r, http.MethodGet, "/subscriptions/user/"+alice, nil)
	if status != http.StatusOK {
		t.Fatalf("list: status %d resp %v", status, resp)
	}
	subs, _ := resp["subscriptions"].([]any)
	if len(subs) != 2 {
		t.Fatalf("got %d subscriptions, want 2", len(subs))
	}
}

func TestSubscriptionPurchase_Validation(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)
	alice := registerUser(t, r, "alice")

	status, _ := doJSON(t, r, http.MethodPost, "/subscriptions/purchase", gin.H{
		"user_id": alice,
		"tier":    "platinum",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("invalid tier: status %d, want 400", status)
	}

	status, _ = doJSON(t, r, http.MethodPost, "/subscriptions/purchase", gin.H{
		"user_id":        alice,
		"tier":           "basic",
		"payment_method": "barter",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("invalid payment method: status %d, want 400", status)
	}

	status, _ = doJSON(t, r, http.MethodPost, "/subscriptions/purchase", gin.H{
		"user_id": "doesnotexis",
		"tier":    "basic",
	})
	if status != http.StatusNotFound {
		t.Fatalf("unknown user: status %d, want 404", status)
	}
}

func TestSubscriptionCancel(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	status, resp := doJSON(t, r, http.MethodPost, "/subscriptions/purchase", gin.H{
		"user_id": alice,
		"tier":    "classic",
	})
	if status != http.StatusCreated {
		t.Fatalf("purchase: status %d resp %v", status, resp)
	}
	sub, _ := resp["subscription"].(map[string]any)
	subID := fmt.Sprintf("%v", sub["id"])

	status, _ = doJSON(t, r, http.MethodPost, "/subscriptions/"+subID+"/cancel?user_id="+bob, nil)
	if status != http.StatusForbidden {
		t.Fatalf("non-owner cancel: status %d, want 403", status)
	}

	status, resp = doJSON(t, r, http.MethodPost, "/subscriptions/"+subID+"/cancel?user_id="+alice, nil)
	if status != http.StatusOK {
		t.Fatalf("cancel: status %d resp %v", status, resp)
	}
	cancelled, _ := resp["subscription"].(map[string]any)
	if cancelled["status"] != models.SubscriptionCancelled {
		t.Fatalf("status %v, want cancelled", cancelled["status"])
	}

	// Cancelling twice is rejected.
	status, _ = doJSON(t, r, http.MethodPost, "/subscriptions/"+subID+"/cancel?user_id="+alice, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("double cancel: status %d, want 400", status)
	}
}

func TestSubscriptionCatalogEndpoints(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)

	status, resp := doJSON(t, r, http.MethodGet, "/subscriptions/payment-methods", nil)
	if status != http.StatusOK {
		t.Fatalf("status %d resp %v", status, resp)
	}
	methods, _ := resp["payment_methods"].([]any)
	if len(methods) != 4 || methods[0] != "btc" {
		t.Fatalf("payment_methods %v", methods)
	}

	status, resp = doJSON(t, r, http.MethodGet, "/subscriptions/btc-wallet", nil)
	if status != http.StatusOK {
		t.Fatalf("status %d resp %v", status, resp)
	}
	if resp["wallet_address"] != billing.DefaultPayoutWallet {
		t.Fatalf("wallet_address %v", resp["wallet_address"])
	}
}
