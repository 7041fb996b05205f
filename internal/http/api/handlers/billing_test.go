package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vibechat/service/internal/billing"
)

func TestUpdateWallet(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)
	alice := registerUser(t, r, "alice")

	status, resp := doJSON(t, r, http.MethodPost, "/billing/update-wallet", gin.H{
		"wallet_address": billing.DefaultPayoutWallet,
		"user_id":        alice,
	})
	if status != http.StatusOK {
		t.Fatalf("status %d resp %v", status, resp)
	}
	if resp["wallet_address"] != billing.DefaultPayoutWallet {
		t.Fatalf("wallet_address %v", resp["wallet_address"])
	}
	info, _ := resp["payout_info"].(map[string]any)
	if info["minimum_payout"] != "0.001 BTC" {
		t.Fatalf("minimum_payout %v", info["minimum_payout"])
	}
	// The wallet-update summary carries no account fields.
	for _, key := range []string{"wallet_address", "total_earned", "last_payout"} {
		if _, present := info[key]; present {
			t.Fatalf("unexpected %s in wallet-update payout_info", key)
		}
	}

	status, resp = doJSON(t, r, http.MethodPost, "/billing/update-wallet", gin.H{
		"wallet_address": "not-an-address",
		"user_id":        alice,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("invalid address: status %d resp %v", status, resp)
	}

	status, _ = doJSON(t, r, http.MethodPost, "/billing/update-wallet", gin.H{
		"wallet_address": billing.DefaultPayoutWallet,
		"user_id":        "doesnotexis",
	})
	if status != http.StatusNotFound {
		t.Fatalf("unknown user: status %d, want 404", status)
	}
}

func TestPayoutInfo(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)
	alice := registerUser(t, r, "alice")

	status, resp := doJSON(t, r, http.MethodGet, "/billing/payout-info?user_id="+alice, nil)
	if status != http.StatusOK {
		t.Fatalf("status %d resp %v", status, resp)
	}
	info, _ := resp["payout_info"].(map[string]any)
	if info["wallet_address"] != billing.DefaultPayoutWallet {
		t.Fatalf("wallet_address %v", info["wallet_address"])
	}
	if info["payout_frequency"] != "24 hours" {
		t.Fatalf("payout_frequency %v", info["payout_frequency"])
	}
	if info["total_earned"] != "0.00000000 BTC" {
		t.Fatalf("total_earned %v", info["total_earned"])
	}
	last, present := info["last_payout"]
	if !present || last != nil {
		t.Fatalf("last_payout %v (present=%v), want explicit null", last, present)
	}
}

func TestProcessPayment(t *testing.T) {
	conn := newTestDB(t)
	r := newTestRouter(t, conn)
	alice := registerUser(t, r, "alice")

	status, resp := doJSON(t, r, http.MethodPost, "/billing/process-payment", gin.H{
		"tier":    "premium",
		"user_id": alice,
	})
	if status != http.StatusOK {
		t.Fatalf("status %d resp %v", status, resp)
	}
	if resp["message"] != "Premium subscription activated" {
		t.Fatalf("message %v", resp["message"])
	}
	if resp["price"] != "$14.99" {
		t.Fatalf("price %v", resp["price"])
	}
	if resp["payout_amount"] != "10.49 BTC" {
		t.Fatalf("payout_amount %v", resp["payout_amount"])
	}
	if resp["payout_wallet"] != billing.DefaultPayoutWallet {
		t.Fatalf("payout_wallet %v", resp["payout_wallet"])
	}

	status, _ = doJSON(t, r, http.MethodPost, "/billing/process-payment", gin.H{
		"tier":    "platinum",
		"user_id": alice,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("invalid tier: status %d, want 400", status)
	}
}
