package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/billing"
)

// BillingHandler serves the Bitcoin payout stub endpoints. None of them
// move money; the only real contract is wallet address validation.
type BillingHandler struct {
	db           *gorm.DB
	payoutWallet string
}

// NewBillingHandler constructs a BillingHandler.
func NewBillingHandler(db *gorm.DB, payoutWallet string) *BillingHandler {
	if strings.TrimSpace(payoutWallet) == "" {
		payoutWallet = billing.DefaultPayoutWallet
	}
	return &BillingHandler{db: db, payoutWallet: payoutWallet}
}

// updateWalletRequest defines the request body for wallet updates.
type updateWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
	UserID        string `json:"user_id"`
}

// UpdateWallet validates a payout wallet address. The address is not
// persisted.
func (h *BillingHandler) UpdateWallet(c *gin.Context) {
	var body updateWalletRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}
	wallet := strings.TrimSpace(body.WalletAddress)
	if !billing.ValidBTCAddress(wallet) {
		respondError(c, validationError("Invalid Bitcoin wallet address format"))
		return
	}

	if _, errUser := findUserByExternalID(c.Request.Context(), h.db, body.UserID); errUser != nil {
		respondError(c, errUser)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Bitcoin wallet address updated successfully",
		"wallet_address": wallet,
		"payout_info":    billing.CannedWalletUpdateInfo(),
	})
}

// PayoutInfo returns the canned payout summary for a user.
func (h *BillingHandler) PayoutInfo(c *gin.Context) {
	if _, errUser := findUserByExternalID(c.Request.Context(), h.db, c.Query("user_id")); errUser != nil {
		respondError(c, errUser)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"payout_info": billing.CannedPayoutInfo(h.payoutWallet),
	})
}

// processPaymentRequest defines the request body for payment processing.
type processPaymentRequest struct {
	Tier          string `json:"tier"`
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
}

// ProcessPayment returns the canned activation response for a tier. No
// payment gateway is called.
func (h *BillingHandler) ProcessPayment(c *gin.Context) {
	var body processPaymentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}

	tier, ok := billing.LookupTier(body.Tier)
	if !ok {
		respondError(c, validationError("Invalid subscription tier"))
		return
	}
	if _, errUser := findUserByExternalID(c.Request.Context(), h.db, body.UserID); errUser != nil {
		respondError(c, errUser)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"message":               fmt.Sprintf("%s subscription activated", capitalize(tier.Name)),
		"tier":                  tier.Name,
		"price":                 billing.FormatPrice(tier.Price),
		"payout_amount":         fmt.Sprintf("%.2f BTC", billing.PayoutAmount(tier.Price)),
		"payout_wallet":         h.payoutWallet,
		"estimated_payout_time": "24-48 hours",
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
