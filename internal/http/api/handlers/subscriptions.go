package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/billing"
	"github.com/vibechat/service/internal/idgen"
	"github.com/vibechat/service/internal/models"
)

// subscriptionPeriod is the billing period granted per purchase.
const subscriptionPeriod = 30 * 24 * time.Hour

// SubscriptionHandler serves the subscription tier and purchase
// endpoints.
type SubscriptionHandler struct {
	db           *gorm.DB
	payoutWallet string
}

// NewSubscriptionHandler constructs a SubscriptionHandler.
func NewSubscriptionHandler(db *gorm.DB, payoutWallet string) *SubscriptionHandler {
	if strings.TrimSpace(payoutWallet) == "" {
		payoutWallet = billing.DefaultPayoutWallet
	}
	return &SubscriptionHandler{db: db, payoutWallet: payoutWallet}
}

// Tiers returns the purchasable tier catalog.
func (h *SubscriptionHandler) Tiers(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, tier := range billing.Tiers() {
		out = append(out, gin.H{
			"name":     tier.Name,
			"price":    billing.FormatPrice(tier.Price),
			"features": tier.Features,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tiers": out})
}

// ListByUser returns the subscriptions of the given external user,
// newest first.
func (h *SubscriptionHandler) ListByUser(c *gin.Context) {
	ctx := c.Request.Context()
	user, errUser := findUserByExternalID(ctx, h.db, c.Param("user_id"))
	if errUser != nil {
		respondError(c, errUser)
		return
	}

	var subs []models.Subscription
	if errFind := h.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&subs).Error; errFind != nil {
		respondError(c, errFind)
		return
	}

	out := make([]gin.H, 0, len(subs))
	for i := range subs {
		out = append(out, subscriptionJSON(&subs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subscriptions": out})
}

// purchaseRequest defines the request body for a subscription purchase.
type purchaseRequest struct {
	UserID        string `json:"user_id"`
	Tier          string `json:"tier"`
	PaymentMethod string `json:"payment_method"`
}

// Purchase records a subscription purchase for a user. Any previously
// active subscription is cancelled in the same transaction.
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	var body purchaseRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, validationError("Invalid JSON body"))
		return
	}
	tier, ok := billing.LookupTier(body.Tier)
	if !ok {
		respondError(c, validationError("Invalid subscription tier"))
		return
	}
	method := strings.ToLower(strings.TrimSpace(body.PaymentMethod))
	if method == "" {
		method = models.PaymentMethodBTC
	}
	if !validPaymentMethod(method) {
		respondError(c, validationError("Invalid payment method"))
		return
	}

	ctx := c.Request.Context()
	user, errUser := findUserByExternalID(ctx, h.db, body.UserID)
	if errUser != nil {
		respondError(c, errUser)
		return
	}

	features, errFeatures := json.Marshal(tier.Features)
	if errFeatures != nil {
		respondError(c, errFeatures)
		return
	}

	now := time.Now().UTC()
	end := now.Add(subscriptionPeriod)
	sub := models.Subscription{
		UserID:           user.ID,
		Tier:             tier.Name,
		Status:           models.SubscriptionActive,
		Price:            tier.Price,
		Currency:         "USD",
		PaymentMethod:    method,
		PaymentReference: "PAY-" + idgen.Code(16),
		Features:         datatypes.JSON(features),
		StartDate:        now,
		EndDate:          &end,
	}
	errTx := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCancel := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND status = ?", user.ID, models.SubscriptionActive).
			Update("status", models.SubscriptionCancelled).Error; errCancel != nil {
			return errCancel
		}
		return tx.Create(&sub).Error
	})
	if errTx != nil {
		respondError(c, errTx)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Subscription activated",
		"subscription":  subscriptionJSON(&sub),
		"payout_wallet": h.payoutWallet,
	})
}

// Cancel marks a subscription cancelled. Only its owner may cancel it.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondError(c, validationError("Invalid subscription id"))
		return
	}

	ctx := c.Request.Context()
	caller, errCaller := findUserByExternalID(ctx, h.db, c.Query("user_id"))
	if errCaller != nil {
		respondError(c, errCaller)
		return
	}

	var sub models.Subscription
	if errFind := h.db.WithContext(ctx).First(&sub, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respondError(c, notFoundError("Subscription not found"))
			return
		}
		respondError(c, errFind)
		return
	}
	if sub.UserID != caller.ID {
		respondError(c, forbiddenError("Not the subscription owner"))
		return
	}
	if sub.Status != models.SubscriptionActive {
		respondError(c, validationError("Subscription is not active"))
		return
	}

	if errUpdate := h.db.WithContext(ctx).Model(&sub).
		Update("status", models.SubscriptionCancelled).Error; errUpdate != nil {
		respondError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Subscription cancelled",
		"subscription": subscriptionJSON(&sub),
	})
}

// PaymentMethods returns the supported payment method catalog.
func (h *SubscriptionHandler) PaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"payment_methods": billing.PaymentMethods(),
	})
}

// BTCWallet returns the wallet address new payments should go to.
func (h *SubscriptionHandler) BTCWallet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"wallet_address": h.payoutWallet,
		"currency":       "BTC",
	})
}

// validPaymentMethod reports whether method is in the supported set.
func validPaymentMethod(method string) bool {
	for _, m := range billing.PaymentMethods() {
		if m == method {
			return true
		}
	}
	return false
}

// subscriptionJSON renders a subscription's public fields.
func subscriptionJSON(sub *models.Subscription) gin.H {
	var features []string
	if len(sub.Features) > 0 {
		// Ignore decode failures and render an empty list.
		_ = json.Unmarshal(sub.Features, &features)
	}
	return gin.H{
		"id":                sub.ID,
		"tier":              sub.Tier,
		"status":            sub.Status,
		"price":             billing.FormatPrice(sub.Price),
		"currency":          sub.Currency,
		"payment_method":    sub.PaymentMethod,
		"payment_reference": sub.PaymentReference,
		"features":          features,
		"start_date":        sub.StartDate,
		"end_date":          sub.EndDate,
		"created_at":        sub.CreatedAt,
	}
}
