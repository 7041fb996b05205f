// Package billing holds the Bitcoin payout rules and the subscription
// tier catalog. Payment processing itself is a stub: no gateway is ever
// called and payout figures are canned.
package billing

import (
	"fmt"
	"regexp"
	"strings"
)

// btcAddressRegex matches legacy P2PKH/P2SH addresses and bech32
// addresses with the bc1 prefix.
var btcAddressRegex = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$|^bc1[a-z0-9]{39,59}$`)

// DefaultPayoutWallet receives creator payouts when no wallet is
// configured.
const DefaultPayoutWallet = "1M9mactBVv4ygScFxzHbEsXHcvvH8WrvPG"

// PayoutRate is the creator share of each subscription payment.
const PayoutRate = 0.7

// ValidBTCAddress reports whether addr is a plausible Bitcoin address.
func ValidBTCAddress(addr string) bool {
	return btcAddressRegex.MatchString(addr)
}

// Tier describes a purchasable subscription tier.
type Tier struct {
	Name     string
	Price    float64
	Features []string
}

// tiers is the purchasable catalog, cheapest first. The free tier is
// implicit and never purchased.
var tiers = []Tier{
	{Name: "basic", Price: 0, Features: []string{"Standard rooms", "1 bot"}},
	{Name: "classic", Price: 9.99, Features: []string{"Larger rooms", "5 bots", "Custom room links"}},
	{Name: "premium", Price: 14.99, Features: []string{"Unlimited rooms", "Unlimited bots", "Priority AI models"}},
}

// Tiers returns the purchasable tier catalog.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// LookupTier resolves a tier by case-insensitive name.
func LookupTier(name string) (Tier, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, tier := range tiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return Tier{}, false
}

// PayoutAmount returns the creator payout for a tier price.
func PayoutAmount(price float64) float64 {
	return price * PayoutRate
}

// FormatPrice renders a USD price the way clients display it.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// WalletUpdateInfo is the canned payout summary returned after a
// wallet update.
type WalletUpdateInfo struct {
	MinimumPayout   string `json:"minimum_payout"`
	PayoutFrequency string `json:"payout_frequency"`
	CurrentBalance  string `json:"current_balance"`
	PendingPayouts  string `json:"pending_payouts"`
}

// PayoutInfo is the canned payout summary for a user's account.
type PayoutInfo struct {
	WalletAddress   string  `json:"wallet_address"`
	MinimumPayout   string  `json:"minimum_payout"`
	PayoutFrequency string  `json:"payout_frequency"`
	CurrentBalance  string  `json:"current_balance"`
	PendingPayouts  string  `json:"pending_payouts"`
	LastPayout      *string `json:"last_payout"`
	TotalEarned     string  `json:"total_earned"`
}

// CannedWalletUpdateInfo returns the placeholder summary shown after a
// wallet update.
func CannedWalletUpdateInfo() WalletUpdateInfo {
	return WalletUpdateInfo{
		MinimumPayout:   "0.001 BTC",
		PayoutFrequency: "24 hours",
		CurrentBalance:  "0.00000000 BTC",
		PendingPayouts:  "0.00000000 BTC",
	}
}

// CannedPayoutInfo returns the placeholder payout summary for a wallet.
// LastPayout stays null until payouts are real.
func CannedPayoutInfo(wallet string) PayoutInfo {
	if strings.TrimSpace(wallet) == "" {
		wallet = DefaultPayoutWallet
	}
	return PayoutInfo{
		WalletAddress:   wallet,
		MinimumPayout:   "0.001 BTC",
		PayoutFrequency: "24 hours",
		CurrentBalance:  "0.00000000 BTC",
		PendingPayouts:  "0.00000000 BTC",
		TotalEarned:     "0.00000000 BTC",
	}
}

// PaymentMethods returns the static payment method catalog.
func PaymentMethods() []string {
	return []string{"btc", "credit_card", "debit_card", "paypal"}
}
