package services

import (
	"fmt"
	"os"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/charge"
)

// RevenueReport summarizes Stripe charges for a period.
type RevenueReport struct {
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	ChargeCount int              `json:"charge_count"`
	GrossByCur  map[string]int64 `json:"gross_by_currency"`
}

// BillingService reads revenue data from Stripe.
type BillingService struct {
	configured bool
}

// NewBillingService creates a billing service; it is disabled when
// STRIPE_SECRET_KEY is not set.
func NewBillingService() *BillingService {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return &BillingService{}
	}
	stripe.Key = key
	return &BillingService{configured: true}
}

// Enabled reports whether the Stripe key is configured.
func (b *BillingService) Enabled() bool { return b.configured }

// Revenue sums paid, unrefunded charges between from and to, grouped
// by currency in the smallest unit (cents).
func (b *BillingService) Revenue(from, to time.Time) (*RevenueReport, error) {
	if !b.configured {
		return nil, fmt.Errorf("stripe not configured")
	}

	params := &stripe.ChargeListParams{
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: from.Unix(),
			LesserThan:         to.Unix(),
		},
	}
	params.Limit = stripe.Int64(100)

	report := &RevenueReport{
		From:       from,
		To:         to,
		GrossByCur: make(map[string]int64),
	}

	iter := charge.List(params)
	for iter.Next() {
		ch := iter.Charge()
		if !ch.Paid || ch.Refunded {
			continue
		}
		report.ChargeCount++
		report.GrossByCur[string(ch.Currency)] += ch.Amount - ch.AmountRefunded
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list charges: %w", err)
	}
	return report, nil
}
