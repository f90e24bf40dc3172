package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionCurrent(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name    string
		company Company
		want    bool
	}{
		{"active", Company{SubscriptionStatus: SubscriptionActive}, true},
		{"trial before deadline", Company{SubscriptionStatus: SubscriptionTrial, TrialEndsAt: &future}, true},
		{"trial after deadline", Company{SubscriptionStatus: SubscriptionTrial, TrialEndsAt: &past}, false},
		{"trial without deadline", Company{SubscriptionStatus: SubscriptionTrial}, true},
		{"past due", Company{SubscriptionStatus: SubscriptionPastDue}, false},
		{"canceled", Company{SubscriptionStatus: SubscriptionCanceled}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.company.SubscriptionCurrent(now))
		})
	}
}

func TestValidateSubscriptionStatus(t *testing.T) {
	for _, s := range []SubscriptionStatus{SubscriptionTrial, SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled} {
		assert.True(t, ValidateSubscriptionStatus(string(s)), "status %s", s)
	}
	assert.False(t, ValidateSubscriptionStatus("expired"))
	assert.False(t, ValidateSubscriptionStatus(""))
}
