package models

import (
	"time"
)

// SubscriptionStatus enumerates the billing states a company can be in.
type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// ValidateSubscriptionStatus checks if the provided status string is valid
func ValidateSubscriptionStatus(status string) bool {
	switch SubscriptionStatus(status) {
	case SubscriptionTrial, SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled:
		return true
	}
	return false
}

// Company is the tenant boundary; every other entity is scoped by CompanyID.
type Company struct {
	ID                 string             `json:"id" db:"id"`
	Name               string             `json:"name" db:"name"`
	Country            *string            `json:"country,omitempty" db:"country"`
	LogoURL            *string            `json:"logo_url,omitempty" db:"logo_url"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty" db:"trial_ends_at"`
	IsDemo             bool               `json:"is_demo" db:"is_demo"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// SubscriptionCurrent reports whether the company may use the product:
// an active subscription, or a trial that has not expired yet.
func (co *Company) SubscriptionCurrent(now time.Time) bool {
	switch co.SubscriptionStatus {
	case SubscriptionActive:
		return true
	case SubscriptionTrial:
		return co.TrialEndsAt == nil || now.Before(*co.TrialEndsAt)
	}
	return false
}

// CompanyUpdateRequest represents an update to company settings
type CompanyUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Country *string `json:"country,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}
