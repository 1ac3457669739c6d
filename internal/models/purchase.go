package models

import (
	"fmt"
	"time"
)

// PurchaseStatus represents the lifecycle state of a purchase request.
type PurchaseStatus string

const (
	StatusPending      PurchaseStatus = "pending"
	StatusDeliberating PurchaseStatus = "deliberating"
	StatusApproved     PurchaseStatus = "approved"
	StatusRejected     PurchaseStatus = "rejected"
	StatusFailed       PurchaseStatus = "failed"
)

// Urgency represents how urgently the user wants the purchase.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// PurchaseRequest represents a prospective purchase submitted for deliberation.
// Immutable once deliberation starts; only Status is updated afterwards.
type PurchaseRequest struct {
	ID          string
	UserID      string
	Item        string
	Price       float64
	Category    string
	Urgency     Urgency
	Description string
	Context     string
	Status      PurchaseStatus
	CreatedAt   time.Time
}

// Validate checks that the purchase request is well-formed.
func (p *PurchaseRequest) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if p.Item == "" {
		return fmt.Errorf("item is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("price must be positive, got %.2f", p.Price)
	}
	switch p.Urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
	default:
		return fmt.Errorf("invalid urgency: %s", p.Urgency)
	}
	return nil
}
