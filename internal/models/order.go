package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a material order.
type OrderStatus string

const (
	OrderStatusToOrder   OrderStatus = "TO_ORDER"
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusUsed      OrderStatus = "USED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderTransitions is the full state graph. No backward transitions, no
// skipping; CANCELLED only from TO_ORDER or ORDERED.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusToOrder:   {OrderStatusOrdered, OrderStatusCancelled},
	OrderStatusOrdered:   {OrderStatusReceived, OrderStatusCancelled},
	OrderStatusReceived:  {OrderStatusUsed},
	OrderStatusUsed:      {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// OrderPriority ranks replenishment urgency.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityMedium OrderPriority = "medium"
	PriorityHigh   OrderPriority = "high"
)

// Valid reports whether p is a known priority.
func (p OrderPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// MaterialOrder is a replenishment commitment for one material. Orders are
// never deleted; CANCELLED is the only removal path.
type MaterialOrder struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	MaterialID       uuid.UUID       `json:"material_id" db:"material_id"`
	RequiredQuantity decimal.Decimal `json:"required_quantity" db:"required_quantity"`
	Unit             string          `json:"unit" db:"unit"`
	ProjectID        *uuid.UUID      `json:"project_id,omitempty" db:"project_id"`
	RequestedBy      string          `json:"requested_by" db:"requested_by"`
	RequestedAt      time.Time       `json:"requested_at" db:"requested_at"`
	Status           OrderStatus     `json:"status" db:"status"`
	Priority         OrderPriority   `json:"priority" db:"priority"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost" db:"estimated_cost"`
	Currency         string          `json:"currency" db:"currency"`
	Supplier         *string         `json:"supplier,omitempty" db:"supplier"`
	TrackingRef      *string         `json:"tracking_ref,omitempty" db:"tracking_ref"`
	Notes            *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderFilter holds query criteria for listing material orders
type OrderFilter struct {
	MaterialID *uuid.UUID     `json:"material_id,omitempty"` // Material filter
	ProjectID  *uuid.UUID     `json:"project_id,omitempty"`  // Project filter
	Status     *OrderStatus   `json:"status,omitempty"`      // Status filter
	Priority   *OrderPriority `json:"priority,omitempty"`    // Priority filter
	Limit      int            `json:"limit,omitempty"`       // Page size (default: 50)
	Offset     int            `json:"offset,omitempty"`      // Page offset
}
