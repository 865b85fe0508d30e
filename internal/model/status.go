package model

// Status enums for the three independent order axes. Every legal-transition
// check lives here; services and handlers never compare raw strings.

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

type ProductionStatus string

const (
	ProductionAwaiting  ProductionStatus = "awaiting_production"
	ProductionInProcess ProductionStatus = "in_production"
	ProductionPackaging ProductionStatus = "packaging"
	ProductionReady     ProductionStatus = "ready_for_delivery"
)

// productionChain is the fixed forward order of production stages.
var productionChain = []ProductionStatus{
	ProductionAwaiting,
	ProductionInProcess,
	ProductionPackaging,
	ProductionReady,
}

func (s ProductionStatus) index() int {
	for i, st := range productionChain {
		if st == s {
			return i
		}
	}
	return -1
}

func (s ProductionStatus) Valid() bool { return s.index() >= 0 }

// Next returns the following production stage. ok is false when s is
// already the terminal stage (or unknown).
func (s ProductionStatus) Next() (ProductionStatus, bool) {
	i := s.index()
	if i < 0 || i >= len(productionChain)-1 {
		return s, false
	}
	return productionChain[i+1], true
}

// Prev returns the preceding production stage. Retreat out of packaging is
// forbidden: once goods are packaged production cannot be undone. Retreat
// out of ready_for_delivery is likewise forbidden because stock has already
// been deducted at that point.
func (s ProductionStatus) Prev() (ProductionStatus, bool) {
	i := s.index()
	if i <= 0 || s == ProductionPackaging || s == ProductionReady {
		return s, false
	}
	return productionChain[i-1], true
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryShipping  DeliveryStatus = "shipping"
	DeliveryDelivered DeliveryStatus = "delivered"
)

func (s DeliveryStatus) rank() int {
	switch s {
	case DeliveryPending:
		return 0
	case DeliveryShipping:
		return 1
	case DeliveryDelivered:
		return 2
	}
	return -1
}

func (s DeliveryStatus) Valid() bool { return s.rank() >= 0 }

// CanMoveTo allows forward moves and same-state updates (e.g. correcting a
// tracking number while already shipping). Delivery never moves backwards.
func (s DeliveryStatus) CanMoveTo(next DeliveryStatus) bool {
	return next.Valid() && next.rank() >= s.rank() && s != DeliveryDelivered
}

// InTransitOrLater reports whether the delivery has actually started,
// which is the edge gated by payment status.
func (s DeliveryStatus) InTransitOrLater() bool {
	return s == DeliveryShipping || s == DeliveryDelivered
}

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentPaidInFull  PaymentStatus = "paid_in_full"
)

func (s PaymentStatus) rank() int {
	switch s {
	case PaymentUnpaid:
		return 0
	case PaymentDepositPaid:
		return 1
	case PaymentPaidInFull:
		return 2
	}
	return -1
}

func (s PaymentStatus) Valid() bool { return s.rank() >= 0 }

// CanMoveTo enforces the forward-only payment progression
// unpaid -> deposit_paid -> paid_in_full.
func (s PaymentStatus) CanMoveTo(next PaymentStatus) bool {
	return next.Valid() && next.rank() == s.rank()+1
}

type ProcurementStatus string

const (
	ProcurementPending   ProcurementStatus = "pending"
	ProcurementConfirmed ProcurementStatus = "confirmed"
	ProcurementCancelled ProcurementStatus = "cancelled"
)
