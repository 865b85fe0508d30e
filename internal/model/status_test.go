package model

import "testing"

func TestProductionChain(t *testing.T) {
	steps := []struct {
		from ProductionStatus
		want ProductionStatus
		ok   bool
	}{
		{ProductionAwaiting, ProductionInProcess, true},
		{ProductionInProcess, ProductionPackaging, true},
		{ProductionPackaging, ProductionReady, true},
		{ProductionReady, ProductionReady, false},
		{ProductionStatus("bogus"), ProductionStatus("bogus"), false},
	}
	for _, tc := range steps {
		got, ok := tc.from.Next()
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Next(%s) = (%s, %v), want (%s, %v)", tc.from, got, ok, tc.want, tc.ok)
		}
	}
}

func TestProductionPrev(t *testing.T) {
	if _, ok := ProductionAwaiting.Prev(); ok {
		t.Error("Prev(awaiting_production) should fail, it is the first stage")
	}
	if prev, ok := ProductionInProcess.Prev(); !ok || prev != ProductionAwaiting {
		t.Errorf("Prev(in_production) = (%s, %v), want (awaiting_production, true)", prev, ok)
	}
	// Packaged goods cannot be un-packaged
	if _, ok := ProductionPackaging.Prev(); ok {
		t.Error("Prev(packaging) should fail")
	}
	// Stock is already deducted at this point
	if _, ok := ProductionReady.Prev(); ok {
		t.Error("Prev(ready_for_delivery) should fail")
	}
}

func TestDeliveryCanMoveTo(t *testing.T) {
	cases := []struct {
		from, to DeliveryStatus
		want     bool
	}{
		{DeliveryPending, DeliveryShipping, true},
		{DeliveryPending, DeliveryDelivered, true},
		{DeliveryPending, DeliveryPending, true},
		{DeliveryShipping, DeliveryShipping, true}, // e.g. tracking number correction
		{DeliveryShipping, DeliveryPending, false},
		{DeliveryDelivered, DeliveryShipping, false},
		{DeliveryDelivered, DeliveryDelivered, false},
		{DeliveryPending, DeliveryStatus("bogus"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanMoveTo(tc.to); got != tc.want {
			t.Errorf("CanMoveTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPaymentForwardOnly(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentUnpaid, PaymentDepositPaid, true},
		{PaymentDepositPaid, PaymentPaidInFull, true},
		{PaymentUnpaid, PaymentPaidInFull, false}, // no stage skipping
		{PaymentDepositPaid, PaymentUnpaid, false},
		{PaymentPaidInFull, PaymentDepositPaid, false},
		{PaymentUnpaid, PaymentUnpaid, false},
		{PaymentUnpaid, PaymentStatus("bogus"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanMoveTo(tc.to); got != tc.want {
			t.Errorf("CanMoveTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Quantity: 2, UnitPrice: 100},
		{Quantity: 1, UnitPrice: 50},
	}}
	order.ComputeTotals()

	if order.Subtotal != 250 {
		t.Errorf("subtotal = %v, want 250", order.Subtotal)
	}
	if order.VAT < 17.49 || order.VAT > 17.51 {
		t.Errorf("vat = %v, want 17.5", order.VAT)
	}
	if order.TotalWithVAT < 267.49 || order.TotalWithVAT > 267.51 {
		t.Errorf("total = %v, want 267.5", order.TotalWithVAT)
	}
	if order.DepositAmount < 80.24 || order.DepositAmount > 80.26 {
		t.Errorf("deposit = %v, want 80.25", order.DepositAmount)
	}
}
