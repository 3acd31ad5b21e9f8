package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	t.Parallel()

	chain := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusReadyToShip,
		OrderStatusShipped,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
	}
	for i := 0; i < len(chain)-1; i++ {
		if !chain[i].CanTransition(chain[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", chain[i], chain[i+1])
		}
	}

	if OrderStatusPending.CanTransition(OrderStatusShipped) {
		t.Fatalf("skipping ahead in the chain must not be allowed")
	}
	if OrderStatusDelivered.CanTransition(OrderStatusCancelled) {
		t.Fatalf("delivered is terminal")
	}
	if !OrderStatusProcessing.CanTransition(OrderStatusCancelled) {
		t.Fatalf("cancellation from a non-terminal state must be allowed")
	}
	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatalf("delivered and cancelled are terminal")
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	t.Parallel()

	if !BookingStatusPending.CanTransition(BookingStatusVerified) {
		t.Fatalf("pending -> verified must be allowed")
	}
	if !BookingStatusVerified.CanTransition(BookingStatusAssigned) {
		t.Fatalf("verified -> assigned must be allowed")
	}
	if !BookingStatusQuotation.CanTransition(BookingStatusInProgress) {
		t.Fatalf("quotation -> in_progress must be allowed")
	}
	if BookingStatusPending.CanTransition(BookingStatusCompleted) {
		t.Fatalf("pending -> completed must be rejected")
	}
	if BookingStatusCompleted.CanTransition(BookingStatusInProgress) {
		t.Fatalf("completed is terminal")
	}

	if BookingStatusPending.AllowsAssignment() {
		t.Fatalf("assignment before verification must be rejected")
	}
	for _, s := range []BookingStatus{BookingStatusVerified, BookingStatusQuotation, BookingStatusInProgress} {
		if !s.AllowsAssignment() {
			t.Fatalf("assignment in %s must be allowed", s)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	if _, err := ParseOrderStatus("shipped"); err != nil {
		t.Fatalf("expected shipped to parse: %v", err)
	}
	if _, err := ParseOrderStatus("teleported"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
}
