package enums

import "fmt"

// BookingStatus tracks the lifecycle of a design booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusVerified   BookingStatus = "verified"
	BookingStatusQuotation  BookingStatus = "quotation"
	BookingStatusAssigned   BookingStatus = "assigned"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusVerified,
	BookingStatusQuotation,
	BookingStatusAssigned,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// bookingStatusSuccessors lists the statuses reachable from each status.
// verified->assigned only happens through partner assignment.
var bookingStatusSuccessors = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusVerified, BookingStatusCancelled},
	BookingStatusVerified:   {BookingStatusQuotation, BookingStatusAssigned, BookingStatusCancelled},
	BookingStatusQuotation:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusAssigned:   {BookingStatusQuotation, BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// bookingStatusesAllowingAssignment gates setting assigned_seller_id.
var bookingStatusesAllowingAssignment = []BookingStatus{
	BookingStatusVerified,
	BookingStatusQuotation,
	BookingStatusInProgress,
}

// String implements fmt.Stringer.
func (b BookingStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookingStatus.
func (b BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the booking lifecycle.
func (b BookingStatus) IsTerminal() bool {
	return b == BookingStatusCompleted || b == BookingStatusCancelled
}

// CanTransition reports whether moving from the current status to target is allowed.
func (b BookingStatus) CanTransition(target BookingStatus) bool {
	for _, candidate := range bookingStatusSuccessors[b] {
		if candidate == target {
			return true
		}
	}
	return false
}

// AllowsAssignment reports whether a partner may be assigned in this status.
func (b BookingStatus) AllowsAssignment() bool {
	for _, candidate := range bookingStatusesAllowingAssignment {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}
