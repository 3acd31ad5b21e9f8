package enums

import "fmt"

// StatusGroup buckets the raw status vocabularies of orders, bookings, and
// service requests into the four display groups shared by every screen.
type StatusGroup string

const (
	StatusGroupActionRequired StatusGroup = "action_required"
	StatusGroupInProgress     StatusGroup = "in_progress"
	StatusGroupCompleted      StatusGroup = "completed"
	StatusGroupOther          StatusGroup = "other"
	// StatusGroupAll is only valid as a filter value.
	StatusGroupAll StatusGroup = "all"
)

var validStatusGroups = []StatusGroup{
	StatusGroupActionRequired,
	StatusGroupInProgress,
	StatusGroupCompleted,
	StatusGroupOther,
}

// statusGroupTable is the single authoritative bucket mapping. Every status
// value of every domain must appear here exactly once; screens must never
// re-derive their own grouping.
var statusGroupTable = map[string]StatusGroup{
	// shared / product order
	string(OrderStatusPending):        StatusGroupActionRequired,
	string(OrderStatusConfirmed):      StatusGroupInProgress,
	string(OrderStatusProcessing):     StatusGroupInProgress,
	string(OrderStatusReadyToShip):    StatusGroupInProgress,
	string(OrderStatusShipped):        StatusGroupInProgress,
	string(OrderStatusOutForDelivery): StatusGroupInProgress,
	string(OrderStatusDelivered):      StatusGroupCompleted,
	string(OrderStatusCancelled):      StatusGroupOther,
	// design booking
	string(BookingStatusVerified):   StatusGroupInProgress,
	string(BookingStatusQuotation):  StatusGroupInProgress,
	string(BookingStatusAssigned):   StatusGroupInProgress,
	string(BookingStatusInProgress): StatusGroupInProgress,
	string(BookingStatusCompleted):  StatusGroupCompleted,
	// service request
	string(RequestStatusSubmitted): StatusGroupActionRequired,
}

// StatusGroupFor maps a raw status value into its display bucket. Unknown
// statuses land in Other so the mapping is total.
func StatusGroupFor(status string) StatusGroup {
	if group, ok := statusGroupTable[status]; ok {
		return group
	}
	return StatusGroupOther
}

// String implements fmt.Stringer.
func (s StatusGroup) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StatusGroup (excluding the
// filter-only "all" value).
func (s StatusGroup) IsValid() bool {
	for _, candidate := range validStatusGroups {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatusGroupFilter accepts a status group filter value; empty and "all"
// both mean no group filtering.
func ParseStatusGroupFilter(value string) (StatusGroup, error) {
	if value == "" || value == string(StatusGroupAll) {
		return StatusGroupAll, nil
	}
	for _, candidate := range validStatusGroups {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status group %q", value)
}
