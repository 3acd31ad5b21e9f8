package enums

import "fmt"

// RequestStatus tracks the lifecycle of a general service request.
type RequestStatus string

const (
	RequestStatusSubmitted  RequestStatus = "submitted"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusSubmitted,
	RequestStatusProcessing,
	RequestStatusCompleted,
	RequestStatusCancelled,
}

var requestStatusSuccessors = map[RequestStatus][]RequestStatus{
	RequestStatusSubmitted:  {RequestStatusProcessing, RequestStatusCancelled},
	RequestStatusProcessing: {RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusCompleted:  {},
	RequestStatusCancelled:  {},
}

// String implements fmt.Stringer.
func (r RequestStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RequestStatus.
func (r RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanTransition reports whether moving from the current status to target is allowed.
func (r RequestStatus) CanTransition(target RequestStatus) bool {
	for _, candidate := range requestStatusSuccessors[r] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
