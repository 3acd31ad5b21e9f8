package enums

// MilestoneStatus is the two-state checklist status of a single milestone.
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"
	MilestoneStatusCompleted MilestoneStatus = "completed"
)

// String implements fmt.Stringer.
func (m MilestoneStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MilestoneStatus.
func (m MilestoneStatus) IsValid() bool {
	return m == MilestoneStatusPending || m == MilestoneStatusCompleted
}

// Toggled returns the opposite checklist state.
func (m MilestoneStatus) Toggled() MilestoneStatus {
	if m == MilestoneStatusCompleted {
		return MilestoneStatusPending
	}
	return MilestoneStatusCompleted
}
