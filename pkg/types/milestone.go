package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

// Milestone is one checklist stage tracked against an order or booking.
type Milestone struct {
	Name        string                `json:"name"`
	Status      enums.MilestoneStatus `json:"status"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
}

// MilestoneList is the jsonb-persisted checklist of a record.
type MilestoneList []Milestone

// NewMilestoneList materializes a pending checklist from a template of names.
func NewMilestoneList(names []string) MilestoneList {
	list := make(MilestoneList, 0, len(names))
	for _, name := range names {
		list = append(list, Milestone{Name: name, Status: enums.MilestoneStatusPending})
	}
	return list
}

// Value marshals the checklist into JSON for Postgres.
func (m MilestoneList) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan decodes JSONB into the checklist.
func (m *MilestoneList) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("milestones: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, m)
}

// Toggle flips the milestone at index, stamping or clearing completed_at.
// Toggling is independent per milestone; no ordering is enforced between them.
func (m MilestoneList) Toggle(index int, now time.Time) bool {
	if index < 0 || index >= len(m) {
		return false
	}
	m[index].Status = m[index].Status.Toggled()
	if m[index].Status == enums.MilestoneStatusCompleted {
		at := now
		m[index].CompletedAt = &at
	} else {
		m[index].CompletedAt = nil
	}
	return true
}

// CompletedCount returns the number of completed milestones.
func (m MilestoneList) CompletedCount() int {
	count := 0
	for _, milestone := range m {
		if milestone.Status == enums.MilestoneStatusCompleted {
			count++
		}
	}
	return count
}
