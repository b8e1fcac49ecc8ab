package assignment

import (
	"errors"
	"time"
)

// ===============================
// Engine input / output
// ===============================

type Request struct {
	ShopID uint

	// AppointmentID is the appointment being (re)assigned; zero for a
	// brand-new booking. Used only for conflict self-exclusion.
	AppointmentID uint

	ServiceIDs []uint

	// Date is shop-local midnight of the appointment day. StartMinute is
	// minutes after midnight; times are wall clock, no timezone math.
	Date        time.Time
	StartMinute int
	DurationMin int
}

type Status string

const (
	// StatusAssigned: bay and technician both chosen.
	StatusAssigned Status = "assigned"

	// StatusBayOnly: a bay was chosen but no technician survived
	// qualification, availability, or conflict filtering. The caller
	// persists the bay and leaves the technician for backfill.
	StatusBayOnly Status = "bay_only"

	// StatusUnassigned: no active bay of the required type (or the
	// general-service fallback) exists.
	StatusUnassigned Status = "unassigned"
)

// Result is the engine's only output. Non-assignment is a normal outcome
// carried in Status, never an error.
type Result struct {
	Status       Status `json:"status"`
	BayID        uint   `json:"bay_id,omitempty"`
	TechnicianID uint   `json:"technician_id,omitempty"`
}

// ===============================
// Data-integrity errors (strict mode)
// ===============================

var (
	ErrUnknownService = errors.New("unknown service")
	ErrInvalidTag     = errors.New("invalid catalog tag")
)
