package valueobject

import "fmt"

// ApplicationStatus is the decision outcome for a loan application.
// Pending awaits manual disposition outside this service.
type ApplicationStatus struct {
	value string
}

var (
	StatusApproved = ApplicationStatus{value: "Approved"}
	StatusPending  = ApplicationStatus{value: "Pending"}
	StatusRejected = ApplicationStatus{value: "Rejected"}
)

const (
	rejectAbove  = 0.60
	pendingAbove = 0.45
)

// ApplicationStatusFromString reconstructs an ApplicationStatus.
func ApplicationStatusFromString(s string) (ApplicationStatus, error) {
	switch s {
	case "Approved":
		return StatusApproved, nil
	case "Pending":
		return StatusPending, nil
	case "Rejected":
		return StatusRejected, nil
	default:
		return ApplicationStatus{}, fmt.Errorf("invalid application status: %q", s)
	}
}

// ApplicationStatusFromProbability maps p > 0.60 to Rejected, p > 0.45 to
// Pending, and everything else to Approved.
func ApplicationStatusFromProbability(p float64) ApplicationStatus {
	switch {
	case p > rejectAbove:
		return StatusRejected
	case p > pendingAbove:
		return StatusPending
	default:
		return StatusApproved
	}
}

func (s ApplicationStatus) String() string { return s.value }

// IsTerminal is false only for Pending.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s ApplicationStatus) IsZero() bool { return s.value == "" }

func (s ApplicationStatus) Equal(other ApplicationStatus) bool { return s.value == other.value }
