package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed identifiers and clock for deterministic tests.
var (
	TestTenantID   = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestUserID     = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestCustomerID = "CUST-0001"
	TestNow        = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
)

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
