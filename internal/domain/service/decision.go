package service

import "github.com/bibbank/credit-risk/internal/domain/valueobject"

// LevelFor buckets p into Low (< 0.30), Medium (< 0.60) or High.
func LevelFor(p float64) valueobject.RiskLevel {
	return valueobject.RiskLevelFromProbability(p)
}

// StatusFor maps p to Rejected (> 0.60), Pending (> 0.45) or Approved.
// A p of exactly 0.60 is therefore High risk yet Pending.
func StatusFor(p float64) valueobject.ApplicationStatus {
	return valueobject.ApplicationStatusFromProbability(p)
}
