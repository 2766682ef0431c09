package service

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	lowRiskBelow         = 0.30
	lowModerateBelow     = 0.45
	moderateBelow        = 0.60
	manualReviewDTIAbove = 0.35
	weakScoreBelow       = 500.0
)

// Recommend composes the rationale shown with a decision.
func Recommend(p, dti, lti, score float64) string {
	switch {
	case p < lowRiskBelow:
		return "Low risk - Strong financial profile with healthy debt ratios"
	case p < lowModerateBelow:
		return "Low-moderate risk - Acceptable financial metrics within safe thresholds"
	case p < moderateBelow:
		if dti > manualReviewDTIAbove {
			return fmt.Sprintf("Moderate risk - DTI ratio (%.1f%%) approaching threshold, manual review recommended", dti*100)
		}
		return "Moderate risk - Some risk factors present, requires additional assessment"
	}

	var reasons []string
	if dti > highDTIAbove {
		reasons = append(reasons, fmt.Sprintf("DTI ratio (%.1f%%) exceeds safe threshold (40%%)", dti*100))
	}
	if lti > highLTIAbove {
		reasons = append(reasons, fmt.Sprintf("LTI ratio (%.2fx) indicates high loan burden", lti))
	}
	if score < weakScoreBelow {
		reasons = append(reasons, fmt.Sprintf("Credit score (%s) below acceptable range", strconv.FormatFloat(score, 'f', -1, 64)))
	}

	if len(reasons) == 0 {
		return "High risk - Multiple risk factors indicate elevated default probability"
	}
	return "High risk - " + strings.Join(reasons, "; ")
}
