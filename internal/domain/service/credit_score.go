package service

const (
	MinCreditScore = 300.0
	MaxCreditScore = 850.0
	scoreSpan      = MaxCreditScore - MinCreditScore
)

// CreditScore maps a risk probability onto the 300-850 scale, strictly
// decreasing in p, rounded to 2 decimals.
func CreditScore(p float64) float64 {
	score := MaxCreditScore - p*scoreSpan
	switch {
	case score < MinCreditScore:
		score = MinCreditScore
	case score > MaxCreditScore:
		score = MaxCreditScore
	}
	return round(score, 2)
}
