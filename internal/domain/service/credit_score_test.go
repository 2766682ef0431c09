package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/credit-risk/internal/domain/service"
)

func TestCreditScore_Endpoints(t *testing.T) {
	assert.Equal(t, 850.0, service.CreditScore(0))
	assert.Equal(t, 300.0, service.CreditScore(1))
	assert.Equal(t, 382.5, service.CreditScore(0.85))
}

func TestCreditScore_Clamped(t *testing.T) {
	assert.Equal(t, 850.0, service.CreditScore(-0.5))
	assert.Equal(t, 300.0, service.CreditScore(1.7))
}

func TestCreditScore_MonotonicDecreasing(t *testing.T) {
	prev := service.CreditScore(0)
	for i := 1; i <= 1000; i++ {
		score := service.CreditScore(float64(i) / 1000)
		assert.LessOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 300.0)
		prev = score
	}
}
