package ml

import (
	"context"
	"fmt"
	"math"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// LogisticClassifier evaluates sigmoid(intercept + w·x) in process.
type LogisticClassifier struct {
	intercept float64
	weights   []float64
}

func NewLogisticClassifier(p LogisticParams) *LogisticClassifier {
	w := make([]float64, len(p.Coefficients))
	copy(w, p.Coefficients)
	return &LogisticClassifier{intercept: p.Intercept, weights: w}
}

func (c *LogisticClassifier) PredictProba(_ context.Context, v model.FeatureVector) (float64, error) {
	if v.Len() != len(c.weights) {
		return 0, fmt.Errorf("logistic: %d features for %d weights", v.Len(), len(c.weights))
	}
	z := c.intercept
	for i, w := range c.weights {
		z += w * v.At(i)
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
