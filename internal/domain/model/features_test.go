package model_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

func TestDefaultSchema(t *testing.T) {
	s := model.DefaultSchema()
	assert.Equal(t, 31, s.Width())
	assert.Equal(t, 0, s.Index("loan_amount"))
	assert.Equal(t, 8, s.Index("debt_to_income_ratio"))
	assert.Equal(t, 22, s.Index("loan_purpose_Business Expansion"))
	assert.Equal(t, 30, s.Index("employment_type_Self-Employed"))
	assert.Equal(t, -1, s.Index("unknown"))
	assert.False(t, s.IsZero())
}

func TestNewFeatureSchema_Validation(t *testing.T) {
	core := model.CoreColumns[:]

	_, err := model.NewFeatureSchema(core[:10])
	assert.Error(t, err, "too short")

	swapped := append([]string(nil), core...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	_, err = model.NewFeatureSchema(swapped)
	assert.Error(t, err, "core order")

	_, err = model.NewFeatureSchema(append(append([]string(nil), core...), "loan_purpose_Personal", "loan_purpose_Personal"))
	assert.Error(t, err, "duplicate")

	_, err = model.NewFeatureSchema(append(append([]string(nil), core...), "credit_history"))
	assert.Error(t, err, "not one-hot")

	_, err = model.NewFeatureSchema(append(append([]string(nil), core...), "loan_purpose_"))
	assert.Error(t, err, "empty category")

	s, err := model.NewFeatureSchema(append(append([]string(nil), core...), "loan_purpose_Gold Loan"))
	require.NoError(t, err)
	assert.Equal(t, 23, s.Width())
}

func TestSchemaColumnsIsACopy(t *testing.T) {
	s := model.DefaultSchema()
	cols := s.Columns()
	cols[0] = "mutated"
	assert.Equal(t, "loan_amount", s.Column(0))
}

func TestNewFeatureVector(t *testing.T) {
	s := model.DefaultSchema()

	_, err := model.NewFeatureVector(s, make([]float64, 5))
	assert.Error(t, err)

	vals := make([]float64, s.Width())
	vals[3] = math.NaN()
	_, err = model.NewFeatureVector(s, vals)
	assert.Error(t, err)

	vals[3] = 75_000
	v, err := model.NewFeatureVector(s, vals)
	require.NoError(t, err)
	vals[3] = 1
	assert.Equal(t, 75_000.0, v.At(3), "constructor copies its input")

	w := v.With(3, 10)
	assert.Equal(t, 10.0, w.At(3))
	assert.Equal(t, 75_000.0, v.At(3), "With leaves the receiver unchanged")
	assert.Equal(t, float32(10), w.Float32()[3])
	assert.Len(t, w.Values(), 31)
}

func TestTopImportances(t *testing.T) {
	m := model.NewLoadedModel("m1", nil, model.DefaultSchema(),
		map[string]float64{"age": 0.1, "loan_amount": 0.1, "debt_to_income_ratio": 0.5},
		nil, true)

	top := m.TopImportances(2)
	require.Len(t, top, 2)
	assert.Equal(t, "debt_to_income_ratio", top[0].Feature)
	assert.Equal(t, "loan_amount", top[1].Feature, "ties keep schema order")
	assert.Equal(t, 0.0, m.Baseline("age"))
}
