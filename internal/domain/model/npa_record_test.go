package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/domain/event"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

func classification(cat valueobject.NPACategory, provision string) model.NPAClassification {
	return model.NPAClassification{Category: cat, Provision: decimal.RequireFromString(provision)}
}

func TestNewNPARecord(t *testing.T) {
	r, err := model.NewNPARecord("tenant-1", "LN-1", 120, decimal.NewFromInt(100_000),
		classification(valueobject.NPASubStandard, "15000.00"), now)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Version())
	assert.Equal(t, valueobject.NPASubStandard, r.Category())
	require.Len(t, r.DomainEvents(), 1)
	evt := r.DomainEvents()[0].(event.NPAClassified)
	assert.Equal(t, "Sub-Standard", evt.Category)
	assert.Empty(t, evt.PreviousCategory)
	assert.Equal(t, "15000.00", evt.ProvisionAmount)
}

func TestNewNPARecord_Invalid(t *testing.T) {
	c := classification(valueobject.NPAStandard, "0")
	_, err := model.NewNPARecord("", "LN-1", 0, decimal.Zero, c, now)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = model.NewNPARecord("t", "", 0, decimal.Zero, c, now)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = model.NewNPARecord("t", "LN-1", -1, decimal.Zero, c, now)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = model.NewNPARecord("t", "LN-1", 0, decimal.NewFromInt(-5), c, now)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestNPARecord_Reclassify(t *testing.T) {
	r, err := model.NewNPARecord("tenant-1", "LN-1", 30, decimal.NewFromInt(100_000),
		classification(valueobject.NPAStandard, "400.00"), now)
	require.NoError(t, err)
	r = r.ClearEvents()

	same, err := r.Reclassify(60, decimal.NewFromInt(90_000), classification(valueobject.NPAStandard, "360.00"), now)
	require.NoError(t, err)
	assert.Equal(t, 2, same.Version())
	assert.Empty(t, same.DomainEvents(), "no event without a category change")

	moved, err := same.Reclassify(400, decimal.NewFromInt(90_000), classification(valueobject.NPADoubtful, "36000.00"), now)
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Version())
	require.Len(t, moved.DomainEvents(), 1)
	evt := moved.DomainEvents()[0].(event.NPAClassified)
	assert.Equal(t, "Standard", evt.PreviousCategory)
	assert.Equal(t, "Doubtful", evt.Category)
	assert.Equal(t, 30, r.OverdueDays(), "receiver is unchanged")
}
