package model

import (
	"context"
	"sort"
)

// Classifier returns P(high risk) for a feature vector laid out in the
// schema the classifier was trained on.
type Classifier interface {
	PredictProba(ctx context.Context, v FeatureVector) (float64, error)
}

// LoadedModel is a trained classifier paired with its column contract.
// It is built once by the model cache and never mutated.
type LoadedModel struct {
	id          string
	classifier  Classifier
	schema      FeatureSchema
	importances map[string]float64
	baseline    map[string]float64
	attribution bool
}

// NewLoadedModel assembles a LoadedModel. attribution reports whether
// per-request attribution is supported for this artifact.
func NewLoadedModel(
	id string,
	classifier Classifier,
	schema FeatureSchema,
	importances, baseline map[string]float64,
	attribution bool,
) *LoadedModel {
	return &LoadedModel{
		id:          id,
		classifier:  classifier,
		schema:      schema,
		importances: cloneMap(importances),
		baseline:    cloneMap(baseline),
		attribution: attribution,
	}
}

func (m *LoadedModel) ID() string                { return m.id }
func (m *LoadedModel) Classifier() Classifier    { return m.classifier }
func (m *LoadedModel) Schema() FeatureSchema     { return m.schema }
func (m *LoadedModel) SupportsAttribution() bool { return m.attribution }

// Baseline returns the reference value for column, or 0 when unset.
func (m *LoadedModel) Baseline(column string) float64 { return m.baseline[column] }

// TopImportances returns the k most important features by static importance,
// highest first, ties broken by column order.
func (m *LoadedModel) TopImportances(k int) []Contribution {
	out := make([]Contribution, 0, len(m.importances))
	for _, col := range m.schema.columns {
		if w, ok := m.importances[col]; ok {
			out = append(out, Contribution{Feature: col, Impact: w})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Impact > out[j].Impact })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func cloneMap(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
