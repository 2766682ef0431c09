package ml

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// Loader produces a ready-to-score model. It is called at most once per
// ModelCache.
type Loader func(ctx context.Context) (*model.LoadedModel, error)

// DirLoader returns a Loader that reads the artifact in dir.
func DirLoader(dir string) Loader {
	return func(context.Context) (*model.LoadedModel, error) {
		return LoadDir(dir)
	}
}

// LoadDir reads the manifest in dir, checks it against the feature contract
// and builds the matching classifier.
func LoadDir(dir string) (*model.LoadedModel, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	schema, err := model.NewFeatureSchema(m.Columns)
	if err != nil {
		return nil, fmt.Errorf("manifest columns: %w", err)
	}

	var clf model.Classifier
	switch m.Format {
	case FormatLogistic:
		clf = NewLogisticClassifier(*m.Logistic)
	case FormatONNX:
		clf, err = NewONNXClassifier(dir, *m.ONNX, schema.Width())
		if err != nil {
			return nil, err
		}
	}

	return model.NewLoadedModel(
		m.ModelID,
		clf,
		schema,
		m.FeatureImportances,
		m.Baseline,
		m.Attribution == AttributionOcclusion,
	), nil
}
