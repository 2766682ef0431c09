package ml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the artifact descriptor expected in the model directory.
const ManifestFile = "manifest.yaml"

// Supported artifact formats.
const (
	FormatLogistic = "logistic"
	FormatONNX     = "onnx"
)

// Attribution modes.
const (
	AttributionOcclusion = "occlusion"
	AttributionNone      = "none"
)

// Manifest describes a trained model export.
type Manifest struct {
	ModelID            string             `yaml:"model_id"`
	Format             string             `yaml:"format"`
	Columns            []string           `yaml:"columns"`
	FeatureImportances map[string]float64 `yaml:"feature_importances"`
	Baseline           map[string]float64 `yaml:"baseline"`
	Attribution        string             `yaml:"attribution"`
	Logistic           *LogisticParams    `yaml:"logistic,omitempty"`
	ONNX               *ONNXParams        `yaml:"onnx,omitempty"`
}

// LogisticParams holds the weights of a binary logistic regression.
type LogisticParams struct {
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
}

// ONNXParams locates an ONNX graph relative to the model directory.
type ONNXParams struct {
	File   string `yaml:"file"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	// SharedLibrary is the onnxruntime library path; relative paths resolve
	// against the model directory.
	SharedLibrary string `yaml:"shared_library"`
}

// ReadManifest parses dir/manifest.yaml.
func ReadManifest(dir string) (Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Attribution == "" {
		m.Attribution = AttributionOcclusion
	}
	return m, m.validate()
}

func (m Manifest) validate() error {
	if m.ModelID == "" {
		return errors.New("manifest: model_id is required")
	}
	switch m.Attribution {
	case AttributionOcclusion, AttributionNone:
	default:
		return fmt.Errorf("manifest: unknown attribution %q", m.Attribution)
	}

	switch m.Format {
	case FormatLogistic:
		if m.Logistic == nil {
			return errors.New("manifest: logistic format without logistic parameters")
		}
		if len(m.Logistic.Coefficients) != len(m.Columns) {
			return fmt.Errorf("manifest: %d coefficients for %d columns", len(m.Logistic.Coefficients), len(m.Columns))
		}
	case FormatONNX:
		if m.ONNX == nil || m.ONNX.File == "" {
			return errors.New("manifest: onnx format without onnx.file")
		}
	default:
		return fmt.Errorf("manifest: unknown format %q", m.Format)
	}
	return nil
}
