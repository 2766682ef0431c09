package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
)

const referenceModelDir = "../../models"

func runCLI(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	t.Setenv("MODEL_DIR", "")
	var out bytes.Buffer
	err := newApp(&out, io.Discard).Run(context.Background(), append([]string{"riskctl"}, args...))
	return out.Bytes(), err
}

var highRiskFlags = []string{
	"--loan-amount", "2000000",
	"--tenure", "36",
	"--rate", "9.5",
	"--income", "75000",
	"--experience", "5",
	"--age", "30",
	"--purpose", "Home Purchase",
	"--employment", "Salaried",
}

func TestQuote(t *testing.T) {
	out, err := runCLI(t, "quote", "--loan-amount", "2000000", "--tenure", "36", "--rate", "9.5", "--income", "75000")
	require.NoError(t, err)

	var resp dto.QuoteLoanResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, 64065.90, resp.EstimatedEMI)
	assert.Equal(t, 0.8542, resp.DTI)
}

func TestAssess_FallbackFromFlags(t *testing.T) {
	out, err := runCLI(t, append([]string{"assess"}, highRiskFlags...)...)
	require.NoError(t, err)

	var resp dto.AssessmentResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, 0.85, resp.RiskProbability)
	assert.Equal(t, 382.5, resp.CreditScore)
	assert.Equal(t, "Rejected", resp.Status)
	assert.Equal(t, "rule_based_fallback", resp.ModelUsed)
}

func TestAssess_WithReferenceModel(t *testing.T) {
	out, err := runCLI(t, append([]string{"--model-dir", referenceModelDir, "assess"}, highRiskFlags...)...)
	require.NoError(t, err)

	var resp dto.AssessmentResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "logreg_reference_v1", resp.ModelUsed)
	assert.Greater(t, resp.RiskProbability, 0.5)
	require.NotEmpty(t, resp.TopRiskFactors)
	assert.Equal(t, "debt_to_income_ratio", resp.TopRiskFactors[0].Feature)
}

func TestAssess_BatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- customer_id: C-1
  loan_amount: 300000
  tenure_months: 24
  interest_rate: 10
  monthly_income: 250000
  years_of_experience: 10
- customer_id: C-2
  loan_amount: 0
  tenure_months: 12
`), 0o600))

	out, err := runCLI(t, "--output", "yaml", "assess", "--file", path)
	require.NoError(t, err)

	var resp dto.BatchAssessResponse
	require.NoError(t, yaml.Unmarshal(out, &resp))
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Approved", resp.Results[0].Assessment.Status)
	assert.Contains(t, resp.Results[1].Error, "loan_amount")
}

func TestAssess_SingleJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"customer_id":"C-9","loan_amount":2000000,"tenure_months":36,"interest_rate":9.5,"monthly_income":75000}`), 0o600))

	out, err := runCLI(t, "assess", "-f", path)
	require.NoError(t, err)

	var resp dto.AssessmentResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "C-9", resp.CustomerID)
	assert.Equal(t, "High", resp.RiskLevel)
}

func TestFeatures_ColumnOrder(t *testing.T) {
	out, err := runCLI(t, append([]string{"features"}, highRiskFlags...)...)
	require.NoError(t, err)

	var row featureRow
	require.NoError(t, json.Unmarshal(out, &row))
	require.Len(t, row.Columns, 31)
	require.Len(t, row.Values, 31)
	assert.Equal(t, model.CoreColumns[:], row.Columns[:model.NumCoreFeatures])
	assert.Equal(t, "debt_to_income_ratio", row.Columns[8])
	assert.Equal(t, 0.8542, row.Values[8])
	assert.Equal(t, 1.0, row.Values[17], "high_dti_flag")
}

func TestNPAClassify(t *testing.T) {
	out, err := runCLI(t, "-o", "yaml", "npa", "classify", "--overdue-days", "120", "--outstanding", "100000")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, yaml.Unmarshal(out, &resp))
	assert.Equal(t, "Sub-Standard", resp["category"])
	assert.Equal(t, true, resp["non_performing"])
}

func TestModelVerify(t *testing.T) {
	out, err := runCLI(t, "model", "verify", referenceModelDir)
	require.NoError(t, err)

	var res verifyResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, "logreg_reference_v1", res.ModelID)
	assert.Equal(t, 31, res.Columns)
	assert.True(t, res.Attribution)
	assert.Greater(t, res.SampleProbability, 0.0)
	assert.Less(t, res.SampleProbability, 1.0)

	_, err = runCLI(t, "model", "verify", t.TempDir())
	assert.Error(t, err)
}

func TestUnsupportedOutput(t *testing.T) {
	_, err := runCLI(t, "--output", "xml", "quote", "--loan-amount", "1000", "--tenure", "12")
	assert.ErrorContains(t, err, "unsupported output format")
}
