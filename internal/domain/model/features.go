package model

import (
	"fmt"
	"math"
	"strings"
)

// NumCoreFeatures is the number of numeric columns that precede the one-hot block.
const NumCoreFeatures = 22

// One-hot column prefixes.
const (
	PurposePrefix        = "purpose_"
	EmploymentTypePrefix = "emp_type_"
)

// CoreColumns is the fixed leading column order shared by training export and
// online scoring. CoreFeatures.Values must follow the same order.
var CoreColumns = [NumCoreFeatures]string{
	"loan_amount",
	"loan_tenure_months",
	"interest_rate",
	"monthly_income",
	"annual_income",
	"years_of_experience",
	"age",
	"estimated_emi",
	"debt_to_income_ratio",
	"loan_to_income_ratio",
	"emi_to_income_ratio",
	"loan_per_month",
	"total_interest",
	"interest_to_principal",
	"income_per_year_exp",
	"log_income",
	"log_loan_amount",
	"high_dti_flag",
	"high_lti_flag",
	"high_interest_flag",
	"young_borrower_flag",
	"low_experience_flag",
}

// CoreFeatures holds the derived numeric features of one profile.
type CoreFeatures struct {
	LoanAmount          float64
	LoanTenureMonths    float64
	InterestRate        float64
	MonthlyIncome       float64
	AnnualIncome        float64
	YearsOfExperience   float64
	Age                 float64
	EstimatedEMI        float64
	DebtToIncomeRatio   float64
	LoanToIncomeRatio   float64
	EMIToIncomeRatio    float64
	LoanPerMonth        float64
	TotalInterest       float64
	InterestToPrincipal float64
	IncomePerYearExp    float64
	LogIncome           float64
	LogLoanAmount       float64
	HighDTIFlag         float64
	HighLTIFlag         float64
	HighInterestFlag    float64
	YoungBorrowerFlag   float64
	LowExperienceFlag   float64
}

// Values returns the features in CoreColumns order.
func (c CoreFeatures) Values() [NumCoreFeatures]float64 {
	return [NumCoreFeatures]float64{
		c.LoanAmount,
		c.LoanTenureMonths,
		c.InterestRate,
		c.MonthlyIncome,
		c.AnnualIncome,
		c.YearsOfExperience,
		c.Age,
		c.EstimatedEMI,
		c.DebtToIncomeRatio,
		c.LoanToIncomeRatio,
		c.EMIToIncomeRatio,
		c.LoanPerMonth,
		c.TotalInterest,
		c.InterestToPrincipal,
		c.IncomePerYearExp,
		c.LogIncome,
		c.LogLoanAmount,
		c.HighDTIFlag,
		c.HighLTIFlag,
		c.HighInterestFlag,
		c.YoungBorrowerFlag,
		c.LowExperienceFlag,
	}
}

// ---------------------------------------------------------------------------
// FeatureSchema
// ---------------------------------------------------------------------------

// FeatureSchema is the validated, ordered column list a model expects.
type FeatureSchema struct {
	columns []string
	index   map[string]int
}

// DefaultPurposes and DefaultEmploymentTypes give the one-hot columns used
// when no model artifact supplies its own list.
var (
	DefaultPurposes        = []string{"Business Expansion", "Education", "Home Purchase", "Personal", "Vehicle Loan"}
	DefaultEmploymentTypes = []string{"Business", "Freelancer", "Salaried", "Self-Employed"}
)

// NewFeatureSchema validates columns: the first NumCoreFeatures entries must
// equal CoreColumns and every remaining entry must be a unique one-hot column.
func NewFeatureSchema(columns []string) (FeatureSchema, error) {
	if len(columns) < NumCoreFeatures {
		return FeatureSchema{}, fmt.Errorf("feature schema: %d columns, need at least %d", len(columns), NumCoreFeatures)
	}
	for i, want := range CoreColumns {
		if columns[i] != want {
			return FeatureSchema{}, fmt.Errorf("feature schema: column %d is %q, want %q", i, columns[i], want)
		}
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return FeatureSchema{}, fmt.Errorf("feature schema: duplicate column %q", col)
		}
		if i >= NumCoreFeatures && !isOneHot(col) {
			return FeatureSchema{}, fmt.Errorf("feature schema: column %q is neither core nor one-hot", col)
		}
		index[col] = i
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return FeatureSchema{columns: cols, index: index}, nil
}

// DefaultSchema returns the schema used by the CLI feature export and by
// scoring when no artifact is present.
func DefaultSchema() FeatureSchema {
	cols := make([]string, 0, NumCoreFeatures+len(DefaultPurposes)+len(DefaultEmploymentTypes))
	cols = append(cols, CoreColumns[:]...)
	for _, p := range DefaultPurposes {
		cols = append(cols, PurposePrefix+p)
	}
	for _, e := range DefaultEmploymentTypes {
		cols = append(cols, EmploymentTypePrefix+e)
	}
	schema, err := NewFeatureSchema(cols)
	if err != nil {
		panic(err)
	}
	return schema
}

func isOneHot(col string) bool {
	return (strings.HasPrefix(col, PurposePrefix) && len(col) > len(PurposePrefix)) ||
		(strings.HasPrefix(col, EmploymentTypePrefix) && len(col) > len(EmploymentTypePrefix))
}

// Columns returns a copy of the ordered column names.
func (s FeatureSchema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Width is the vector length this schema produces.
func (s FeatureSchema) Width() int { return len(s.columns) }

// Index returns the position of col, or -1.
func (s FeatureSchema) Index(col string) int {
	if i, ok := s.index[col]; ok {
		return i
	}
	return -1
}

// Column returns the column name at position i.
func (s FeatureSchema) Column(i int) string { return s.columns[i] }

// IsZero reports whether the schema was never constructed.
func (s FeatureSchema) IsZero() bool { return len(s.columns) == 0 }

// ---------------------------------------------------------------------------
// FeatureVector
// ---------------------------------------------------------------------------

// FeatureVector pairs ordered values with the schema that gives them meaning.
type FeatureVector struct {
	schema FeatureSchema
	values []float64
}

// NewFeatureVector checks that values matches the schema width and is finite.
func NewFeatureVector(schema FeatureSchema, values []float64) (FeatureVector, error) {
	if len(values) != schema.Width() {
		return FeatureVector{}, fmt.Errorf("feature vector: %d values for %d columns", len(values), schema.Width())
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureVector{}, fmt.Errorf("feature vector: %s is not finite", schema.Column(i))
		}
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	return FeatureVector{schema: schema, values: vals}, nil
}

func (v FeatureVector) Schema() FeatureSchema { return v.schema }
func (v FeatureVector) Len() int              { return len(v.values) }
func (v FeatureVector) At(i int) float64      { return v.values[i] }

// Values returns a copy of the ordered values.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Float32 returns the values narrowed for tensor inputs.
func (v FeatureVector) Float32() []float32 {
	out := make([]float32, len(v.values))
	for i, x := range v.values {
		out[i] = float32(x)
	}
	return out
}

// With returns a copy of v with position i replaced by x.
func (v FeatureVector) With(i int, x float64) FeatureVector {
	vals := v.Values()
	vals[i] = x
	return FeatureVector{schema: v.schema, values: vals}
}
