package evaluation

import (
	"testing"

	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeFields() map[string]interface{} {
	return map[string]interface{}{
		"income_annual":        float64(90000),
		"credit_score":         float64(700),
		"employment_employer":  "Acme",
		"property_value":       float64(300000),
		"property_loan_amount": float64(240000),
	}
}

func TestEvaluate_MissingCategories(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]interface{}
		missing []string
	}{
		{
			name:    "empty mapping misses everything",
			fields:  map[string]interface{}{},
			missing: []string{"Income", "Credit", "Employment", "Property"},
		},
		{
			name: "income and credit only",
			fields: map[string]interface{}{
				"income_annual": float64(90000),
				"credit_score":  float64(700),
			},
			missing: []string{"Employment", "Property"},
		},
		{
			name: "legacy income synonym satisfies the category",
			fields: map[string]interface{}{
				"annual_income": float64(90000),
			},
			missing: []string{"Credit", "Employment", "Property"},
		},
		{
			name: "loan amount alone satisfies property",
			fields: map[string]interface{}{
				"income_annual":       float64(90000),
				"credit_score":        float64(700),
				"employment_employer": "Acme",
				"loan_amount":         float64(240000),
			},
			missing: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.fields)
			if len(tt.missing) > 0 {
				assert.Equal(t, domain.StatusRequiresAdditionalInfo, result.Status)
				assert.Equal(t, ReasonMissingInfo, result.StatusReason)
				assert.Equal(t, tt.missing, result.MissingRequirements)
			} else {
				assert.NotEqual(t, domain.StatusRequiresAdditionalInfo, result.Status)
				assert.Empty(t, result.MissingRequirements)
			}
		})
	}
}

func TestEvaluate_UnderReview(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fields map[string]interface{})
	}{
		{
			name: "non-numeric credit score",
			mutate: func(f map[string]interface{}) {
				f["credit_score"] = "not-a-number"
			},
		},
		{
			name: "negative income",
			mutate: func(f map[string]interface{}) {
				f["income_annual"] = float64(-1000)
			},
		},
		{
			name: "zero loan amount",
			mutate: func(f map[string]interface{}) {
				f["property_loan_amount"] = float64(0)
			},
		},
		{
			name: "property value only, no loan amount",
			mutate: func(f map[string]interface{}) {
				delete(f, "property_loan_amount")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := completeFields()
			tt.mutate(fields)
			result := Evaluate(fields)
			assert.Equal(t, domain.StatusUnderReview, result.Status)
			assert.Equal(t, ReasonUnderReview, result.StatusReason)
			assert.Empty(t, result.MissingRequirements)
		})
	}
}

func TestEvaluate_ApprovedScenario(t *testing.T) {
	result := Evaluate(completeFields())

	require.Equal(t, domain.StatusApproved, result.Status)
	assert.Empty(t, result.MissingRequirements)
	// $240,000 at 7%/30yr is about $1,596.73/month against $7,500 monthly income
	require.NotNil(t, result.MonthlyPayment)
	assert.Equal(t, "1596.73", result.MonthlyPayment.Round(2).String())
	assert.Contains(t, result.StatusReason, "700")
	assert.Contains(t, result.StatusReason, "21.3")
}

func TestEvaluate_RejectedOnCreditScore(t *testing.T) {
	fields := completeFields()
	fields["credit_score"] = float64(649)

	result := Evaluate(fields)

	require.Equal(t, domain.StatusRejected, result.Status)
	assert.Contains(t, result.StatusReason, "649 < 650")
	assert.Empty(t, result.MissingRequirements)
}

func TestEvaluate_RejectedOnDTI(t *testing.T) {
	fields := completeFields()
	fields["credit_score"] = float64(720)
	fields["property_loan_amount"] = float64(1000000)

	result := Evaluate(fields)

	require.Equal(t, domain.StatusRejected, result.Status)
	assert.Contains(t, result.StatusReason, "DTI")
	assert.Contains(t, result.StatusReason, "88.7")
	assert.NotContains(t, result.StatusReason, "720 <")
}

func TestEvaluate_RejectedOnBothCriteria(t *testing.T) {
	fields := completeFields()
	fields["credit_score"] = float64(600)
	fields["property_loan_amount"] = float64(1000000)

	result := Evaluate(fields)

	require.Equal(t, domain.StatusRejected, result.Status)
	assert.Contains(t, result.StatusReason, "600 < 650")
	assert.Contains(t, result.StatusReason, "DTI")
	assert.Contains(t, result.StatusReason, ";")
}

func TestEvaluate_BoundariesAreInclusive(t *testing.T) {
	// A zero rate makes the payment exact (P/n), so DTI can hit the
	// threshold precisely: 15480/360 = 43/month against 100/month income.
	oldRate := AnnualRate
	AnnualRate = decimal.Zero
	defer func() { AnnualRate = oldRate }()

	fields := map[string]interface{}{
		"income_annual":        float64(1200),
		"credit_score":         float64(650),
		"employment_employer":  "Acme",
		"property_loan_amount": float64(15480),
	}

	result := Evaluate(fields)

	require.NotNil(t, result.DTI)
	assert.True(t, result.DTI.Equal(decimal.NewFromFloat(0.43)))
	assert.Equal(t, domain.StatusApproved, result.Status)
}

func TestEvaluate_Idempotent(t *testing.T) {
	fields := completeFields()

	first := Evaluate(fields)
	second := Evaluate(fields)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.StatusReason, second.StatusReason)
	assert.Equal(t, first.MissingRequirements, second.MissingRequirements)
}

func TestEvaluate_LegacySynonyms(t *testing.T) {
	fields := map[string]interface{}{
		"annual_income": float64(90000),
		"credit_score":  float64(700),
		"employer_name": "Acme",
		"loan_amount":   float64(240000),
	}

	result := Evaluate(fields)

	assert.Equal(t, domain.StatusApproved, result.Status)
	require.NotNil(t, result.Profile.Income)
	assert.Equal(t, "90000", result.Profile.Income.String())
	assert.Equal(t, "Acme", result.Profile.Employer)
}

func TestEvaluate_NumericStringsAccepted(t *testing.T) {
	fields := map[string]interface{}{
		"income_annual":        "90000",
		"credit_score":         "700",
		"employment_employer":  "Acme",
		"property_loan_amount": "240000",
	}

	result := Evaluate(fields)

	assert.Equal(t, domain.StatusApproved, result.Status)
}

func TestEvaluate_UnknownKeysLandInExtra(t *testing.T) {
	fields := completeFields()
	fields["notes"] = "first-time buyer"

	result := Evaluate(fields)

	assert.Equal(t, "first-time buyer", result.Profile.Extra["notes"])
}

func TestMonthlyPayment(t *testing.T) {
	payment := MonthlyPayment(decimal.NewFromInt(240000), decimal.NewFromFloat(0.07), 360)
	assert.Equal(t, "1596.73", payment.Round(2).String())

	// zero rate degenerates to straight division
	flat := MonthlyPayment(decimal.NewFromInt(360000), decimal.Zero, 360)
	assert.True(t, flat.Equal(decimal.NewFromInt(1000)))
}
