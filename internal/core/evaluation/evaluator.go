package evaluation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Underwriting thresholds and loan terms
var (
	MinCreditScore = decimal.NewFromInt(650)
	MaxDTI         = decimal.NewFromFloat(0.43)
	AnnualRate     = decimal.NewFromFloat(0.07)
)

// TermMonths is the fixed amortization term (30 years)
const TermMonths int64 = 360

// Status reasons
const (
	ReasonPending     = "Application submitted - awaiting documentation"
	ReasonMissingInfo = "Additional information required"
	ReasonUnderReview = "All documents received - under manual review for missing financial data"
)

// Field keys accepted per category. Each list is an ordered fallback chain:
// the first present key wins, legacy synonyms come last.
var (
	incomeKeys       = []string{"income_annual", "annual_income"}
	creditKeys       = []string{"credit_score"}
	employmentKeys   = []string{"employment_employer", "employer_name"}
	propertyKeys     = []string{"property_value", "property_loan_amount", "loan_amount"}
	loanAmountKeys   = []string{"property_loan_amount", "loan_amount"}
	propertyValueKey = "property_value"
)

var categoryKeys = map[domain.RequirementCategory][]string{
	domain.CategoryIncome:     incomeKeys,
	domain.CategoryCredit:     creditKeys,
	domain.CategoryEmployment: employmentKeys,
	domain.CategoryProperty:   propertyKeys,
}

// Profile is the typed view of an application's open field mapping.
// Nil pointers mean the field is absent or could not be coerced to a number.
type Profile struct {
	Income        *decimal.Decimal
	CreditScore   *decimal.Decimal
	LoanAmount    *decimal.Decimal
	PropertyValue *decimal.Decimal
	Employer      string
	Extra         map[string]interface{}
}

// Result is the outcome of evaluating a field mapping
type Result struct {
	Status              domain.ApplicationStatus
	StatusReason        string
	MissingRequirements []string
	Profile             Profile
	MonthlyPayment      *decimal.Decimal
	DTI                 *decimal.Decimal
}

// Evaluate derives status, reason and missing requirements from the full
// field mapping of an application. It is a pure function: same mapping in,
// same result out. Malformed numeric values are treated as absent, never as
// an error.
func Evaluate(fields map[string]interface{}) Result {
	profile := buildProfile(fields)

	missing := missingCategories(fields)
	if len(missing) > 0 {
		return Result{
			Status:              domain.StatusRequiresAdditionalInfo,
			StatusReason:        ReasonMissingInfo,
			MissingRequirements: missing,
			Profile:             profile,
		}
	}

	income := profile.Income
	score := profile.CreditScore
	loan := profile.LoanAmount

	if !isPositive(income) || !isPositive(score) || !isPositive(loan) {
		return Result{
			Status:              domain.StatusUnderReview,
			StatusReason:        ReasonUnderReview,
			MissingRequirements: []string{},
			Profile:             profile,
		}
	}

	monthlyIncome := income.Div(decimal.NewFromInt(12))
	payment := MonthlyPayment(*loan, AnnualRate, TermMonths)
	dti := payment.Div(monthlyIncome)
	dtiPct := dti.Mul(decimal.NewFromInt(100)).Round(1)

	result := Result{
		MissingRequirements: []string{},
		Profile:             profile,
		MonthlyPayment:      &payment,
		DTI:                 &dti,
	}

	var failures []string
	if score.Cmp(MinCreditScore) < 0 {
		failures = append(failures, fmt.Sprintf("credit score %s < %s", score, MinCreditScore))
	}
	if dti.Cmp(MaxDTI) > 0 {
		failures = append(failures, fmt.Sprintf("DTI %s%% > %s%%", dtiPct, MaxDTI.Mul(decimal.NewFromInt(100))))
	}

	if len(failures) > 0 {
		result.Status = domain.StatusRejected
		result.StatusReason = "Rejected - " + strings.Join(failures, "; ")
		return result
	}

	result.Status = domain.StatusApproved
	result.StatusReason = fmt.Sprintf("Approved - credit score %s, DTI %s%%", score, dtiPct)
	return result
}

// MonthlyPayment computes the fixed-rate amortized monthly payment:
// M = P*r*(1+r)^n / ((1+r)^n - 1), r = annualRate/12.
// A zero rate degenerates to straight principal division.
func MonthlyPayment(principal, annualRate decimal.Decimal, months int64) decimal.Decimal {
	n := decimal.NewFromInt(months)
	if annualRate.IsZero() {
		return principal.Div(n)
	}
	one := decimal.NewFromInt(1)
	r := annualRate.Div(decimal.NewFromInt(12))
	compound := one.Add(r).Pow(n)
	return principal.Mul(r).Mul(compound).Div(compound.Sub(one))
}

// missingCategories returns the unsatisfied categories in fixed order.
// A category is satisfied by mere presence of any of its keys.
func missingCategories(fields map[string]interface{}) []string {
	var missing []string
	for _, cat := range domain.AllCategories {
		satisfied := false
		for _, key := range categoryKeys[cat] {
			if _, ok := fields[key]; ok {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, string(cat))
		}
	}
	return missing
}

func buildProfile(fields map[string]interface{}) Profile {
	profile := Profile{
		Income:      lookupDecimal(fields, incomeKeys),
		CreditScore: lookupDecimal(fields, creditKeys),
		LoanAmount:  lookupDecimal(fields, loanAmountKeys),
		Employer:    lookupString(fields, employmentKeys),
	}
	if v, ok := fields[propertyValueKey]; ok {
		if d, ok := toDecimal(v); ok {
			profile.PropertyValue = &d
		}
	}

	known := make(map[string]bool)
	for _, keys := range categoryKeys {
		for _, k := range keys {
			known[k] = true
		}
	}
	for k, v := range fields {
		if !known[k] {
			if profile.Extra == nil {
				profile.Extra = make(map[string]interface{})
			}
			profile.Extra[k] = v
		}
	}
	return profile
}

// lookupDecimal walks the fallback chain and returns the first value that
// coerces to a number. Present-but-malformed values are skipped.
func lookupDecimal(fields map[string]interface{}, keys []string) *decimal.Decimal {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if d, ok := toDecimal(v); ok {
			return &d
		}
	}
	return nil
}

func lookupString(fields map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// toDecimal coerces JSON-shaped values (numbers, numeric strings) to decimal
func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func isPositive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}
