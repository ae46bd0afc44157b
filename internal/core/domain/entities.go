package domain

import "time"

// ApplicationStatus represents the evaluation status of a mortgage application
type ApplicationStatus string

const (
	StatusPending                ApplicationStatus = "Pending"
	StatusRequiresAdditionalInfo ApplicationStatus = "RequiresAdditionalInfo"
	StatusUnderReview            ApplicationStatus = "UnderReview"
	StatusApproved               ApplicationStatus = "Approved"
	StatusRejected               ApplicationStatus = "Rejected"
)

// RequirementCategory represents one of the documentation categories an
// application must cover before it can be scored
type RequirementCategory string

const (
	CategoryIncome     RequirementCategory = "Income"
	CategoryCredit     RequirementCategory = "Credit"
	CategoryEmployment RequirementCategory = "Employment"
	CategoryProperty   RequirementCategory = "Property"
)

// AllCategories lists the requirement categories in evaluation order.
// The order is fixed: missing requirements are always reported this way.
var AllCategories = []RequirementCategory{
	CategoryIncome,
	CategoryCredit,
	CategoryEmployment,
	CategoryProperty,
}

// Application represents a mortgage application in the domain layer.
// Status, StatusReason and MissingRequirements are owned by the evaluator;
// callers only ever supply raw field data.
type Application struct {
	ID                  string
	ApplicantID         string
	Status              ApplicationStatus
	StatusReason        string
	MissingRequirements []string
	Fields              map[string]interface{}
	Version             uint
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
