package listing

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps form field names to user-facing messages. Validation
// failures never surface as errors; they stay on the form.
type FieldErrors map[string]string

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

var validate = validator.New()

type basicsFields struct {
	Title        string `validate:"required,min=3,max=150"`
	Location     string `validate:"required,max=200"`
	PropertyType string `validate:"required,max=50"`
	Description  string `validate:"required,min=20"`
}

var basicsMessages = map[string]string{
	"Title":        "Please enter a project title (3-150 characters)",
	"Location":     "Please enter the property location",
	"PropertyType": "Please select a property type",
	"Description":  "Please describe the project (at least 20 characters)",
}

var basicsFieldNames = map[string]string{
	"Title":        "title",
	"Location":     "location",
	"PropertyType": "property_type",
	"Description":  "description",
}

// ValidateStep checks only the fields belonging to one step. It is re-run
// on every attempt and never cached.
func ValidateStep(f *Form, step Step) FieldErrors {
	errs := FieldErrors{}

	switch step {
	case StepBasics:
		payload := basicsFields{
			Title:        strings.TrimSpace(f.Title),
			Location:     strings.TrimSpace(f.Location),
			PropertyType: strings.TrimSpace(f.PropertyType),
			Description:  strings.TrimSpace(f.Description),
		}
		if err := validate.Struct(payload); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range verrs {
					errs[basicsFieldNames[fe.Field()]] = basicsMessages[fe.Field()]
				}
			}
		}

	case StepFinancials:
		checkRequiredNumber(errs, "target_amount", f.TargetAmount, "Please enter a target amount greater than zero")
		checkRequiredNumber(errs, "min_investment", f.MinInvestment, "Please enter a minimum investment greater than zero")
		checkRequiredNumber(errs, "expected_roi", f.ExpectedROI, "Please enter an expected ROI greater than zero")
		checkRequiredNumber(errs, "term_months", f.TermMonths, "Please enter an investment term greater than zero")

		// MaxInvestment is optional, but when given it must be coherent.
		if strings.TrimSpace(f.MaxInvestment) != "" {
			if maxV, ok := parsePositiveNumber(f.MaxInvestment); ok {
				if minV, okMin := parsePositiveNumber(f.MinInvestment); okMin && maxV < minV {
					errs["max_investment"] = "Maximum investment must not be below the minimum investment"
				}
			}
		}

	case StepNarrative:
		for _, risk := range f.RiskFactors.Items() {
			if strings.TrimSpace(risk) == "" {
				errs["risk_factors"] = "Risk factors must not be empty"
				break
			}
		}
	}

	return errs
}

// ValidateAll validates every step, as done on final submission.
func ValidateAll(f *Form) FieldErrors {
	errs := FieldErrors{}
	for _, step := range Steps {
		for field, msg := range ValidateStep(f, step) {
			errs[field] = msg
		}
	}
	return errs
}

func checkRequiredNumber(errs FieldErrors, field, raw, msg string) {
	if _, ok := parsePositiveNumber(raw); !ok {
		errs[field] = msg
	}
}

// parsePositiveNumber reports whether raw is a finite number strictly
// greater than zero.
func parsePositiveNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return 0, false
	}
	return v, true
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
