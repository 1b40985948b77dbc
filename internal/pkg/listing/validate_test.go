package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStepBasics(t *testing.T) {
	form := &Form{}
	errs := ValidateStep(form, StepBasics)

	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "location")
	assert.Contains(t, errs, "property_type")
	assert.Contains(t, errs, "description")

	// Financial fields belong to a later step and must not be checked here.
	assert.NotContains(t, errs, "target_amount")
}

func TestValidateStepFinancialsNumericCoercion(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		wantOK bool
	}{
		{"valid integer", "500000", true},
		{"valid decimal", "2500.50", true},
		{"zero", "0", false},
		{"negative", "-10", false},
		{"non numeric", "a lot", false},
		{"blank", "", false},
		{"infinity", "Inf", false},
		{"nan", "NaN", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.TargetAmount = tt.value
			errs := ValidateStep(form, StepFinancials)
			if tt.wantOK {
				assert.NotContains(t, errs, "target_amount")
			} else {
				assert.Contains(t, errs, "target_amount")
			}
		})
	}
}

func TestValidateStepFinancialsOptionalMax(t *testing.T) {
	form := validForm()
	form.MaxInvestment = ""
	assert.Empty(t, ValidateStep(form, StepFinancials), "blank optional field must not fail")

	form.MaxInvestment = "not-a-number"
	assert.Empty(t, ValidateStep(form, StepFinancials), "invalid optional field is dropped, not fatal")

	form.MaxInvestment = "100"
	form.MinInvestment = "250"
	errs := ValidateStep(form, StepFinancials)
	assert.Contains(t, errs, "max_investment")
}

func TestValidateAllCoversEverySteps(t *testing.T) {
	form := &Form{}
	errs := ValidateAll(form)

	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "target_amount")
	assert.Contains(t, errs, "term_months")
}

func TestValidateAllPassesOnCompleteForm(t *testing.T) {
	assert.Empty(t, ValidateAll(validForm()))
}

func TestPayloadOmitsInvalidOptionalFields(t *testing.T) {
	form := validForm()
	form.MaxInvestment = "garbage"

	payload := form.Payload()
	assert.NotContains(t, payload, "max_investment_cents")
	assert.Equal(t, int64(50000000), payload["target_amount_cents"])
	assert.Equal(t, int64(25000), payload["min_investment_cents"])
	assert.Equal(t, 7.5, payload["expected_roi"])
	assert.Equal(t, 36, payload["term_months"])
}

func TestRepeatableOperations(t *testing.T) {
	var r Repeatable[string]
	r.Add("a")
	r.Add("b")
	r.Add("c")
	assert.Equal(t, 3, r.Len())

	r.Update(1, "B")
	r.Remove(0)
	assert.Equal(t, []string{"B", "c"}, r.Items())

	// Out-of-range operations are ignored.
	r.Remove(9)
	r.Update(-1, "x")
	assert.Equal(t, []string{"B", "c"}, r.Items())

	// Items returns a copy; mutating it must not touch the sequence.
	items := r.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"B", "c"}, r.Items())
}
