package listing

// Step identifies one page of the multi-step listing form.
type Step int

const (
	StepBasics Step = iota
	StepFinancials
	StepNarrative
)

// Steps lists the form steps in order.
var Steps = []Step{StepBasics, StepFinancials, StepNarrative}

// Milestone is one entry of the project timeline.
type Milestone struct {
	Title      string `json:"title"`
	TargetDate string `json:"target_date"`
}

// Repeatable is an ordered sequence backing a repeatable form field
// (highlights, risk factors, timeline entries). Each repeatable field gets
// its own typed sequence instead of stringly-keyed array dispatch.
type Repeatable[T any] struct {
	items []T
}

func (r *Repeatable[T]) Add(item T) {
	r.items = append(r.items, item)
}

// Remove drops the entry at index i; out-of-range indexes are ignored.
func (r *Repeatable[T]) Remove(i int) {
	if i < 0 || i >= len(r.items) {
		return
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
}

// Update replaces the entry at index i; out-of-range indexes are ignored.
func (r *Repeatable[T]) Update(i int, item T) {
	if i < 0 || i >= len(r.items) {
		return
	}
	r.items[i] = item
}

func (r *Repeatable[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Repeatable[T]) Len() int {
	return len(r.items)
}

// Form holds the raw state of the listing creation form. Financial fields
// stay as entered text until validation parses them; failure states keep
// the form untouched so the user can resume editing.
type Form struct {
	Title        string
	Location     string
	PropertyType string
	Description  string

	// Financial inputs in whole currency units as typed by the user.
	TargetAmount  string
	MinInvestment string
	MaxInvestment string
	ExpectedROI   string
	TermMonths    string

	Highlights           Repeatable[string]
	RiskFactors          Repeatable[string]
	MitigationStrategies Repeatable[string]
	Timeline             Repeatable[Milestone]
}

// Payload builds the creation payload for the resource creator. Required
// financial fields are guaranteed parseable after validation; optional ones
// are omitted when blank or unparseable.
func (f *Form) Payload() map[string]interface{} {
	payload := map[string]interface{}{
		"title":         f.Title,
		"location":      f.Location,
		"property_type": f.PropertyType,
		"description":   f.Description,
		"highlights":    f.Highlights.Items(),
		"risk_factors":  f.RiskFactors.Items(),
		"mitigations":   f.MitigationStrategies.Items(),
		"timeline":      f.Timeline.Items(),
	}

	if v, ok := parsePositiveNumber(f.TargetAmount); ok {
		payload["target_amount_cents"] = toCents(v)
	}
	if v, ok := parsePositiveNumber(f.MinInvestment); ok {
		payload["min_investment_cents"] = toCents(v)
	}
	if v, ok := parsePositiveNumber(f.MaxInvestment); ok {
		payload["max_investment_cents"] = toCents(v)
	}
	if v, ok := parsePositiveNumber(f.ExpectedROI); ok {
		payload["expected_roi"] = v
	}
	if v, ok := parsePositiveNumber(f.TermMonths); ok {
		payload["term_months"] = int(v)
	}

	return payload
}
