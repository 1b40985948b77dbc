package apiv1

// Pong is the response body of the ping endpoint.
type Pong struct {
	Ping string `json:"ping"`
}

// APIError is the uniform error envelope for v1 responses.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UserProfileResponse describes the authenticated account.
type UserProfileResponse struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Tier               string `json:"tier"`
	SubscriptionStatus string `json:"subscription_status"`
	ProjectCount       int64  `json:"project_count"`
	InvestmentCount    int64  `json:"investment_count"`
	InvestedTotalCents int64  `json:"invested_total_cents"`
}

// EntitlementsResponse reports the caller's current feature limits.
type EntitlementsResponse struct {
	Tier               string `json:"tier"`
	SubscriptionStatus string `json:"subscription_status"`
	MaxProjects        int    `json:"max_projects"`
	ActiveProjects     int64  `json:"active_projects"`
	CanCreateProject   bool   `json:"can_create_project"`
	FeaturedProjects   bool   `json:"featured_projects"`
	AdvancedAnalytics  bool   `json:"advanced_analytics"`
	InvestorMessaging  bool   `json:"investor_messaging"`
	NewsletterPromo    bool   `json:"newsletter_promo"`
	PriorityMatching   bool   `json:"priority_matching"`
	BrandCustomization bool   `json:"brand_customization"`
	DedicatedSupport   bool   `json:"dedicated_support"`
}

// ProjectSummary is the browse-list representation of a listing.
type ProjectSummary struct {
	UUID              string  `json:"uuid"`
	Title             string  `json:"title"`
	Location          string  `json:"location"`
	PropertyType      string  `json:"property_type"`
	Status            string  `json:"status"`
	TargetAmountCents int64   `json:"target_amount_cents"`
	RaisedAmountCents int64   `json:"raised_amount_cents"`
	ExpectedROI       float64 `json:"expected_roi"`
	TermMonths        int     `json:"term_months"`
	ShareURL          string  `json:"share_url"`
}

// ProjectListResponse is a page of project summaries.
type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
	Page     int              `json:"page"`
	Total    int64            `json:"total"`
}

// InvestmentQuote is a fee preview for a prospective investment.
type InvestmentQuote struct {
	ProjectUUID    string  `json:"project_uuid"`
	AmountCents    int64   `json:"amount_cents"`
	FeePercent     float64 `json:"fee_percent"`
	FeeCents       int64   `json:"fee_cents"`
	NetAmountCents int64   `json:"net_amount_cents"`
}
