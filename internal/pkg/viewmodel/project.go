package viewmodel

// Project contains all information needed for the project detail page
type Project struct {
	// Website domain (e.g. https://immofund.example)
	Domain string

	UUID         string
	Title        string
	Location     string
	PropertyType string
	Description  string

	// ShareLink and the full URL built from it
	ShareLink string
	ShareURL  string

	// Funding numbers, formatted for display
	TargetAmount    string
	RaisedAmount    string
	MinInvestment   string
	MaxInvestment   string
	FundingProgress float64
	ExpectedROI     float64
	TermMonths      int

	Status   string
	Featured bool

	// Gallery
	CoverImagePath string
	ImagePaths     []string
	HasThumbnails  bool

	// Narrative sections
	Highlights  []string
	RiskFactors []string
	Mitigations []string

	// Developer info
	DeveloperName    string
	DeveloperCompany string

	// Public documents
	Documents []ProjectDocument

	ViewCount int64
}

// ProjectDocument is a single investor-visible document row
type ProjectDocument struct {
	UUID     string
	Title    string
	Type     string
	FileName string
	FileSize string
}

// ProjectCard is the compact representation used in listing grids
type ProjectCard struct {
	UUID            string
	Title           string
	Location        string
	PropertyType    string
	CoverImagePath  string
	TargetAmount    string
	FundingProgress float64
	ExpectedROI     float64
	TermMonths      int
	Status          string
	Featured        bool
}
