package models

// Debt level buckets derived from the overall score.
const (
	DebtLow      = "low"
	DebtModerate = "moderate"
	DebtHigh     = "high"
	DebtCritical = "critical"
)

// AssessmentInput is the manually supplied telemetry for the standalone
// debt calculator: org shape plus usage and ticketing counts.
type AssessmentInput struct {
	OrgSize                int     `json:"org_size"`
	TotalTerms             int     `json:"total_terms"`
	DefinedTerms           int     `json:"defined_terms"`
	OwnedTerms             int     `json:"owned_terms"`
	TotalQueries           int     `json:"total_queries"`
	QueriesWithLineage     int     `json:"queries_with_lineage"`
	AvgMinutesToAnswer     float64 `json:"avg_minutes_to_answer"`
	MonthlyReworkTickets   int     `json:"monthly_rework_tickets"`
	ConflictingDefinitions int     `json:"conflicting_definitions"`
	ManualOverrides        int     `json:"manual_overrides"`
}

// DebtMetrics are the five component scores on a 0-100 scale.
type DebtMetrics struct {
	TermCoverage        float64 `json:"term_coverage"`
	LineageCompleteness float64 `json:"lineage_completeness"`
	WranglingEfficiency float64 `json:"wrangling_efficiency"`
	ReworkFrequency     float64 `json:"rework_frequency"`
	GovernanceMaturity  float64 `json:"governance_maturity"`
}

// Recommendation is one prioritized remediation suggestion keyed on a
// metric that fell below its threshold.
type Recommendation struct {
	Priority string `json:"priority"` // "high", "medium", "low"
	Metric   string `json:"metric"`
	Action   string `json:"action"`
}

// AssessmentResult is the standalone calculator's scorecard.
type AssessmentResult struct {
	Metrics           DebtMetrics      `json:"metrics"`
	OverallScore      float64          `json:"overall_score"`
	DebtLevel         string           `json:"debt_level"`
	MonthlyWasteHours float64          `json:"monthly_waste_hours"`
	AnnualWasteHours  float64          `json:"annual_waste_hours"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// SemanticDebtAssessment is the contract-derived assessor's scorecard.
// Wrangling and rework are placeholder-driven until wired to real usage
// and ticketing telemetry.
type SemanticDebtAssessment struct {
	TermCoverage        float64 `json:"term_coverage"`
	LineageCompleteness float64 `json:"lineage_completeness"`
	WranglingEfficiency float64 `json:"wrangling_efficiency"`
	ReworkFrequency     float64 `json:"rework_frequency"`
	OverallScore        float64 `json:"overall_score"`
}
