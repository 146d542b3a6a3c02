package debt

import (
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Standalone calculator weights over the five metrics.
const (
	calcWeightCoverage   = 0.25
	calcWeightLineage    = 0.25
	calcWeightWrangling  = 0.2
	calcWeightRework     = 0.15
	calcWeightGovernance = 0.15
)

// Waste estimation assumes each person asks questionsPerMonth data
// questions costing AvgMinutesToAnswer each; the debt share of that time
// is counted as waste.
const questionsPerMonth = 20

// Calculate computes the full scorecard from manually supplied telemetry.
// All metrics are on a 0-100 scale.
func Calculate(input models.AssessmentInput) models.AssessmentResult {
	metrics := models.DebtMetrics{
		TermCoverage:        ratio100(input.DefinedTerms, input.TotalTerms),
		LineageCompleteness: ratio100(input.QueriesWithLineage, input.TotalQueries),
		WranglingEfficiency: clamp0(100 - 2*input.AvgMinutesToAnswer),
		ReworkFrequency:     clamp0(100 - 5*float64(input.MonthlyReworkTickets)),
		GovernanceMaturity:  governanceMaturity(input),
	}

	overall := calcWeightCoverage*metrics.TermCoverage +
		calcWeightLineage*metrics.LineageCompleteness +
		calcWeightWrangling*metrics.WranglingEfficiency +
		calcWeightRework*metrics.ReworkFrequency +
		calcWeightGovernance*metrics.GovernanceMaturity

	monthlyWaste := float64(input.OrgSize) * questionsPerMonth *
		input.AvgMinutesToAnswer / 60 * (100 - overall) / 100

	return models.AssessmentResult{
		Metrics:           metrics,
		OverallScore:      overall,
		DebtLevel:         debtLevel(overall),
		MonthlyWasteHours: monthlyWaste,
		AnnualWasteHours:  monthlyWaste * 12,
		Recommendations:   recommend(metrics),
	}
}

// governanceMaturity is the ownership rate discounted twice by the
// conflicting-definition rate.
func governanceMaturity(input models.AssessmentInput) float64 {
	ownershipRate := ratio100(input.OwnedTerms, input.TotalTerms)
	conflictRate := ratio100(input.ConflictingDefinitions, input.TotalTerms)
	return clamp0(ownershipRate - 2*conflictRate)
}

func debtLevel(score float64) string {
	switch {
	case score >= 80:
		return models.DebtLow
	case score >= 60:
		return models.DebtModerate
	case score >= 40:
		return models.DebtHigh
	default:
		return models.DebtCritical
	}
}

// recommend emits prioritized actions for every metric below its fixed
// threshold.
func recommend(m models.DebtMetrics) []models.Recommendation {
	var recs []models.Recommendation
	if m.TermCoverage < 70 {
		recs = append(recs, models.Recommendation{
			Priority: "high",
			Metric:   "term_coverage",
			Action:   "Define the missing business terms: every queried concept needs a definition, examples, and an owner.",
		})
	}
	if m.LineageCompleteness < 60 {
		recs = append(recs, models.Recommendation{
			Priority: "high",
			Metric:   "lineage_completeness",
			Action:   "Route queries through the federation engine so every answer carries full source lineage.",
		})
	}
	if m.GovernanceMaturity < 50 {
		recs = append(recs, models.Recommendation{
			Priority: "high",
			Metric:   "governance_maturity",
			Action:   "Assign term ownership and resolve conflicting definitions in a governance review.",
		})
	}
	if m.WranglingEfficiency < 50 {
		recs = append(recs, models.Recommendation{
			Priority: "medium",
			Metric:   "wrangling_efficiency",
			Action:   "Map the slowest-to-answer questions to mapping rules so they become one-shot canonical queries.",
		})
	}
	if m.ReworkFrequency < 50 {
		recs = append(recs, models.Recommendation{
			Priority: "medium",
			Metric:   "rework_frequency",
			Action:   "Audit recurring rework tickets for metric definitions that drift between teams.",
		})
	}
	return recs
}

func ratio100(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func clamp0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
