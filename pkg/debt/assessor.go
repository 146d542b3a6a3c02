// Package debt quantifies how well-governed and traceable a semantic
// contract is. Both entry points are pure functions of their inputs.
package debt

import (
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Placeholder inputs for the usage-driven components of the contract
// assessor. These stand in until real usage and ticketing telemetry is
// wired to the assessor.
const (
	PlaceholderWrangling = 0.6
	PlaceholderRework    = 0.7
)

// Contract assessor weights: coverage and lineage dominate.
const (
	weightCoverage  = 0.3
	weightLineage   = 0.3
	weightWrangling = 0.2
	weightRework    = 0.2
)

// AssessContract derives a debt scorecard from contract completeness and
// optional query history. Scores are fractions in [0, 1].
func AssessContract(contract *models.SemanticContract, history []models.QueryHistoryEntry) models.SemanticDebtAssessment {
	coverage := termCoverage(contract)
	lineageScore := lineageCompleteness(history)

	return models.SemanticDebtAssessment{
		TermCoverage:        coverage,
		LineageCompleteness: lineageScore,
		WranglingEfficiency: PlaceholderWrangling,
		ReworkFrequency:     PlaceholderRework,
		OverallScore: weightCoverage*coverage +
			weightLineage*lineageScore +
			weightWrangling*PlaceholderWrangling +
			weightRework*PlaceholderRework,
	}
}

// termCoverage is the fraction of terms carrying a business definition, at
// least one example, and an owner.
func termCoverage(contract *models.SemanticContract) float64 {
	if contract == nil || len(contract.Terms) == 0 {
		return 0
	}
	covered := 0
	for _, term := range contract.Terms {
		if term.BusinessDefinition != "" && len(term.Examples) > 0 && term.Owner != "" {
			covered++
		}
	}
	return float64(covered) / float64(len(contract.Terms))
}

// lineageCompleteness is the fraction of history entries whose lineage has
// at least one step and whose every step names a source, object, and at
// least one field.
func lineageCompleteness(history []models.QueryHistoryEntry) float64 {
	if len(history) == 0 {
		return 0
	}
	complete := 0
	for _, entry := range history {
		if isLineageComplete(entry.Lineage) {
			complete++
		}
	}
	return float64(complete) / float64(len(history))
}

func isLineageComplete(lin models.Lineage) bool {
	if len(lin.Steps) == 0 {
		return false
	}
	for _, step := range lin.Steps {
		if step.SourceID == "" || step.Object == "" || len(step.Fields) == 0 {
			return false
		}
	}
	return true
}
