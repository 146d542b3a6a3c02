package drift

import (
	"fmt"
	"strings"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

var severityBands = []string{
	models.SeverityCritical,
	models.SeverityHigh,
	models.SeverityMedium,
	models.SeverityLow,
}

// Report renders findings as a plain-text summary grouped by severity
// band, for humans and ticketing pipelines.
func Report(drifts []models.SemanticDrift) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Semantic drift report: %d finding(s)\n", len(drifts))

	if len(drifts) == 0 {
		b.WriteString("No drift detected.\n")
		return b.String()
	}

	for _, band := range severityBands {
		var banded []models.SemanticDrift
		for _, d := range drifts {
			if d.Severity == band {
				banded = append(banded, d)
			}
		}
		if len(banded) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n%s (%d)\n", strings.ToUpper(band), len(banded))
		for _, d := range banded {
			fmt.Fprintf(&b, "  [%s] source=%s term=%s: %s\n", d.DriftType, d.SourceID, d.TermID, d.Description)
			for _, impact := range d.Impact {
				fmt.Fprintf(&b, "      impact: %s\n", impact)
			}
		}
	}
	return b.String()
}
