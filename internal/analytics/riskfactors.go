// Package analytics derives the explanatory layers of a prediction:
// per-factor risk attribution, multi-year progression projection and
// comparison against population norms. All calculators are pure.
package analytics

import (
	"fmt"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// maxRiskScore is the sum of the worst case of every factor band.
const maxRiskScore = 10.0

// RiskFactors scores the patient against fixed clinical thresholds,
// one entry per factor in a stable order. The thresholds intentionally
// mirror the heuristic used to label the training data so the breakdown
// explains the classifier rather than contradicting it.
func RiskFactors(p *domain.PatientInput, m domain.DerivedMetrics) domain.RiskFactorReport {
	factors := make([]domain.RiskFactor, 0, 7)

	switch {
	case p.Age < 10:
		factors = append(factors, domain.RiskFactor{
			Factor: "Young Age", Score: 2, Impact: "High",
			Description: fmt.Sprintf("Age %g years - highest risk age group", p.Age),
		})
	case p.Age < 12:
		factors = append(factors, domain.RiskFactor{
			Factor: "Age", Score: 1, Impact: "Medium",
			Description: fmt.Sprintf("Age %g years - moderate risk", p.Age),
		})
	default:
		factors = append(factors, domain.RiskFactor{
			Factor: "Age", Score: 0, Impact: "Low",
			Description: fmt.Sprintf("Age %g years - lower risk", p.Age),
		})
	}

	switch m.MyopicParents {
	case 2:
		factors = append(factors, domain.RiskFactor{
			Factor: "Genetics", Score: 2, Impact: "High",
			Description: "Both parents myopic - strong genetic predisposition",
		})
	case 1:
		factors = append(factors, domain.RiskFactor{
			Factor: "Genetics", Score: 1, Impact: "Medium",
			Description: "One parent myopic - moderate genetic risk",
		})
	default:
		factors = append(factors, domain.RiskFactor{
			Factor: "Genetics", Score: 0, Impact: "Low",
			Description: "No parental myopia - lower genetic risk",
		})
	}

	switch {
	case m.MyopiaSeverity > 3:
		factors = append(factors, domain.RiskFactor{
			Factor: "Myopia Severity", Score: 2, Impact: "High",
			Description: fmt.Sprintf("High myopia (%.2f D)", m.MyopiaSeverity),
		})
	case m.MyopiaSeverity > 1.5:
		factors = append(factors, domain.RiskFactor{
			Factor: "Myopia Severity", Score: 1, Impact: "Medium",
			Description: fmt.Sprintf("Moderate myopia (%.2f D)", m.MyopiaSeverity),
		})
	default:
		factors = append(factors, domain.RiskFactor{
			Factor: "Myopia Severity", Score: 0, Impact: "Low",
			Description: fmt.Sprintf("Mild myopia (%.2f D)", m.MyopiaSeverity),
		})
	}

	switch {
	case m.AvgAxialLength > 24.5:
		factors = append(factors, domain.RiskFactor{
			Factor: "Axial Length", Score: 2, Impact: "High",
			Description: fmt.Sprintf("Elongated (%.2f mm > 24.5mm)", m.AvgAxialLength),
		})
	case m.AvgAxialLength > 24.0:
		factors = append(factors, domain.RiskFactor{
			Factor: "Axial Length", Score: 1, Impact: "Medium",
			Description: fmt.Sprintf("Approaching limit (%.2f mm)", m.AvgAxialLength),
		})
	default:
		factors = append(factors, domain.RiskFactor{
			Factor: "Axial Length", Score: 0, Impact: "Low",
			Description: fmt.Sprintf("Normal range (%.2f mm)", m.AvgAxialLength),
		})
	}

	switch {
	case p.ScreenHours > 4:
		factors = append(factors, domain.RiskFactor{
			Factor: "Screen Time", Score: 1, Impact: "High",
			Description: fmt.Sprintf("Excessive (%g hrs/day > 4hrs)", p.ScreenHours),
		})
	case p.ScreenHours > 3:
		factors = append(factors, domain.RiskFactor{
			Factor: "Screen Time", Score: 0.5, Impact: "Medium",
			Description: fmt.Sprintf("Moderate (%g hrs/day)", p.ScreenHours),
		})
	default:
		factors = append(factors, domain.RiskFactor{
			Factor: "Screen Time", Score: 0, Impact: "Low",
			Description: fmt.Sprintf("Acceptable (%g hrs/day)", p.ScreenHours),
		})
	}

	if p.OutdoorHours < 2 {
		factors = append(factors, domain.RiskFactor{
			Factor: "Outdoor Time", Score: 1, Impact: "High",
			Description: fmt.Sprintf("Insufficient (%g hrs/day < 2hrs)", p.OutdoorHours),
		})
	} else {
		factors = append(factors, domain.RiskFactor{
			Factor: "Outdoor Time", Score: 0, Impact: "Low",
			Description: fmt.Sprintf("Adequate (%g hrs/day)", p.OutdoorHours),
		})
	}

	switch {
	case m.ComplianceScore < 0.75:
		factors = append(factors, domain.RiskFactor{
			Factor: "Treatment Compliance", Score: 1, Impact: "High",
			Description: fmt.Sprintf("Poor (%.0f%% < 75%%)", m.ComplianceScore*100),
		})
	case m.ComplianceScore < 0.9:
		factors = append(factors, domain.RiskFactor{
			Factor: "Treatment Compliance", Score: 0.5, Impact: "Medium",
			Description: fmt.Sprintf("Good but could improve (%.0f%%)", m.ComplianceScore*100),
		})
	default:
		factors = append(factors, domain.RiskFactor{
			Factor: "Treatment Compliance", Score: 0, Impact: "Low",
			Description: fmt.Sprintf("Excellent (%.0f%%)", m.ComplianceScore*100),
		})
	}

	var total float64
	for _, f := range factors {
		total += f.Score
	}

	return domain.RiskFactorReport{
		Factors:          factors,
		TotalScore:       total,
		MaxPossibleScore: maxRiskScore,
		RiskPercentage:   total / maxRiskScore * 100,
	}
}
