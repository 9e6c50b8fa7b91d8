package twin

import (
	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

const (
	balancedOverallFloor   = 70.0
	stressedLevelCeiling   = 70.0
	insulinResistantBelow  = 40
	inflammationSpikeAbove = 60
	irregularCycleBelow    = 50
)

type personaRule struct {
	persona domain.Persona
	match   func(ind domain.Indicators, stressLevel float64) bool
}

// personaRules is evaluated top to bottom; the first match wins.
// The stress rule reads the raw lifestyle stress level, not an indicator.
var personaRules = []personaRule{
	{domain.PersonaBalancedBloom, func(ind domain.Indicators, _ float64) bool {
		return OverallScore(ind) >= balancedOverallFloor
	}},
	{domain.PersonaStressAmplified, func(_ domain.Indicators, stress float64) bool {
		return stress > stressedLevelCeiling
	}},
	{domain.PersonaInsulinResistant, func(ind domain.Indicators, _ float64) bool {
		return ind.InsulinSensitivity < insulinResistantBelow
	}},
	{domain.PersonaInflammationSpike, func(ind domain.Indicators, _ float64) bool {
		return ind.InflammationIndex > inflammationSpikeAbove
	}},
	{domain.PersonaIrregularRhythm, func(ind domain.Indicators, _ float64) bool {
		return ind.CycleRegularity < irregularCycleBelow
	}},
}

// ClassifyPersona is total: anything no rule claims is hormone-reset.
func ClassifyPersona(ind domain.Indicators, stressLevel float64) domain.Persona {
	for _, r := range personaRules {
		if r.match(ind, stressLevel) {
			return r.persona
		}
	}
	return domain.PersonaHormoneReset
}

// OverallScore is the classifier's health score. Energy is deliberately left out.
func OverallScore(ind domain.Indicators) float64 {
	sum := ind.HormoneBalance + (100 - ind.InflammationIndex) + ind.InsulinSensitivity + ind.CycleRegularity
	return float64(sum) / 4
}

// DisplayScore averages all five indicators with inflammation inverted. Used by trend charts.
func DisplayScore(ind domain.Indicators) float64 {
	sum := ind.HormoneBalance + (100 - ind.InflammationIndex) + ind.InsulinSensitivity +
		ind.EnergyLevel + ind.CycleRegularity
	return float64(sum) / 5
}

// Evaluate computes indicators and persona for a lifestyle in one step.
func Evaluate(l domain.Lifestyle) (domain.Indicators, domain.Persona) {
	ind := ComputeIndicators(l)
	return ind, ClassifyPersona(ind, l.StressLevel)
}
