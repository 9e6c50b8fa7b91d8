package twin

import (
	"fmt"
	"strings"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

// Horizons offered by the simulation screen, in days.
var Horizons = []int{7, 14, 30}

const (
	horizonWindowDays = 30.0
	horizonGain       = 0.3
)

func ValidHorizon(days int) bool {
	for _, h := range Horizons {
		if h == days {
			return true
		}
	}
	return false
}

// HorizonMultiplier is 1 + days/30*0.3, so 30 days scales every weighted sum by 1.3.
func HorizonMultiplier(days int) float64 {
	return 1 + float64(days)/horizonWindowDays*horizonGain
}

// Project returns the indicators and persona the lifestyle would produce after horizonDays.
// It reads no twin state. Project(l, 0) equals Evaluate(l).
func Project(l domain.Lifestyle, horizonDays int) (domain.Indicators, domain.Persona) {
	ind := computeScaled(l, HorizonMultiplier(horizonDays))
	return ind, ClassifyPersona(ind, l.StressLevel)
}

// Outlook describes how a projection compares with the live twin.
type Outlook struct {
	Improvements []string `json:"improvements"`
	Narrative    string   `json:"narrative"`
}

// Compare lists the improvements of projected over current and writes the future narrative.
func Compare(current, projected domain.Indicators, persona domain.Persona, days int) Outlook {
	improvements := make([]string, 0, 3)
	if projected.HormoneBalance > current.HormoneBalance {
		improvements = append(improvements, "improved hormone balance")
	}
	if projected.InflammationIndex < current.InflammationIndex {
		improvements = append(improvements, "reduced inflammation")
	}
	if projected.EnergyLevel > current.EnergyLevel {
		improvements = append(improvements, "higher energy levels")
	}

	if len(improvements) == 0 {
		return Outlook{
			Improvements: improvements,
			Narrative: fmt.Sprintf("After %d days, your twin shows stable health patterns. "+
				"Consider adjusting your lifestyle inputs to see potential improvements.", days),
		}
	}
	return Outlook{
		Improvements: improvements,
		Narrative: fmt.Sprintf("After %d days of these lifestyle changes, your twin could experience %s. "+
			"This simulation suggests transitioning to the %s persona.",
			days, strings.Join(improvements, ", "), strings.Replace(string(persona), "-", " ", 1)),
	}
}
