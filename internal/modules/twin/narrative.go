package twin

import (
	"strings"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

// Narrative is the "Today's Insight" paragraph shown next to the persona card.
func Narrative(p domain.Persona, l domain.Lifestyle) string {
	switch p {
	case domain.PersonaStressAmplified:
		cause := "Various factors"
		if l.SleepHours < 6 {
			cause = "Limited sleep"
		} else if l.StressLevel > 60 {
			cause = "Elevated stress levels"
		}
		return "Today your digital twin is experiencing the Stress-Amplified state. " + cause +
			" are contributing to heightened cortisol responses, which may be affecting your hormone balance and increasing inflammation markers."

	case domain.PersonaInsulinResistant:
		cause := "Current lifestyle patterns"
		if l.ActivityLevel < 40 {
			cause = "Lower physical activity"
		}
		return "Your twin has shifted into the Insulin-Resistant Warrior persona. " + cause +
			" suggest your body may be working harder to manage blood sugar levels. Gentle movement and balanced meals can help."

	case domain.PersonaInflammationSpike:
		parts := []string{"The Inflammation Spike persona is active today."}
		if l.SleepHours < 7 {
			parts = append(parts, "Insufficient rest combined with")
		}
		if l.StressLevel > 50 {
			parts = append(parts, "elevated stress")
		} else {
			parts = append(parts, "current factors")
		}
		parts = append(parts, "may be triggering inflammatory responses. Focus on anti-inflammatory foods and stress relief.")
		return strings.Join(parts, " ")

	case domain.PersonaIrregularRhythm:
		cause := "hormonal fluctuations"
		if l.StressLevel > 50 {
			cause = "stress levels"
		}
		return "Your twin is in the Irregular Rhythm phase. Cycle patterns suggest some variability, possibly influenced by " +
			cause + ". Consistent routines may help restore balance."

	case domain.PersonaBalancedBloom:
		var habits []string
		if l.SleepHours >= 7 {
			habits = append(habits, "good sleep")
		}
		if l.ActivityLevel >= 50 {
			habits = append(habits, "regular activity")
		}
		if len(habits) == 0 {
			habits = append(habits, "steady habits")
		}
		return "Wonderful! Your digital twin is in the Balanced Bloom state. Your lifestyle choices (" +
			strings.Join(habits, ", ") + ") are supporting optimal PCOS management. Keep nurturing this balance!"

	default:
		return "Your twin is in the Hormone Reset phase, working to restore equilibrium. " +
			"This transitional state shows your body is adapting to lifestyle changes. " +
			"Stay consistent with healthy habits for continued progress."
	}
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendSteady Trend = "steady"
	TrendDown   Trend = "down"
)

// PanelEntry is one row of the indicator panel.
// Display is the value on a "higher is better" scale; it differs from Value only for inflammation.
type PanelEntry struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   int    `json:"value"`
	Display int    `json:"display"`
	Inverse bool   `json:"inverse"`
	Status  Tone   `json:"status"`
	Trend   Trend  `json:"trend"`
}

func Panel(ind domain.Indicators) []PanelEntry {
	return []PanelEntry{
		panelEntry("hormone_balance", "Hormone Balance", ind.HormoneBalance, false),
		panelEntry("inflammation_index", "Inflammation", ind.InflammationIndex, true),
		panelEntry("insulin_sensitivity", "Insulin Sensitivity", ind.InsulinSensitivity, false),
		panelEntry("energy_level", "Energy Level", ind.EnergyLevel, false),
		panelEntry("cycle_regularity", "Cycle Regularity", ind.CycleRegularity, false),
	}
}

func panelEntry(key, label string, value int, inverse bool) PanelEntry {
	display := value
	if inverse {
		display = 100 - value
	}
	return PanelEntry{
		Key:     key,
		Label:   label,
		Value:   value,
		Display: display,
		Inverse: inverse,
		Status:  statusTone(display),
		Trend:   trendOf(display),
	}
}

func statusTone(v int) Tone {
	switch {
	case v >= 70:
		return ToneBalanced
	case v >= 40:
		return ToneMild
	default:
		return ToneStress
	}
}

func trendOf(v int) Trend {
	switch {
	case v >= 60:
		return TrendUp
	case v >= 40:
		return TrendSteady
	default:
		return TrendDown
	}
}
