package twin

import (
	"math"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

// Targets the raw inputs are scaled against.
const (
	sleepTargetHours    = 8.0
	waterTargetGlasses  = 8.0
	screenCeilingHours  = 12.0
	inflammationCeiling = 100.0
)

// SubScores are the lifestyle inputs normalized to 0-100.
// Screen is reported for display but no indicator weights it.
type SubScores struct {
	Sleep     float64 `json:"sleep"`
	Stress    float64 `json:"stress"`
	Activity  float64 `json:"activity"`
	Diet      float64 `json:"diet"`
	Hydration float64 `json:"hydration"`
	Screen    float64 `json:"screen"`
}

func ScoreLifestyle(l domain.Lifestyle) SubScores {
	return SubScores{
		Sleep:     math.Min(100, l.SleepHours/sleepTargetHours*100),
		Stress:    100 - l.StressLevel,
		Activity:  l.ActivityLevel,
		Diet:      l.DietPattern,
		Hydration: math.Min(100, l.WaterIntake/waterTargetGlasses*100),
		Screen:    math.Max(0, 100-l.ScreenTime/screenCeilingHours*100),
	}
}

// effects are the scaled weighted sums of each indicator before offsets, rounding and clamping.
// Cycle regularity is absent: it depends on the rounded hormone balance, see cycleEffect.
type effects struct {
	hormone      float64
	inflammation float64
	insulin      float64
	energy       float64
}

func weightedEffects(s SubScores, multiplier float64) effects {
	return effects{
		hormone:      (s.Sleep*0.3 + s.Stress*0.3 + s.Activity*0.2 + s.Diet*0.2) * 0.9 * multiplier,
		inflammation: (s.Diet*0.3 + s.Activity*0.3 + s.Sleep*0.2 + s.Stress*0.2) * 0.85 * multiplier,
		insulin:      (s.Activity*0.35 + s.Diet*0.35 + s.Sleep*0.15 + s.Hydration*0.15) * 0.9 * multiplier,
		energy:       (s.Sleep*0.35 + s.Activity*0.25 + s.Hydration*0.2 + s.Diet*0.2) * 0.85 * multiplier,
	}
}

func cycleEffect(hormoneBalance int, s SubScores, multiplier float64) float64 {
	return (float64(hormoneBalance)*0.4 + s.Stress*0.3 + s.Sleep*0.3) * 0.8 * multiplier
}

// ComputeIndicators derives the five health indicators from a lifestyle. Total and pure.
func ComputeIndicators(l domain.Lifestyle) domain.Indicators {
	return computeScaled(l, 1)
}

func computeScaled(l domain.Lifestyle, multiplier float64) domain.Indicators {
	s := ScoreLifestyle(l)
	e := weightedEffects(s, multiplier)

	hormone := roundHalfUp(e.hormone + 10)
	cycle := roundHalfUp(cycleEffect(hormone, s, multiplier) + 20)

	return domain.Indicators{
		HormoneBalance:     clampScore(hormone),
		InflammationIndex:  clampScore(roundHalfUp(inflammationCeiling - e.inflammation)),
		InsulinSensitivity: clampScore(roundHalfUp(e.insulin + 10)),
		EnergyLevel:        clampScore(roundHalfUp(e.energy + 15)),
		CycleRegularity:    clampScore(cycle),
	}
}

// roundHalfUp rounds .5 toward +Inf so negative halves match the browser's Math.round.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
