package twin

import "math"

// UI ranges for the lifestyle sliders.
const (
	MinSleepHours = 3.0
	MaxSleepHours = 12.0
	SleepStep     = 0.5

	MinLevel = 0.0
	MaxLevel = 100.0

	MinWaterIntake = 1.0
	MaxWaterIntake = 15.0

	MinScreenTime = 0.0
	MaxScreenTime = 16.0
)

// Lifestyle holds the six user-supplied inputs. No field is derived from another.
type Lifestyle struct {
	SleepHours    float64 `json:"sleep_hours"`
	StressLevel   float64 `json:"stress_level"`
	ActivityLevel float64 `json:"activity_level"`
	DietPattern   float64 `json:"diet_pattern"`
	WaterIntake   float64 `json:"water_intake"`
	ScreenTime    float64 `json:"screen_time"`
}

// LifestylePatch is a partial lifestyle update; nil fields keep their current value.
type LifestylePatch struct {
	SleepHours    *float64 `json:"sleep_hours,omitempty"`
	StressLevel   *float64 `json:"stress_level,omitempty"`
	ActivityLevel *float64 `json:"activity_level,omitempty"`
	DietPattern   *float64 `json:"diet_pattern,omitempty"`
	WaterIntake   *float64 `json:"water_intake,omitempty"`
	ScreenTime    *float64 `json:"screen_time,omitempty"`
}

// DefaultLifestyle is what the creation form starts from.
func DefaultLifestyle() Lifestyle {
	return Lifestyle{
		SleepHours:    7,
		StressLevel:   50,
		ActivityLevel: 50,
		DietPattern:   50,
		WaterIntake:   6,
		ScreenTime:    4,
	}
}

// Clamp pins every field to its slider range. Sleep is snapped to the half-hour step.
func (l Lifestyle) Clamp() Lifestyle {
	sleep := clampFloat(l.SleepHours, MinSleepHours, MaxSleepHours)
	sleep = math.Round(sleep/SleepStep) * SleepStep
	return Lifestyle{
		SleepHours:    sleep,
		StressLevel:   clampFloat(l.StressLevel, MinLevel, MaxLevel),
		ActivityLevel: clampFloat(l.ActivityLevel, MinLevel, MaxLevel),
		DietPattern:   clampFloat(l.DietPattern, MinLevel, MaxLevel),
		WaterIntake:   clampFloat(l.WaterIntake, MinWaterIntake, MaxWaterIntake),
		ScreenTime:    clampFloat(l.ScreenTime, MinScreenTime, MaxScreenTime),
	}
}

// Apply returns l with every non-nil patch field replaced.
func (l Lifestyle) Apply(p LifestylePatch) Lifestyle {
	out := l
	if p.SleepHours != nil {
		out.SleepHours = *p.SleepHours
	}
	if p.StressLevel != nil {
		out.StressLevel = *p.StressLevel
	}
	if p.ActivityLevel != nil {
		out.ActivityLevel = *p.ActivityLevel
	}
	if p.DietPattern != nil {
		out.DietPattern = *p.DietPattern
	}
	if p.WaterIntake != nil {
		out.WaterIntake = *p.WaterIntake
	}
	if p.ScreenTime != nil {
		out.ScreenTime = *p.ScreenTime
	}
	return out
}

// Empty reports whether the patch carries no field.
func (p LifestylePatch) Empty() bool {
	return p.SleepHours == nil && p.StressLevel == nil && p.ActivityLevel == nil &&
		p.DietPattern == nil && p.WaterIntake == nil && p.ScreenTime == nil
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
