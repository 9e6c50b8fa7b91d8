package twin

import (
	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

// Canned indicator sets for the public demo page. They are illustrative and not derived from a lifestyle.
var demoIndicators = map[domain.Persona]domain.Indicators{
	domain.PersonaBalancedBloom:     {HormoneBalance: 78, InflammationIndex: 28, InsulinSensitivity: 82, EnergyLevel: 85, CycleRegularity: 80},
	domain.PersonaStressAmplified:   {HormoneBalance: 58, InflammationIndex: 52, InsulinSensitivity: 62, EnergyLevel: 55, CycleRegularity: 48},
	domain.PersonaHormoneReset:      {HormoneBalance: 65, InflammationIndex: 42, InsulinSensitivity: 70, EnergyLevel: 68, CycleRegularity: 60},
	domain.PersonaInflammationSpike: {HormoneBalance: 52, InflammationIndex: 68, InsulinSensitivity: 55, EnergyLevel: 48, CycleRegularity: 45},
	domain.PersonaInsulinResistant:  {HormoneBalance: 55, InflammationIndex: 55, InsulinSensitivity: 38, EnergyLevel: 50, CycleRegularity: 52},
	domain.PersonaIrregularRhythm:   {HormoneBalance: 60, InflammationIndex: 45, InsulinSensitivity: 65, EnergyLevel: 58, CycleRegularity: 35},
}

// DemoLifestyle is the sample lifestyle shown beside every demo persona.
func DemoLifestyle() domain.Lifestyle {
	return domain.Lifestyle{
		SleepHours:    6.5,
		StressLevel:   65,
		ActivityLevel: 45,
		DietPattern:   55,
		WaterIntake:   5,
		ScreenTime:    7,
	}
}

func DemoIndicators(p domain.Persona) (domain.Indicators, bool) {
	ind, ok := demoIndicators[p]
	return ind, ok
}
