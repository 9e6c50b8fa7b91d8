package twin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

func TestClassifyPersonaRuleOrder(t *testing.T) {
	tests := []struct {
		name   string
		ind    domain.Indicators
		stress float64
		want   domain.Persona
	}{
		{
			name:   "high overall beats high stress",
			ind:    domain.Indicators{HormoneBalance: 80, InflammationIndex: 20, InsulinSensitivity: 80, CycleRegularity: 80},
			stress: 95,
			want:   domain.PersonaBalancedBloom,
		},
		{
			name: "overall of exactly 70 is balanced",
			ind:  domain.Indicators{HormoneBalance: 70, InflammationIndex: 30, InsulinSensitivity: 70, CycleRegularity: 70},
			want: domain.PersonaBalancedBloom,
		},
		{
			name:   "stress of exactly 70 is not amplified",
			ind:    domain.Indicators{HormoneBalance: 60, InflammationIndex: 40, InsulinSensitivity: 60, CycleRegularity: 60},
			stress: 70,
			want:   domain.PersonaHormoneReset,
		},
		{
			name:   "stress beats low insulin",
			ind:    domain.Indicators{HormoneBalance: 40, InflammationIndex: 80, InsulinSensitivity: 20, CycleRegularity: 30},
			stress: 71,
			want:   domain.PersonaStressAmplified,
		},
		{
			name:   "low insulin beats inflammation",
			ind:    domain.Indicators{HormoneBalance: 40, InflammationIndex: 80, InsulinSensitivity: 39, CycleRegularity: 30},
			stress: 10,
			want:   domain.PersonaInsulinResistant,
		},
		{
			name: "inflammation beats irregular cycle",
			ind:  domain.Indicators{HormoneBalance: 40, InflammationIndex: 61, InsulinSensitivity: 40, CycleRegularity: 30},
			want: domain.PersonaInflammationSpike,
		},
		{
			name: "irregular cycle",
			ind:  domain.Indicators{HormoneBalance: 50, InflammationIndex: 60, InsulinSensitivity: 50, CycleRegularity: 49},
			want: domain.PersonaIrregularRhythm,
		},
		{
			name: "nothing else matches",
			ind:  domain.Indicators{HormoneBalance: 50, InflammationIndex: 50, InsulinSensitivity: 50, CycleRegularity: 50},
			want: domain.PersonaHormoneReset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPersona(tt.ind, tt.stress))
		})
	}
}

func TestOverallScoreIgnoresEnergy(t *testing.T) {
	ind := domain.Indicators{HormoneBalance: 60, InflammationIndex: 40, InsulinSensitivity: 60, CycleRegularity: 60}
	low := ind
	low.EnergyLevel = 0
	high := ind
	high.EnergyLevel = 100

	assert.Equal(t, 60.0, OverallScore(low))
	assert.Equal(t, OverallScore(low), OverallScore(high))
	assert.NotEqual(t, DisplayScore(low), DisplayScore(high))
}

func TestDisplayScore(t *testing.T) {
	ind := domain.Indicators{HormoneBalance: 50, InflammationIndex: 50, InsulinSensitivity: 50, EnergyLevel: 100, CycleRegularity: 50}
	assert.Equal(t, 60.0, DisplayScore(ind))
}
