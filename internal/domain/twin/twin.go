package twin

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Indicators are the five derived scores, each in [0,100].
// InflammationIndex is "higher is worse"; every other score is "higher is better".
type Indicators struct {
	HormoneBalance     int `json:"hormone_balance"`
	InflammationIndex  int `json:"inflammation_index"`
	InsulinSensitivity int `json:"insulin_sensitivity"`
	EnergyLevel        int `json:"energy_level"`
	CycleRegularity    int `json:"cycle_regularity"`
}

// Persona is the single label summarizing a twin's state.
type Persona string

const (
	PersonaStressAmplified   Persona = "stress-amplified"
	PersonaInsulinResistant  Persona = "insulin-resistant"
	PersonaInflammationSpike Persona = "inflammation-spike"
	PersonaIrregularRhythm   Persona = "irregular-rhythm"
	PersonaBalancedBloom     Persona = "balanced-bloom"
	PersonaHormoneReset      Persona = "hormone-reset"
)

// Personas lists every persona in classifier order.
var Personas = []Persona{
	PersonaBalancedBloom,
	PersonaStressAmplified,
	PersonaInsulinResistant,
	PersonaInflammationSpike,
	PersonaIrregularRhythm,
	PersonaHormoneReset,
}

func (p Persona) Valid() bool {
	for _, known := range Personas {
		if p == known {
			return true
		}
	}
	return false
}

var (
	AgeRanges     = []string{"18-24", "25-34", "35-44", "45-54", "55+"}
	PCOSDurations = []string{"Newly diagnosed", "1-2 years", "3-5 years", "5-10 years", "10+ years"}
)

var ErrInvalidBasicInfo = errors.New("invalid basic info")

// BasicInfo is narrative flavour only; none of it feeds the formulas.
type BasicInfo struct {
	AgeRange     string   `json:"age_range"`
	HeightCM     *float64 `json:"height_cm,omitempty"`
	WeightKG     *float64 `json:"weight_kg,omitempty"`
	PCOSDuration string   `json:"pcos_duration"`
}

func (b BasicInfo) Validate() error {
	if !contains(AgeRanges, b.AgeRange) {
		return fmt.Errorf("%w: unknown age range %q", ErrInvalidBasicInfo, b.AgeRange)
	}
	if !contains(PCOSDurations, b.PCOSDuration) {
		return fmt.Errorf("%w: unknown pcos duration %q", ErrInvalidBasicInfo, b.PCOSDuration)
	}
	if b.HeightCM != nil && *b.HeightCM <= 0 {
		return fmt.Errorf("%w: height must be positive", ErrInvalidBasicInfo)
	}
	if b.WeightKG != nil && *b.WeightKG <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidBasicInfo)
	}
	return nil
}

// Clone copies the optional measurements so the result shares no memory with b.
func (b BasicInfo) Clone() BasicInfo {
	out := b
	if b.HeightCM != nil {
		v := *b.HeightCM
		out.HeightCM = &v
	}
	if b.WeightKG != nil {
		v := *b.WeightKG
		out.WeightKG = &v
	}
	return out
}

type Twin struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BasicInfo  BasicInfo  `json:"basic_info"`
	Lifestyle  Lifestyle  `json:"lifestyle"`
	Indicators Indicators `json:"indicators"`
	Persona    Persona    `json:"persona"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// HistoryPoint is one archived indicator snapshot, labelled by short weekday name.
type HistoryPoint struct {
	Date string    `json:"date"`
	At   time.Time `json:"at"`
	Indicators
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
