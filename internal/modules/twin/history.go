package twin

import (
	"time"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

// HistoryWindow is the number of points a twin keeps.
const HistoryWindow = 7

// Jitter is drawn from U{-historyJitter..historyJitter}.
const historyJitter = 7

// IntN is the subset of *rand.Rand the history seeder needs.
type IntN interface {
	IntN(n int) int
}

// SeedHistory fabricates HistoryWindow points for the days leading up to now.
// Older points wander further from current; the last point equals current exactly.
func SeedHistory(current domain.Indicators, now time.Time, rng IntN) []domain.HistoryPoint {
	out := make([]domain.HistoryPoint, 0, HistoryWindow)
	for i := HistoryWindow - 1; i >= 0; i-- {
		at := now.AddDate(0, 0, -i)
		factor := float64(i) / float64(HistoryWindow-1)
		jitter := func(v int) int {
			delta := float64(rng.IntN(2*historyJitter+1)-historyJitter) * factor
			return clampScore(roundHalfUp(float64(v) + delta))
		}
		out = append(out, domain.HistoryPoint{
			Date: weekday(at),
			At:   at,
			Indicators: domain.Indicators{
				HormoneBalance:     jitter(current.HormoneBalance),
				InflammationIndex:  jitter(current.InflammationIndex),
				InsulinSensitivity: jitter(current.InsulinSensitivity),
				EnergyLevel:        jitter(current.EnergyLevel),
				CycleRegularity:    jitter(current.CycleRegularity),
			},
		})
	}
	return out
}

// AppendHistory returns a new slice holding history plus p, trimmed to the last HistoryWindow points.
func AppendHistory(history []domain.HistoryPoint, p domain.HistoryPoint) []domain.HistoryPoint {
	start := 0
	if len(history) >= HistoryWindow {
		start = len(history) - (HistoryWindow - 1)
	}
	out := make([]domain.HistoryPoint, 0, HistoryWindow)
	out = append(out, history[start:]...)
	return append(out, p)
}

func NewHistoryPoint(ind domain.Indicators, at time.Time) domain.HistoryPoint {
	return domain.HistoryPoint{Date: weekday(at), At: at, Indicators: ind}
}

// TrendPoint is one entry of the overall health chart.
type TrendPoint struct {
	Date    string `json:"date"`
	Overall int    `json:"overall"`
}

func OverallTrend(history []domain.HistoryPoint) []TrendPoint {
	out := make([]TrendPoint, len(history))
	for i, p := range history {
		out[i] = TrendPoint{Date: p.Date, Overall: roundHalfUp(DisplayScore(p.Indicators))}
	}
	return out
}

func weekday(t time.Time) string {
	return t.Weekday().String()[:3]
}
