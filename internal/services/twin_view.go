package services

import (
	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
)

// TwinView is the dashboard payload: the twin plus everything derived from it for display.
type TwinView struct {
	Twin         types.Twin           `json:"twin"`
	PersonaInfo  twin.PersonaInfo     `json:"persona_info"`
	Insight      string               `json:"insight"`
	OverallScore int                  `json:"overall_score"`
	Panel        []twin.PanelEntry    `json:"panel"`
	History      []types.HistoryPoint `json:"history"`
	Trend        []twin.TrendPoint    `json:"trend"`
}

func NewTwinView(snap twin.Snapshot) TwinView {
	info, _ := twin.Info(snap.Twin.Persona)
	return TwinView{
		Twin:         snap.Twin,
		PersonaInfo:  info,
		Insight:      twin.Narrative(snap.Twin.Persona, snap.Twin.Lifestyle),
		OverallScore: int(twin.OverallScore(snap.Twin.Indicators) + 0.5),
		Panel:        twin.Panel(snap.Twin.Indicators),
		History:      snap.History,
		Trend:        twin.OverallTrend(snap.History),
	}
}

// DemoView is the public demo page payload for one persona.
type DemoView struct {
	PersonaInfo twin.PersonaInfo  `json:"persona_info"`
	Lifestyle   types.Lifestyle   `json:"lifestyle"`
	Indicators  types.Indicators  `json:"indicators"`
	Insight     string            `json:"insight"`
	Panel       []twin.PanelEntry `json:"panel"`
}
