package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

func testTwin(l domain.Lifestyle, ind domain.Indicators) *domain.Twin {
	return &domain.Twin{Lifestyle: l, Indicators: ind, Persona: domain.PersonaHormoneReset}
}

func TestRespondWithoutTwin(t *testing.T) {
	r := Respond("why is my energy low?", nil, "Hormone Reset")
	assert.Equal(t, TopicNoTwin, r.Topic)
	assert.Equal(t, "I don't have enough information to answer that.", r.Text)
}

func TestRespondEnergyCitesShortSleep(t *testing.T) {
	tw := testTwin(
		domain.Lifestyle{SleepHours: 5, StressLevel: 40, ActivityLevel: 60},
		domain.Indicators{EnergyLevel: 55},
	)

	r := Respond("Why is my ENERGY low?", tw, "Hormone Reset")

	assert.Equal(t, TopicEnergy, r.Topic)
	assert.Contains(t, r.Text, "Your energy level is at 55%.")
	assert.Contains(t, r.Text, "your sleep of 5 hours is below optimal")
	assert.NotContains(t, r.Text, "stress levels are draining")
}

func TestRespondEnergyJoinsReasons(t *testing.T) {
	tw := testTwin(
		domain.Lifestyle{SleepHours: 6.5, StressLevel: 80, ActivityLevel: 20},
		domain.Indicators{EnergyLevel: 40},
	)
	r := Respond("I feel so tired", tw, "Stress-Amplified")
	assert.Contains(t, r.Text, "because your sleep of 6.5 hours is below optimal and elevated stress levels are draining "+
		"your energy reserves and lower physical activity can reduce overall vitality.")
}

func TestRespondEnergyWithoutReasons(t *testing.T) {
	tw := testTwin(domain.Lifestyle{SleepHours: 8, StressLevel: 20, ActivityLevel: 80}, domain.Indicators{EnergyLevel: 92})
	r := Respond("fatigue?", tw, "Balanced Bloom")
	assert.Contains(t, r.Text, "Your energy level is currently at 92%. While this is reasonable")
}

func TestRespondFirstMatchWins(t *testing.T) {
	tw := testTwin(domain.DefaultLifestyle(), domain.Indicators{EnergyLevel: 70, InflammationIndex: 65})

	assert.Equal(t, TopicEnergy, Respond("does inflammation sap my energy?", tw, "x").Topic)
	assert.Equal(t, TopicHormone, Respond("How can I improve my hormone balance?", tw, "x").Topic)
	assert.Equal(t, TopicInflammation, Respond("Why did inflammation increase?", tw, "x").Topic)
	assert.Equal(t, TopicPersona, Respond("Why am I in this persona?", tw, "x").Topic)
	assert.Equal(t, TopicImprove, Respond("What lifestyle changes would help?", tw, "x").Topic)
	assert.Equal(t, TopicWeight, Respond("what about my body?", tw, "x").Topic)
}

func TestRespondInflammation(t *testing.T) {
	l := domain.DefaultLifestyle()
	l.DietPattern = 35
	high := Respond("inflammation?", testTwin(l, domain.Indicators{InflammationIndex: 61}), "x")
	assert.Contains(t, high.Text, "at 61%, which is elevated")
	assert.Contains(t, high.Text, "(current: 35%)")

	low := Respond("inflam", testTwin(l, domain.Indicators{InflammationIndex: 60}), "x")
	assert.Contains(t, low.Text, "at 60%, which is within a healthy range")
}

func TestRespondHormone(t *testing.T) {
	l := domain.Lifestyle{SleepHours: 7.5, StressLevel: 45}
	r := Respond("balance", testTwin(l, domain.Indicators{HormoneBalance: 66}), "x")
	assert.Contains(t, r.Text, "Your hormone balance index is at 66%. This is influenced by your sleep patterns (7.5h), stress levels (45%)")
}

func TestRespondPersona(t *testing.T) {
	r := Respond("which persona is this", testTwin(domain.Lifestyle{StressLevel: 72}, domain.Indicators{HormoneBalance: 50, InflammationIndex: 60}), "Stress-Amplified")
	assert.Contains(t, r.Text, "You're currently in the Stress-Amplified persona.")
	assert.Contains(t, r.Text, "Your hormone balance (50%), inflammation (60%), and stress level (72%)")
}

func TestRespondImprove(t *testing.T) {
	poor := domain.Lifestyle{SleepHours: 6, StressLevel: 60, ActivityLevel: 30, WaterIntake: 4}
	r := Respond("help me", testTwin(poor, domain.Indicators{}), "x")
	assert.Contains(t, r.Text, "suggestions: aim for 7-8 hours of sleep, incorporate stress-relief activities like meditation "+
		"or deep breathing, increase daily movement with walks or light exercise, stay hydrated with 6-8 glasses of water daily.")

	good := domain.Lifestyle{SleepHours: 8, StressLevel: 50, ActivityLevel: 50, WaterIntake: 6}
	r = Respond("how do I improve", testTwin(good, domain.Indicators{}), "x")
	assert.Equal(t, "You're doing well! Continue with your current healthy habits. "+
		"Consider tracking your patterns to identify what works best for your body.", r.Text)
}

func TestRespondFallback(t *testing.T) {
	tw := testTwin(domain.DefaultLifestyle(), domain.Indicators{HormoneBalance: 65, EnergyLevel: 73, CycleRegularity: 74})
	r := Respond("hello there", tw, "Hormone Reset")
	assert.Equal(t, TopicGeneral, r.Topic)
	assert.Equal(t, "Thank you for your question. Based on your current Hormone Reset state, your indicators show hormone balance at 65%, "+
		"energy at 73%, and cycle regularity at 74%. Would you like to know more about any specific aspect of your health patterns?", r.Text)
}

func TestSuggestedQuestionsAreCopies(t *testing.T) {
	q := SuggestedQuestions()
	q[0] = "changed"
	assert.Equal(t, "Why is my energy low?", SuggestedQuestions()[0])
	assert.Len(t, SuggestedQuestions(), 5)
}
