package chat

import (
	"fmt"
	"strconv"
	"strings"

	domain "github.com/yungbote/lunatwin-backend/internal/domain/twin"
)

type Topic string

const (
	TopicEnergy       Topic = "energy"
	TopicInflammation Topic = "inflammation"
	TopicHormone      Topic = "hormone"
	TopicPersona      Topic = "persona"
	TopicImprove      Topic = "improve"
	TopicWeight       Topic = "weight"
	TopicGeneral      Topic = "general"
	TopicNoTwin       Topic = "no_twin"
)

// Reply is one assistant answer and the rule that produced it.
type Reply struct {
	Topic Topic  `json:"topic"`
	Text  string `json:"text"`
}

const noTwinReply = "I don't have enough information to answer that."

const WelcomeMessage = "Hello! I'm your digital twin companion. I can help you understand your health patterns, " +
	"explain why certain indicators are the way they are, and suggest lifestyle adjustments. What would you like to know?"

// SuggestedQuestions are the quick prompts offered under the chat box.
func SuggestedQuestions() []string {
	return []string{
		"Why is my energy low?",
		"Why did inflammation increase?",
		"How can I improve my hormone balance?",
		"What lifestyle changes would help?",
		"Why am I in this persona?",
	}
}

type rule struct {
	topic    Topic
	keywords []string
	answer   func(t *domain.Twin, personaName string) string
}

// rules are tried in order and the first keyword hit wins,
// so "improve my hormone balance" is answered by the hormone rule.
var rules = []rule{
	{TopicEnergy, []string{"energy", "tired", "fatigue"}, energyReply},
	{TopicInflammation, []string{"inflammation", "inflam"}, inflammationReply},
	{TopicHormone, []string{"hormone", "balance"}, hormoneReply},
	{TopicPersona, []string{"persona", "why am i"}, personaReply},
	{TopicImprove, []string{"improve", "help", "change"}, improveReply},
	{TopicWeight, []string{"weight", "body"}, weightReply},
}

// Respond answers a free-text question about t. personaName is the display name of t's persona.
func Respond(question string, t *domain.Twin, personaName string) Reply {
	if t == nil {
		return Reply{Topic: TopicNoTwin, Text: noTwinReply}
	}
	q := strings.ToLower(question)
	for _, r := range rules {
		if containsAny(q, r.keywords) {
			return Reply{Topic: r.topic, Text: r.answer(t, personaName)}
		}
	}
	return Reply{Topic: TopicGeneral, Text: generalReply(t, personaName)}
}

func energyReply(t *domain.Twin, _ string) string {
	var reasons []string
	if t.Lifestyle.SleepHours < 7 {
		reasons = append(reasons, "your sleep of "+num(t.Lifestyle.SleepHours)+" hours is below optimal")
	}
	if t.Lifestyle.StressLevel > 60 {
		reasons = append(reasons, "elevated stress levels are draining your energy reserves")
	}
	if t.Lifestyle.ActivityLevel < 40 {
		reasons = append(reasons, "lower physical activity can reduce overall vitality")
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("Your energy level is currently at %d%%. While this is reasonable, you might boost it further "+
			"by ensuring consistent sleep patterns and moderate daily activity. "+
			"Remember, energy fluctuates naturally throughout your cycle.", t.Indicators.EnergyLevel)
	}
	return fmt.Sprintf("Your energy level is at %d%%. This may be because %s. Consider prioritizing 7-8 hours of quality sleep "+
		"and incorporating gentle movement like walking or yoga.", t.Indicators.EnergyLevel, strings.Join(reasons, " and "))
}

func inflammationReply(t *domain.Twin, _ string) string {
	index := t.Indicators.InflammationIndex
	if index > 60 {
		return fmt.Sprintf("Your inflammation index is at %d%%, which is elevated. This could be influenced by dietary patterns "+
			"(current: %s%%), stress levels, or reduced physical activity. Anti-inflammatory foods like leafy greens, "+
			"fatty fish, and berries may help, along with stress-reduction practices.", index, num(t.Lifestyle.DietPattern))
	}
	return fmt.Sprintf("Your inflammation index is at %d%%, which is within a healthy range. "+
		"Continue with your current balanced approach to diet and activity to maintain this.", index)
}

func hormoneReply(t *domain.Twin, _ string) string {
	return fmt.Sprintf("Your hormone balance index is at %d%%. This is influenced by your sleep patterns (%sh), "+
		"stress levels (%s%%), and overall lifestyle factors. To support hormone balance, focus on consistent sleep schedules, "+
		"stress management, and regular moderate exercise.",
		t.Indicators.HormoneBalance, num(t.Lifestyle.SleepHours), num(t.Lifestyle.StressLevel))
}

func personaReply(t *domain.Twin, personaName string) string {
	return fmt.Sprintf("You're currently in the %s persona. This is based on your combined health indicators and lifestyle inputs. "+
		"Your hormone balance (%d%%), inflammation (%d%%), and stress level (%s%%) all contribute to this state. "+
		"Small consistent changes in sleep, activity, and stress management can help shift your persona over time.",
		personaName, t.Indicators.HormoneBalance, t.Indicators.InflammationIndex, num(t.Lifestyle.StressLevel))
}

func improveReply(t *domain.Twin, _ string) string {
	var suggestions []string
	if t.Lifestyle.SleepHours < 7 {
		suggestions = append(suggestions, "aim for 7-8 hours of sleep")
	}
	if t.Lifestyle.StressLevel > 50 {
		suggestions = append(suggestions, "incorporate stress-relief activities like meditation or deep breathing")
	}
	if t.Lifestyle.ActivityLevel < 50 {
		suggestions = append(suggestions, "increase daily movement with walks or light exercise")
	}
	if t.Lifestyle.WaterIntake < 6 {
		suggestions = append(suggestions, "stay hydrated with 6-8 glasses of water daily")
	}

	if len(suggestions) == 0 {
		return "You're doing well! Continue with your current healthy habits. " +
			"Consider tracking your patterns to identify what works best for your body."
	}
	return "Based on your current profile, here are some personalized suggestions: " + strings.Join(suggestions, ", ") +
		". Remember, small consistent changes are more sustainable than dramatic overhauls. " +
		"Your digital twin will reflect these changes over time."
}

func weightReply(*domain.Twin, string) string {
	return "Weight is a complex factor in PCOS management. Your digital twin uses weight only as a lifestyle indicator, " +
		"never for body visualization. Focus on how you feel, your energy levels, and your overall well-being rather than numbers. " +
		"Sustainable lifestyle habits matter more than any single metric."
}

func generalReply(t *domain.Twin, personaName string) string {
	return fmt.Sprintf("Thank you for your question. Based on your current %s state, your indicators show hormone balance at %d%%, "+
		"energy at %d%%, and cycle regularity at %d%%. Would you like to know more about any specific aspect of your health patterns?",
		personaName, t.Indicators.HormoneBalance, t.Indicators.EnergyLevel, t.Indicators.CycleRegularity)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// num prints 6.5 as "6.5" and 7 as "7".
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
