package analytics

import "strings"

type keywordAnswer struct {
	keyword string
	answer  string
}

// answers are checked in declaration order; the first keyword found wins.
var answers = []keywordAnswer{
	{"save", "Consider automating savings and reducing discretionary spending"},
	{"invest", "Start with low-cost index funds. Aim to invest 15% of income"},
	{"debt", "Focus on high-interest debt first. Consider balance transfers"},
	{"budget", "Try the 50/30/20 rule: Needs(50%), Wants(30%), Savings(20%)"},
}

const fallbackAnswer = "I recommend reviewing your spending patterns and setting clear financial goals"

// AnswerQuestion returns canned advice for the first keyword contained in
// question.
func AnswerQuestion(question string) string {
	q := strings.ToLower(question)
	for _, a := range answers {
		if strings.Contains(q, a.keyword) {
			return a.answer
		}
	}
	return fallbackAnswer
}
