package safety

import (
	"regexp"
	"strings"

	"github.com/Chatresh7/edtech-bot/internal/kb"
)

// Intent is the classified topic of a user query. Besides the knowledge-base
// categories it includes "general" (no clear topic) and "blocked" (the query
// solicits assessment answers).
type Intent string

const (
	IntentGeneral Intent = "general"
	IntentBlocked Intent = "blocked"
)

// CategoryHint maps an intent onto a retrieval category hint. General and
// blocked intents carry no hint.
func (i Intent) CategoryHint() kb.Category {
	c := kb.Category(i)
	if c.Valid() {
		return c
	}
	return ""
}

// blockedPatterns match queries that try to obtain assessment answers.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(solve|answer|give me the answer|correct answer|solution)\b.*\b(question|quiz|exam|mcq|test|assignment)\b`),
	regexp.MustCompile(`\b(answer|solve)\b.*\b(question\s*\d+|q\d+)\b`),
	regexp.MustCompile(`\bwhat is the (correct|right) answer\b`),
	regexp.MustCompile(`\bgive.*answer(s)?\b`),
	regexp.MustCompile(`\bsolve this (for me|please)?\b`),
	regexp.MustCompile(`\banswer this (mcq|question|quiz|problem)\b`),
	regexp.MustCompile(`\bfill in the blank\b`),
	regexp.MustCompile(`\bcomplete the (sentence|question|following)\b`),
	regexp.MustCompile(`\bwhich option is (correct|right|the answer)\b`),
	regexp.MustCompile(`\bcheat\b`),
}

// SafeResponse is returned verbatim for blocked queries.
const SafeResponse = "I'm here to help you understand how the platform works — " +
	"but I'm not able to provide answers to assessments, quizzes, or exam questions. " +
	"That would go against our academic integrity policy.\n\n" +
	"I *can* explain:\n" +
	"- How assessments are structured and graded\n" +
	"- What the passing criteria are\n" +
	"- How to navigate the platform\n\n" +
	"Would you like help with any of those?"

// intentKeywords maps each intent to its trigger words, checked in order.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{Intent(kb.CategoryCourse), []string{
		"course", "enroll", "module", "lesson", "video", "lecture", "forum",
		"refund", "language", "subtitle", "note", "bookmark", "support",
	}},
	{Intent(kb.CategoryAssessment), []string{
		"quiz", "exam", "assessment", "assignment", "grade", "score", "pass",
		"fail", "attempt", "submit", "proctored", "feedback", "plagiarism",
	}},
	{Intent(kb.CategoryCertification), []string{
		"certificate", "certif", "specialization", "verify", "download",
		"share", "employer", "renewal", "expiry", "re-enroll",
	}},
	{Intent(kb.CategoryProgress), []string{
		"progress", "completion", "streak", "activity", "dashboard", "sync",
		"percent", "log", "gradebook", "notification",
	}},
}

// IsBlocked reports whether the query is trying to obtain assessment answers.
func IsBlocked(query string) bool {
	q := strings.ToLower(query)
	for _, pattern := range blockedPatterns {
		if pattern.MatchString(q) {
			return true
		}
	}
	return false
}

// ClassifyIntent returns the query's topic: a knowledge-base category,
// "blocked" for integrity violations, or "general" when nothing matches.
// The safety check runs first so a blocked query never reaches retrieval
// with a category hint.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(query)

	if IsBlocked(q) {
		return IntentBlocked
	}

	for _, group := range intentKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(q, keyword) {
				return group.intent
			}
		}
	}
	return IntentGeneral
}
