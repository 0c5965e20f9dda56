package safety

import "regexp"

// answerLeakagePatterns match generated text that would reveal
// assessment-specific answers despite the system prompt rules.
var answerLeakagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bthe (correct|right) answer is\b`),
	regexp.MustCompile(`(?i)\boption [a-d] is correct\b`),
	regexp.MustCompile(`(?i)\banswer[:=]\s*[a-d]\b`),
	regexp.MustCompile(`(?i)\b(question \d+)[:=]`),
	regexp.MustCompile(`(?i)\bthe solution is\b`),
}

// LeakageBlockResponse replaces a generated reply that tripped the
// answer-leakage check.
const LeakageBlockResponse = "I noticed my response might have included assessment-specific information " +
	"that I should not share. I've blocked that response to maintain academic integrity.\n\n" +
	"I can still help you understand **how assessments work** on our platform. " +
	"Would you like me to explain the assessment format or grading policy instead?"

// ValidateResponse scans generated text for answer leakage. It returns the
// original text when safe, or the block response and false when not.
func ValidateResponse(text string) (string, bool) {
	for _, pattern := range answerLeakagePatterns {
		if pattern.MatchString(text) {
			return LeakageBlockResponse, false
		}
	}
	return text, true
}
