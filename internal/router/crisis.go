package router

import "strings"

// crisisKeywords trigger the safety path on any case-insensitive
// substring hit. This scan runs before any LLM call.
var crisisKeywords = []string{
	"hurt myself", "kill myself", "suicide", "end my life",
	"want to die", "self harm", "self-harm", "cutting myself",
	"don't want to live", "no reason to live", "better off dead",
	"end it all", "not worth living", "take my own life",
}

// CrisisResponse is the fixed message returned on a safety trigger.
// It bypasses the orchestrator entirely.
const CrisisResponse = `I'm really concerned about what you've shared. Your wellbeing matters more than any academic decision.

**Please reach out to someone who can help:**

🇵🇹 **Portugal:**
- SOS Voz Amiga: 213 544 545 (daily 15h-22h)
- Telefone da Amizade: 222 080 707

🌍 **International:**
- International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/

You're not alone. Please talk to a trusted adult, counselor, or call one of these helplines. They're there for you. 💙`

// IsCrisisMessage reports whether the message contains crisis keywords.
func IsCrisisMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
