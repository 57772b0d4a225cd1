package router

import "github.com/ready4uni/advisor-go/internal/llm"

// classifierPrompt drives the LLM intent classification.
const classifierPrompt = `Analyze the user's message and classify their intent into ONE of these categories:

**Intent Categories:**

1. **major_discovery** - User wants to explore which majors fit their interests
   Examples:
   - "I love math and physics, what should I study?"
   - "I want to work with computers, what majors are good?"
   - "Help me find a major that matches my interests"

2. **transcript_analysis** - User wants to upload/analyze their academic transcript
   Examples:
   - "Can you look at my grades?"
   - "I uploaded my transcript, am I ready for engineering?"
   - "Here's my report card"

3. **gap_analysis** - User wants to know if their grades meet requirements for a specific major
   Examples:
   - "Do I have good enough grades for Computer Science?"
   - "What subjects do I need to improve to study Medicine?"
   - "Am I ready for this major?"

4. **resource_request** - User needs study materials or course recommendations
   Examples:
   - "How can I improve my math?"
   - "What courses should I take to prepare?"
   - "Recommend resources for calculus"

5. **general_question** - General questions about universities, majors, careers, or the system
   Examples:
   - "What's the difference between CS and Software Engineering?"
   - "How does university admission work in Portugal?"
   - "What careers can I pursue with a business degree?"

6. **greeting_or_chitchat** - Greetings, thank yous, or off-topic conversation
   Examples:
   - "Hello!"
   - "Thanks for your help"
   - "What's the weather like?"

**Context awareness:**
- Consider conversation history - if they just uploaded a transcript, "analyze this" means transcript_analysis
- If multiple intents are present, prioritize the primary/explicit one
- Default to general_question if truly ambiguous`

// intentSchema constrains the structured classification response.
func intentSchema() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"intent": {
				Type: "string",
				Enum: []string{
					"major_discovery",
					"transcript_analysis",
					"gap_analysis",
					"resource_request",
					"general_question",
					"greeting_or_chitchat",
				},
				Description: "The primary intent of the user's message",
			},
			"confidence": {
				Type:        "number",
				Description: "Confidence in the classification (0.0 - 1.0)",
			},
			"reasoning": {
				Type:        "string",
				Description: "Brief explanation of why this intent was chosen",
			},
			"extracted_entities": {
				Type: "object",
				Properties: map[string]*llm.Schema{
					"major_mentioned": {
						Type:        "string",
						Description: "Name of major if explicitly mentioned",
					},
					"subjects_mentioned": {
						Type:        "array",
						Items:       &llm.Schema{Type: "string"},
						Description: "School subjects mentioned",
					},
					"interests": {
						Type:        "array",
						Items:       &llm.Schema{Type: "string"},
						Description: "Interests or hobbies mentioned",
					},
					"has_transcript_reference": {
						Type:        "boolean",
						Description: "Whether user references their transcript/grades",
					},
				},
			},
		},
		Required: []string{"intent", "confidence", "reasoning"},
	}
}
