package triage

import (
	"fmt"

	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/llm"
)

const categoryTaxonomy = `- Waste (garbage, trash, dustbin, refuse collection)
- Water (leakage, supply, pipe, contamination)
- Traffic (congestion, signal, jam, accident, parking)
- Electricity (power, outage, transformer, wiring)
- Sanitation (sewage, drainage, toilet, cleanliness)
- Noise (loud sounds, construction, disturbance)
- Other (anything that doesn't fit above)`

const priorityLevels = `- P0 (Emergency): Immediate danger to life, sparking wires, or major flooding.
- P1 (High): Major service outage (no water/power) or significant safety hazard.
- P2 (Medium): Standard repair needed, non-dangerous (potholes, trash).
- P3 (Low): Minor cosmetic issues or general feedback.`

const summarySystemPrompt = `You are a municipal complaint summarizer.
Create a professional, concise 1-2 sentence summary of the complaint.
Extract key information: specific location, issue type, and affected service.

Respond in this format:
Summary: [1-2 sentence professional summary]
Location: [specific location mentioned]
Issue: [main issue type]
Service: [affected municipal service]`

// Request tuning per aspect. Low temperatures keep answers stable.
const (
	triageTemperature   = 0.2
	triageMaxTokens     = 256
	classifyTemperature = 0.1
	classifyMaxTokens   = 16
	priorityTemperature = 0.2
	priorityMaxTokens   = 128
	summaryTemperature  = 0.3
	summaryMaxTokens    = 150
)

func triageRequest(text string, selected *domain.Category) llm.Request {
	categoryContext := "No pre-selected category"
	var category string
	if selected != nil {
		category = string(*selected)
		categoryContext = "User-Selected Category: " + category
	}

	prompt := fmt.Sprintf(`You are a Triage Specialist for a City Complaint system.

User Input: %s
%s

Task:

1. Validate: Does the text match the category (if provided)? (Yes/No).

2. Classify: Assign the complaint to exactly ONE of these categories:
%s

3. Assign Priority:
%s

Output Format (EXACTLY as shown):
Validation: [Yes/No]
Category: [category name]
Priority: [P0/P1/P2/P3]
Severity Reason: [1-sentence explanation]`, text, categoryContext, indent(categoryTaxonomy), indent(priorityLevels))

	return llm.Request{
		Aspect:      llm.AspectTriage,
		Prompt:      prompt,
		Temperature: triageTemperature,
		MaxTokens:   triageMaxTokens,
		Text:        text,
		Category:    category,
	}
}

func classifyRequest(text string) llm.Request {
	prompt := fmt.Sprintf(`You are an expert complaint classifier for municipal services.
Classify the complaint into exactly ONE of these categories:
%s

Return ONLY the category name, nothing else.

Complaint: %s`, categoryTaxonomy, text)

	return llm.Request{
		Aspect:      llm.AspectClassify,
		Prompt:      prompt,
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
		Text:        text,
	}
}

func priorityRequest(text string, category *domain.Category) llm.Request {
	var categoryContext, categoryName string
	if category != nil {
		categoryName = string(*category)
		categoryContext = "Category: " + categoryName
	}

	prompt := fmt.Sprintf(`You are a Triage Specialist for a City Complaint system. Analyze the complaint urgency and assign a priority level.

Complaint Text: %s
%s

Priority Levels:
%s

Respond in this exact format:
Priority: [P0/P1/P2/P3]
Reasoning: [One sentence explaining why]

Complaint: %s`, text, categoryContext, priorityLevels, text)

	return llm.Request{
		Aspect:      llm.AspectPriority,
		Prompt:      prompt,
		Temperature: priorityTemperature,
		MaxTokens:   priorityMaxTokens,
		Text:        text,
		Category:    categoryName,
	}
}

func summaryRequest(text string) llm.Request {
	return llm.Request{
		Aspect:      llm.AspectSummary,
		System:      summarySystemPrompt,
		Prompt:      "Summarize this complaint: " + text,
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
		Text:        text,
	}
}

// indent prefixes every line with three spaces for nested prompt lists.
func indent(block string) string {
	out := make([]byte, 0, len(block)+64)
	start := true
	for i := range len(block) {
		if start {
			out = append(out, "   "...)
			start = false
		}
		out = append(out, block[i])
		if block[i] == '\n' {
			start = true
		}
	}
	return string(out)
}
