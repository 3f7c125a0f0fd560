package triage

import (
	"strings"
	"unicode/utf8"
)

// Response line prefixes.
const (
	prefixValidation     = "Validation:"
	prefixCategory       = "Category:"
	prefixPriority       = "Priority:"
	prefixSeverityReason = "Severity Reason:"
	prefixReasoning      = "Reasoning:"
	prefixSummary        = "Summary:"
	prefixLocation       = "Location:"
	prefixIssue          = "Issue:"
	prefixService        = "Service:"
)

// Defaults for fields missing from a response.
const (
	defaultValidation     = "No"
	defaultTriageCategory = "Other"
	defaultTriagePriority = "P3"
	defaultSeverityReason = "Unable to determine"
	defaultPriority       = "P2"
	defaultReasoning      = "AI analysis completed"

	// FallbackReasoning explains keyword-derived priorities.
	FallbackReasoning = "Fallback keyword-based analysis"
	// NotExtracted fills entities when no model extracted them.
	NotExtracted = "Not extracted"

	summaryTruncateLen = 100
)

// scanFields reads "Prefix: value" lines. Prefixes must match at the start of
// a line; values are trimmed; unknown lines are ignored; a later line for the
// same prefix replaces an earlier one. Fields not present keep their defaults.
func scanFields(text string, defaults map[string]string) map[string]string {
	fields := make(map[string]string, len(defaults))
	for k, v := range defaults {
		fields[k] = v
	}

	for line := range strings.SplitSeq(strings.TrimSpace(text), "\n") {
		for prefix := range defaults {
			if value, ok := strings.CutPrefix(line, prefix); ok {
				fields[prefix] = strings.TrimSpace(value)
				break
			}
		}
	}
	return fields
}

type triageFields struct {
	Validation     string
	Category       string
	Priority       string
	SeverityReason string
}

func parseTriage(text string) triageFields {
	f := scanFields(text, map[string]string{
		prefixValidation:     defaultValidation,
		prefixCategory:       defaultTriageCategory,
		prefixPriority:       defaultTriagePriority,
		prefixSeverityReason: defaultSeverityReason,
	})
	return triageFields{
		Validation:     f[prefixValidation],
		Category:       f[prefixCategory],
		Priority:       f[prefixPriority],
		SeverityReason: f[prefixSeverityReason],
	}
}

type priorityFields struct {
	Priority  string
	Reasoning string
}

func parsePriority(text string) priorityFields {
	f := scanFields(text, map[string]string{
		prefixPriority:  defaultPriority,
		prefixReasoning: defaultReasoning,
	})
	return priorityFields{Priority: f[prefixPriority], Reasoning: f[prefixReasoning]}
}

type summaryFields struct {
	Summary  string
	Location string
	Issue    string
	Service  string
}

func parseSummary(text string) summaryFields {
	f := scanFields(text, map[string]string{
		prefixSummary:  "",
		prefixLocation: "",
		prefixIssue:    "",
		prefixService:  "",
	})
	return summaryFields{
		Summary:  f[prefixSummary],
		Location: f[prefixLocation],
		Issue:    f[prefixIssue],
		Service:  f[prefixService],
	}
}

// Truncate returns the first limit characters of text followed by "..." when
// text is longer, otherwise text unchanged.
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
