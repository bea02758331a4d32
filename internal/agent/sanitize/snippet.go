// Package sanitize neutralizes instruction-like text in content fetched from
// the web before it is handed back to the model (indirect prompt injection).
// Reference: OWASP LLM Prompt Injection Prevention Cheat Sheet
// https://cheatsheetseries.owasp.org/cheatsheets/LLM_Prompt_Injection_Prevention_Cheat_Sheet.html
package sanitize

import (
	"regexp"
	"strings"
)

// MaxSnippetRunes bounds how much of a search snippet reaches the model
const MaxSnippetRunes = 300

// instructionPatterns detects instruction-like content in search results:
// instruction override, role reassignment, output-format manipulation and
// delimiter injection.
var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+|any\s+)?(previous|prior|above|earlier)\s+(instructions|prompts|rules)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|the\s+)?(previous|prior|above|system)\s+\w+`),
	regexp.MustCompile(`(?i)forget\s+(everything|all)\s+(you|above|before)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)\s+\w+`),
	regexp.MustCompile(`(?i)act\s+as\s+(a|an|the)\s+\w+`),
	regexp.MustCompile(`(?i)(system|developer)\s+(prompt|message|mode)`),
	regexp.MustCompile(`(?i)(respond|reply|answer)\s+only\s+with`),
	regexp.MustCompile(`(?i)do\s+not\s+(return|output)\s+(json|an?\s+array)`),
	regexp.MustCompile(`(?i)</?\s*(system|assistant|user|instructions?)\s*>`),
}

// Snippet truncates a snippet and wraps instruction-like spans in 【】 brackets
// so the model reads them as quoted text rather than instructions.
func Snippet(s string) string {
	result := strings.TrimSpace(s)
	runes := []rune(result)
	if len(runes) > MaxSnippetRunes {
		result = string(runes[:MaxSnippetRunes]) + "..."
	}
	for _, pattern := range instructionPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			return "【" + match + "】"
		})
	}
	return result
}
