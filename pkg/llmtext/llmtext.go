// Package llmtext parses free-form completion-service output. The
// upstream service guarantees no structure beyond what the prompt
// requests, so every format here is treated as untrusted input and
// parsed defensively.
package llmtext

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var listPrefix = regexp.MustCompile(`^\s*(?:\d+\s*[.):]\s*|[-*]\s+)`)

// noCorrections is the sentinel the grading prompt asks for when a
// submission needs no changes. Enforced by prompt wording only.
const noCorrections = "no corrections needed"

// SentenceList extracts usable practice sentences from a response that
// was asked to contain a numbered list. Lines are trimmed, list
// prefixes stripped, blanks dropped and duplicates removed keeping
// first-seen order. The first and last remaining lines are discarded
// as conversational preamble/postamble noise; models rarely resist
// framing the list. Order is preserved; shuffling and truncation are
// the caller's concern.
func SentenceList(raw string) []string {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(listPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		items = append(items, line)
	}

	items = lo.Uniq(items)
	if len(items) <= 2 {
		return nil
	}
	return items[1 : len(items)-1]
}

// Correction holds the parsed pieces of a grading response.
type Correction struct {
	// Corrected is the corrected target-language sentence, best effort.
	Corrected string
	// Explanations are the per-mistake explanation lines, one tracked
	// weak point each.
	Explanations []string
	// Clean reports that the response declared the submission correct.
	Clean bool
}

// ParseCorrection parses the grading response format requested by the
// grading prompt: the submitted sentence, the corrected sentence, then
// newline-delimited explanations (optionally under an "Explanation:"
// header). A response containing the "No corrections needed" sentinel
// yields Clean with no explanations.
func ParseCorrection(raw string) Correction {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Correction{}
	}
	if strings.Contains(strings.ToLower(raw), noCorrections) {
		return Correction{Clean: true}
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	c := Correction{}
	if len(lines) > 1 {
		c.Corrected = lines[1]
	}

	var rest []string
	if len(lines) > 2 {
		rest = lines[2:]
	}

	// An explicit header wins over the positional convention.
	for i, line := range lines {
		if isExplanationHeader(line) {
			rest = lines[i+1:]
			break
		}
	}

	for _, line := range rest {
		if isExplanationHeader(line) {
			continue
		}
		c.Explanations = append(c.Explanations, strings.TrimSpace(listPrefix.ReplaceAllString(line, "")))
	}
	return c
}

func isExplanationHeader(line string) bool {
	line = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	return line == "explanation" || line == "explanations" || line == "corrections"
}

// Affirmative interprets the constrained yes/no judgment token: any
// response whose first non-space character is '1' counts as success,
// everything else as failure.
func Affirmative(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "1")
}
