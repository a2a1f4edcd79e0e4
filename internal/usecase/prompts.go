package usecase

import (
	"fmt"
	"strings"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// Prompt builders for the completion service. The returned text has no
// schema guarantee; every structural convention here (numbered lists,
// the corrected-sentence format, the "No corrections needed" sentinel,
// the single leading 1/0 token) is enforced only by wording and parsed
// defensively in pkg/llmtext.

func sentenceBatchPrompt(n int, level entity.Level, lang entity.Language, topic string) string {
	return fmt.Sprintf(
		"Generate %d numbered example sentences in English for a student at the %s level to translate into %s. "+
			"The sentences in %s should cover the topic of: %s.",
		n, level, lang.Name(), lang.Name(), topic)
}

func errorSentencePrompt(level entity.Level, lang entity.Language, errorText, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Generate a sentence in English for a student at the %s level to translate into %s. ",
		level, lang.Name())
	fmt.Fprintf(&b, "Focus on the following error: %s.", errorText)
	if topic != "" {
		fmt.Fprintf(&b, " The sentence should cover the topic of: %s.", topic)
	}
	return b.String()
}

func vocabBatchPrompt(n int, level entity.Level, lang entity.Language, word string) string {
	return fmt.Sprintf(
		"Generate %d numbered example sentences in English for a student at the %s level to translate into %s. "+
			"Each sentence, once translated, should require the %s word '%s'.",
		n, level, lang.Name(), lang.Name(), word)
}

func gradingPrompt(english, translation string) string {
	return "Correct this translation in the format:\n" +
		"<user submitted sentence>\n" +
		"<corrected sentence with corrections in **boldface**>\n" +
		"<list of corrections with explanations, newline delimited>\n" +
		"If the translation is correct, respond with exactly 'No corrections needed'.\n" +
		translation + "\n" + english
}

func conceptJudgmentPrompt(english, translation, concept string) string {
	return fmt.Sprintf(
		"A student translated the sentence %q as %q. "+
			"Did the student demonstrate correct use of the following, ignoring unrelated mistakes: %s? "+
			"Respond with a single character: 1 for yes, 0 for no.",
		english, translation, concept)
}
