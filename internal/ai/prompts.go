package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/studyhub/journey/internal/models"
)

const summaryPromptTemplate = `You are preparing study material for competitive exam aspirants.
Summarize the following news article in about 150 words. Keep the
summary factual, neutral, and focused on the policy or governance angle.
Do not add commentary or headings; return plain prose only.

Article title: %s

Article text:
%s`

const questionPairPromptTemplate = `You are an exam mentor building a daily current-affairs journey.

From the article summary below, do two things:

1. Write ONE original analytical study question grounded only in the
   summary. End the question with the tag "(%s, %s)".
2. Retrieve ONE real previous-year exam question that is conceptually
   related to the same topic, with its own provenance tag, e.g.
   "(UPSC Prelims 2019)". You must NOT invent or fabricate this
   question. If you cannot confidently recall a genuine one, set the
   field to null.

Respond with a single JSON object and nothing else:
{"caQuestion": "...", "relatedReference": "..." or null}

Summary:
%s`

// buildSummaryPrompt creates the summarization prompt for one article.
func buildSummaryPrompt(title, text string) string {
	return fmt.Sprintf(summaryPromptTemplate, escapeForPrompt(title), text)
}

// buildQuestionPairPrompt creates the question-pair prompt, tagging the
// original question with the article source and a day-month display
// date.
func buildQuestionPairPrompt(article models.Article) string {
	displayDate := time.Now().Format("02 January")
	return fmt.Sprintf(questionPairPromptTemplate,
		escapeForPrompt(article.Source),
		displayDate,
		article.Summary)
}

// escapeForPrompt flattens characters that would break prompt layout.
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
