package models

import "time"

// JourneyDateFormat is the DD-MM-YYYY key format used for idempotency.
const JourneyDateFormat = "02-01-2006"

// QuestionPair couples one generated current-affairs question with a
// claimed real past-exam reference question. A pair is only kept when
// both question fields are non-empty; verification annotates
// confidence but never filters a pair out.
type QuestionPair struct {
	CAQuestion         string `json:"caQuestion" validate:"required"`
	RelatedReference   string `json:"relatedReference" validate:"required"`
	ReferenceVerified  bool   `json:"referenceVerified"`
	ReferenceSourceURL string `json:"referenceSourceUrl,omitempty"`
}

// JourneyMeta records provenance for one generation run.
type JourneyMeta struct {
	GeneratedAt      time.Time `json:"generatedAt"`
	SourceFetchCount int       `json:"sourceFetchCount"`
}

// Journey is one calendar day's persisted set of question pairs,
// keyed uniquely by JourneyDate. Journeys are written once and never
// updated or deleted by the pipeline.
type Journey struct {
	JourneyDate string         `json:"journeyDate" validate:"required"`
	Questions   []QuestionPair `json:"questions" validate:"min=1,max=5,dive"`
	Meta        JourneyMeta    `json:"meta"`
}

// DateKey formats t as a journey date key.
func DateKey(t time.Time) string {
	return t.Format(JourneyDateFormat)
}
