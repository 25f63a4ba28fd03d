package ai

import "github.com/nsoftlabs/whitespace-server/internal/model"

// Fallback drafts used when the backend is unreachable or returns garbage.
// Ingestion continues with these defaults so a user's upload never dead-ends
// on an upstream failure; the low scores route the result to the staging
// queue for human review.

// FallbackFileDraft is the default analysis for an uploaded file.
func FallbackFileDraft(filename string) Draft {
	return Draft{
		Title:           "New Opportunity Detected",
		EvidenceSnippet: "Analysis pending for " + filename,
		Vertical:        model.VerticalGeneral,
		ImpactScore:     70,
		Trend:           model.TrendStable,
		Tags:            []string{"New", "Upload"},
		Description:     "Automatically detected from user upload.",
		TimeHorizon:     "6-18 months",
		OpportunityType: model.TypeTechGap,
		Geography:       "Global",
	}
}

// snippetLimit caps evidence snippets copied out of free-form descriptions.
const snippetLimit = 100

// Snippet returns at most the first 100 runes of description. Cutting on a
// rune boundary keeps multi-byte text intact.
func Snippet(description string) string {
	runes := []rune(description)
	if len(runes) <= snippetLimit {
		return description
	}
	return string(runes[:snippetLimit])
}

// FallbackManualDraft is the default analysis for a manual entry.
func FallbackManualDraft(description string) Draft {
	return Draft{
		Title:             "Draft Opportunity",
		EvidenceSnippet:   Snippet(description),
		ImpactScore:       60,
		Trend:             model.TrendStable,
		Tags:              []string{"Draft", "Manual"},
		Description:       description,
		TimeHorizon:       "6-18 months",
		SourceReliability: model.ReliabilityMedium,
		Geography:         "Global",
	}
}
