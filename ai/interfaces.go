package ai

import (
	"context"

	"github.com/poiesic/clinrank/core"
)

// ProfileSummary is the condensed view of a candidate sent to the
// external judge. Summaries are ordered; the judge sees them in the
// current ranking order.
type ProfileSummary struct {
	// Id identifies the candidate being summarized.
	Id core.ID

	// Name is the candidate's display name.
	Name string

	// Specialty is the candidate's primary category.
	Specialty string

	// Summary is a short free-text description assembled from the
	// candidate's expertise and description fields.
	Summary string
}

// FitJudgment is one candidate's fit classification from the judge.
type FitJudgment struct {
	CandidateId core.ID
	Fit         core.FitCategory
}

// FitJudge classifies how well candidates fit a patient query.
// Implementations must be thread-safe for concurrent use.
type FitJudge interface {
	// ClassifyFit judges each profile against the query and returns one
	// judgment per classifiable profile. Profiles whose response entry
	// is missing or unparseable may be omitted; callers must treat
	// absent judgments as unclassified, never as an error.
	ClassifyFit(ctx context.Context, query string, profiles []ProfileSummary) ([]FitJudgment, error)
}

// Intent is the structured reading of a raw patient query.
type Intent struct {
	// PatientQuery is the cleaned retrieval string.
	PatientQuery string

	// SafeLaneTerms are high-confidence symptom or condition terms.
	SafeLaneTerms []string

	// IntentTerms are terms used for rescoring boosts.
	IntentTerms []string

	// AnchorPhrases are explicit condition/procedure strings lifted
	// verbatim from the query.
	AnchorPhrases []string

	// NegativeTerms indicate the wrong clinical lane.
	NegativeTerms []string

	// LikelySubspecialties are confidence-weighted subspecialty hints.
	LikelySubspecialties []core.SubspecialtyHint

	// Ambiguous reports that the query admits multiple clinical
	// readings, which selects the ambiguity-primary rescoring strategy.
	Ambiguous bool
}

// IntentExtractor turns a raw patient query into a structured Intent.
// Implementations must be thread-safe for concurrent use.
type IntentExtractor interface {
	// ExtractIntent analyzes the raw query. Returns an error only when
	// the underlying service fails; a query with no extractable signal
	// yields an Intent with empty term lists.
	ExtractIntent(ctx context.Context, query string) (*Intent, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// FitJudge returns the fit classification service.
	// The returned FitJudge is safe for concurrent use.
	FitJudge() FitJudge

	// IntentExtractor returns the query understanding service.
	// The returned IntentExtractor is safe for concurrent use.
	IntentExtractor() IntentExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
