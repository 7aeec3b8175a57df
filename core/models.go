package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Candidate is a clinician profile being ranked. Candidates are owned by the
// caller and are never mutated by the ranking engine; every ranking call
// produces new ScoredResult records instead.
type Candidate struct {
	Id    ID
	Name  string
	Title string

	// Specialty is the primary category; Subspecialties are the sub-categories.
	Specialty      string
	Subspecialties []string

	// ClinicalExpertise is a semi-colon delimited blob using a "Label: value"
	// segment grammar (Procedures / Conditions / Special interests). It is
	// parsed apart for field weighting; unparseable blobs are still searched
	// verbatim.
	ClinicalExpertise string

	ProcedureGroups []string
	Description     string
	About           string
	Memberships     []string
	Languages       []string
	AddressLocality string
	Gender          string

	// AgeGroups lists the patient groups the clinician sees, e.g. "adults",
	// "children".
	AgeGroups []string

	// Quality signals.
	Rating          float64
	ReviewCount     int
	YearsExperience int
	Verified        bool

	// Checklist holds precomputed concatenated tag sets, populated at
	// ingestion time. Optional; the engine falls back to parsing
	// ClinicalExpertise when absent.
	Checklist *ChecklistProfile
}

// ChecklistProfile is a precomputed view of a candidate's tag sets, merged
// from the structured expertise blob and the list-valued fields.
type ChecklistProfile struct {
	Procedures []string
	Conditions []string
	Interests  []string
}

// RescoringStrategy selects how Stage B combines signals into a final order.
type RescoringStrategy int

const (
	// StrategyTermBoost is the default additive/multiplicative term-boost
	// strategy: boosts and penalties adjust the lexical score.
	StrategyTermBoost RescoringStrategy = iota + 1

	// StrategyAmbiguityPrimary makes the rescoring score the primary sort
	// key, with the lexical score as tie-break only. Used when the caller
	// signals the query is ambiguous and term signals are the more reliable
	// discriminator.
	StrategyAmbiguityPrimary

	// StrategyIdealProfileMatch scores candidates by profile-to-profile
	// matching against QueryBundle.IdealProfile instead of term counting.
	StrategyIdealProfileMatch
)

// String returns the canonical name of the strategy.
func (s RescoringStrategy) String() string {
	switch s {
	case StrategyTermBoost:
		return "term-boost"
	case StrategyAmbiguityPrimary:
		return "ambiguity-primary"
	case StrategyIdealProfileMatch:
		return "ideal-profile-match"
	default:
		return "unknown"
	}
}

// NegativeMode selects how negative-term penalties combine with the score.
type NegativeMode int

const (
	// NegativeModeDefault lets the strategy pick: additive for
	// StrategyAmbiguityPrimary, multiplicative for StrategyTermBoost.
	NegativeModeDefault NegativeMode = iota

	// NegativeModeAdditive subtracts a tiered penalty from the score.
	NegativeModeAdditive

	// NegativeModeMultiplicative scales the score by a tiered factor < 1.
	NegativeModeMultiplicative
)

// SubspecialtyHint is a likely subspecialty with extraction confidence in [0,1].
type SubspecialtyHint struct {
	Name       string
	Confidence float64
}

// Filters are hard inclusion predicates applied before scoring.
// An empty field means no constraint on that dimension.
type Filters struct {
	AgeGroup  string
	Languages []string
	Gender    string
}

// CriterionLevel tags an ideal-profile criterion as required, preferred or optional.
type CriterionLevel int

const (
	LevelRequired CriterionLevel = iota + 1
	LevelPreferred
	LevelOptional
)

// Criterion is a single ideal-profile target value with its level.
type Criterion struct {
	Value string
	Level CriterionLevel
}

// IdealProfile is a structured target description used by the
// profile-matching rescoring strategy instead of term counting.
type IdealProfile struct {
	Subspecialties      []Criterion
	Procedures          []Criterion
	Conditions          []Criterion
	ExpertiseAreas      []Criterion
	DescriptionKeywords []Criterion
	Qualifications      []Criterion

	// Avoid lists attributes that subtract from the match score when present.
	Avoid []string

	// Soft preferences. Matching adds a small bonus; missing is never a penalty.
	AgeGroup  string
	Languages []string
	Gender    string
}

// QueryBundle is the caller-supplied ranking request. The clean retrieval
// query and the rescoring signal terms are deliberately separate: signal
// terms never pollute Stage A retrieval unless explicitly injected under a
// configured cap.
type QueryBundle struct {
	PatientQuery string

	// SafeLaneTerms are high-confidence symptom/condition terms, ordered by
	// confidence; a capped prefix may augment the retrieval query.
	SafeLaneTerms []string

	// IntentTerms are used for rescoring boosts only, unless the config caps
	// a subset into retrieval.
	IntentTerms []string

	AnchorPhrases        []string
	NegativeTerms        []string
	LikelySubspecialties []SubspecialtyHint

	// IdealProfile is consulted only by StrategyIdealProfileMatch.
	IdealProfile *IdealProfile

	Filters  Filters
	Strategy RescoringStrategy

	// NegativeMode overrides the strategy's default penalty combination.
	NegativeMode NegativeMode
}

// Breakdown enumerates which match categories contributed to a result and
// how many times. A category's score contribution is zero exactly when its
// count here is zero.
type Breakdown struct {
	HighSignalMatches int
	PathwayMatches    int
	ProcedureMatches  int
	AnchorMatches     int
	SafeLaneMatches   int
	NegativeMatches   int
	SubspecialtyBoost float64

	ExactQueryMatch bool
	BigramMatches   int

	ProfileRequiredHits   int
	ProfilePreferredHits  int
	ProfileOptionalHits   int
	ProfileMissedRequired int
	ProfileAvoidHits      int
}

// ScoredResult is one ranked candidate with its score decomposition.
// FinalScore is never negative.
type ScoredResult struct {
	Candidate    *Candidate
	LexicalScore float64

	// RescoreScore is populated only when the strategy computes a rescoring
	// score separately from the lexical score (ambiguity-primary and
	// ideal-profile matching).
	RescoreScore *float64

	FinalScore float64
	Breakdown  Breakdown
}

// FitCategory is the external judge's quality classification for a candidate.
type FitCategory int

const (
	FitUnclassified FitCategory = iota
	FitExcellent
	FitGood
	FitIllFit
)

// String returns the wire name of the fit category.
func (f FitCategory) String() string {
	switch f {
	case FitExcellent:
		return "excellent"
	case FitGood:
		return "good"
	case FitIllFit:
		return "ill-fit"
	default:
		return "unclassified"
	}
}

// ParseFitCategory maps a wire name to a FitCategory. Unknown names report
// ok=false so callers can degrade to a default rather than fail a batch.
func ParseFitCategory(s string) (FitCategory, bool) {
	switch s {
	case "excellent":
		return FitExcellent, true
	case "good":
		return FitGood, true
	case "ill-fit", "ill_fit", "illfit", "poor":
		return FitIllFit, true
	default:
		return FitUnclassified, false
	}
}
