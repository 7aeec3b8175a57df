package rescoring

import "github.com/poiesic/clinrank/core"

// Match category names reported through the Monitor.
const (
	CategoryHighSignal   = "high_signal"
	CategoryPathway      = "pathway"
	CategoryProcedure    = "procedure"
	CategoryAnchor       = "anchor"
	CategorySafeLane     = "safe_lane"
	CategorySubspecialty = "subspecialty"
	CategoryNegative     = "negative"
	CategoryProfile      = "profile"
	CategoryAvoid        = "avoid"
)

// Monitor receives structured events as the engine applies boosts and
// penalties. Every adjustment to a candidate's score is reported, so the
// final breakdown can be reconstructed without parsing log output.
// Implementations must be fast; they run inline with scoring.
type Monitor interface {
	// Start is called once per Rescore call before any scoring.
	Start(strategy core.RescoringStrategy, candidateCount int)

	// BoostApplied reports a positive score adjustment for a candidate.
	BoostApplied(id core.ID, category string, matches int, delta float64)

	// PenaltyApplied reports a negative score adjustment. For the
	// multiplicative negative mode, delta is the factor applied.
	PenaltyApplied(id core.ID, category string, matches int, delta float64)

	// Finish is called once with the final ordered results.
	Finish(results []core.ScoredResult)
}

type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (noopMonitor) Start(core.RescoringStrategy, int)            {}
func (noopMonitor) BoostApplied(core.ID, string, int, float64)   {}
func (noopMonitor) PenaltyApplied(core.ID, string, int, float64) {}
func (noopMonitor) Finish([]core.ScoredResult)                   {}
