package rescoring

import "github.com/poiesic/clinrank/retrieval"

// intentTier classifies an intent term into one of the three boost tiers.
type intentTier int

const (
	tierHighSignal intentTier = iota
	tierPathway
	tierProcedure
)

// highSignalVocab marks intent terms that name a specific clinical
// capability. A single one of these is a stronger relevance signal than
// several generic care-pathway words.
var highSignalVocab = []string{
	"electrophysiology",
	"ablation",
	"arrhythmia",
	"tachycardia",
	"fibrillation",
	"oncology",
	"chemotherapy",
	"radiotherapy",
	"neurosurgery",
	"transplant",
	"dialysis",
	"endoscopy",
	"angioplasty",
	"stent",
	"pacemaker",
}

// pathwayVocab marks generic care-pathway terms. They indicate the kind
// of encounter the patient wants rather than a clinical capability.
var pathwayVocab = []string{
	"diagnosis",
	"assessment",
	"referral",
	"screening",
	"management",
	"treatment",
	"consultation",
	"rehabilitation",
	"monitoring",
	"evaluation",
	"review",
	"therapy",
	"investigation",
	"surveillance",
	"checkup",
}

// classifyIntentTerm assigns an intent term to a boost tier. Terms that
// contain a high-signal word are high signal even when pathway words are
// also present; terms matching neither vocabulary default to the
// per-match procedure tier.
func classifyIntentTerm(term string) intentTier {
	for _, v := range highSignalVocab {
		if retrieval.ContainsPhrase(term, v) {
			return tierHighSignal
		}
	}
	for _, v := range pathwayVocab {
		if retrieval.ContainsPhrase(term, v) {
			return tierPathway
		}
	}
	return tierProcedure
}
