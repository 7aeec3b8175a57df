package retrieval

import (
	"math"
	"strings"

	"github.com/poiesic/clinrank/core"
)

// FieldWeights controls how strongly each candidate field influences the
// lexical score. A field's content is repeated max(1, round(weight)) times in
// the projected document, the standard way to bias BM25 term frequency
// without a field-aware scorer.
type FieldWeights struct {
	ExpertiseProcedures float64
	ExpertiseConditions float64
	ExpertiseInterests  float64
	ProcedureGroups     float64
	Specialty           float64
	Subspecialties      float64
	Description         float64
	About               float64
	Name                float64
	Memberships         float64
	AddressLocality     float64
	Title               float64
}

// DefaultFieldWeights returns the tuned baseline field weights.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		ExpertiseProcedures: 2.2,
		ExpertiseConditions: 2.2,
		ExpertiseInterests:  1.6,
		ProcedureGroups:     2.8,
		Specialty:           2.4,
		Subspecialties:      2.6,
		Description:         1.4,
		About:               0.8,
		Name:                0.6,
		Memberships:         0.5,
		AddressLocality:     0.4,
		Title:               0.5,
	}
}

// Document is a candidate paired with its projected searchable text.
type Document struct {
	Candidate *core.Candidate
	Text      string
}

// Projector builds field-weighted searchable text for candidates.
// A Projector is immutable and safe for concurrent use.
type Projector struct {
	weights FieldWeights
}

// NewProjector creates a projector with the given field weights.
func NewProjector(weights FieldWeights) *Projector {
	return &Projector{weights: weights}
}

// Project builds the weighted text representation of a single candidate.
// It is a pure function of the candidate and the configured weights.
func (p *Projector) Project(c *core.Candidate) Document {
	var parts []string
	add := func(text string, weight float64) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		repeats := int(math.Round(weight))
		if repeats < 1 {
			repeats = 1
		}
		for i := 0; i < repeats; i++ {
			parts = append(parts, text)
		}
	}

	expertise, ok := ParseExpertise(c.ClinicalExpertise)
	if ok {
		add(strings.Join(expertise.Procedures, ", "), p.weights.ExpertiseProcedures)
		add(strings.Join(expertise.Conditions, ", "), p.weights.ExpertiseConditions)
		add(strings.Join(expertise.Interests, ", "), p.weights.ExpertiseInterests)
	} else {
		// No recognized "Label:" segments. The raw blob still has to be
		// searchable, so include it verbatim rather than dropping it.
		add(c.ClinicalExpertise, p.weights.ExpertiseInterests)
	}

	add(strings.Join(c.ProcedureGroups, ", "), p.weights.ProcedureGroups)
	add(c.Specialty, p.weights.Specialty)
	add(strings.Join(c.Subspecialties, ", "), p.weights.Subspecialties)
	add(c.Description, p.weights.Description)
	add(c.About, p.weights.About)
	add(c.Name, p.weights.Name)
	add(strings.Join(c.Memberships, ", "), p.weights.Memberships)
	add(c.AddressLocality, p.weights.AddressLocality)
	add(c.Title, p.weights.Title)

	return Document{Candidate: c, Text: strings.Join(parts, "\n")}
}

// ProjectAll projects a pool of candidates, preserving order.
func (p *Projector) ProjectAll(candidates []*core.Candidate) []Document {
	docs := make([]Document, len(candidates))
	for i, c := range candidates {
		docs[i] = p.Project(c)
	}
	return docs
}

// ExpertiseParts are the sub-parts of a structured clinical expertise blob.
type ExpertiseParts struct {
	Procedures []string
	Conditions []string
	Interests  []string
}

// expertise segment labels, matched case-insensitively.
var expertiseLabels = map[string]int{
	"procedures":        0,
	"conditions":        1,
	"special interests": 2,
	"interests":         2,
}

// ParseExpertise splits a semi-colon delimited "Label: value" expertise blob
// into its sub-parts. It reports ok=false when no recognized label prefixes
// are present, in which case the caller must include the raw blob verbatim.
func ParseExpertise(blob string) (ExpertiseParts, bool) {
	var parts ExpertiseParts
	recognized := false

	for _, segment := range strings.Split(blob, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		label, value, found := strings.Cut(segment, ":")
		if !found {
			continue
		}

		slot, known := expertiseLabels[strings.ToLower(strings.TrimSpace(label))]
		if !known {
			continue
		}
		recognized = true

		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			switch slot {
			case 0:
				parts.Procedures = append(parts.Procedures, item)
			case 1:
				parts.Conditions = append(parts.Conditions, item)
			case 2:
				parts.Interests = append(parts.Interests, item)
			}
		}
	}

	return parts, recognized
}
