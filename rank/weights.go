// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rank

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/poiesic/clinrank/rescoring"
	"github.com/poiesic/clinrank/retrieval"
)

// Weights is the complete numeric configuration for one ranking call.
// It is constructed once per call from the documented defaults, merged
// with any caller override, validated, and then treated as immutable.
type Weights struct {
	// BM25 parameters.
	K1 float64
	B  float64

	// StageATopN is the retrieval pool size handed to rescoring.
	StageATopN int

	// SafeLaneRetrievalCap limits how many safe-lane terms are appended
	// to the retrieval query. IntentRetrievalCap does the same for
	// intent terms and defaults to zero (rescoring only).
	SafeLaneRetrievalCap int
	IntentRetrievalCap   int

	// UnionRetrieval runs a second retrieval pass over the intent terms
	// and merges the two rankings by maximum score.
	UnionRetrieval bool

	// RetrievalNegativePenalty, when positive, subtracts
	// penalty*matches from retrieval scores before Stage A truncation.
	RetrievalNegativePenalty float64

	FieldWeights retrieval.FieldWeights
	Quality      retrieval.QualityWeights
	ExactMatch   retrieval.ExactMatchWeights
	Rescoring    rescoring.Config
}

// DefaultWeights returns the tuned baseline.
func DefaultWeights() Weights {
	return Weights{
		K1:                   1.4,
		B:                    0.75,
		StageATopN:           150,
		SafeLaneRetrievalCap: 2,
		IntentRetrievalCap:   0,
		FieldWeights:         retrieval.DefaultFieldWeights(),
		Quality:              retrieval.DefaultQualityWeights(),
		ExactMatch:           retrieval.DefaultExactMatchWeights(),
		Rescoring:            rescoring.DefaultConfig(),
	}
}

// Validate checks field ranges. Weights that fail validation must not
// be used for ranking.
func (w Weights) Validate() error {
	if w.K1 <= 0 {
		return fmt.Errorf("%w: k1 must be positive, got %v", ErrInvalidWeights, w.K1)
	}
	if w.B < 0 || w.B > 1 {
		return fmt.Errorf("%w: b must be in [0,1], got %v", ErrInvalidWeights, w.B)
	}
	if w.StageATopN <= 0 {
		return fmt.Errorf("%w: stage_a_top_n must be positive, got %d", ErrInvalidWeights, w.StageATopN)
	}
	if w.SafeLaneRetrievalCap < 0 || w.IntentRetrievalCap < 0 {
		return fmt.Errorf("%w: retrieval caps must be non-negative", ErrInvalidWeights)
	}
	if w.RetrievalNegativePenalty < 0 {
		return fmt.Errorf("%w: retrieval negative penalty must be non-negative", ErrInvalidWeights)
	}
	r := w.Rescoring
	for name, v := range map[string]float64{
		"high_signal_1":       r.HighSignal1,
		"high_signal_2":       r.HighSignal2,
		"pathway_1":           r.Pathway1,
		"pathway_2":           r.Pathway2,
		"pathway_3":           r.Pathway3,
		"procedure_per_match": r.ProcedurePerMatch,
		"anchor_per_match":    r.AnchorPerMatch,
		"anchor_cap":          r.AnchorCap,
		"safe_lane_1":         r.SafeLane1,
		"safe_lane_2":         r.SafeLane2,
		"safe_lane_3_or_more": r.SafeLane3OrMore,
		"subspecialty_factor": r.SubspecialtyFactor,
		"subspecialty_cap":    r.SubspecialtyCap,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidWeights, name, v)
		}
	}
	for name, v := range map[string]float64{
		"negative_1": r.Negative1,
		"negative_2": r.Negative2,
		"negative_4": r.Negative4,
	} {
		if v > 0 {
			return fmt.Errorf("%w: %s must be zero or negative, got %v", ErrInvalidWeights, name, v)
		}
	}
	for name, v := range map[string]float64{
		"negative_factor_1": r.NegativeFactor1,
		"negative_factor_2": r.NegativeFactor2,
		"negative_factor_4": r.NegativeFactor4,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in (0,1], got %v", ErrInvalidWeights, name, v)
		}
	}
	return nil
}

// weightsOverride mirrors the tuning-file schema. Every field is a
// pointer so absent keys leave the default untouched.
type weightsOverride struct {
	K1                       *float64 `json:"k1"`
	B                        *float64 `json:"b"`
	StageATopN               *int     `json:"stage_a_top_n"`
	SafeLaneRetrievalCap     *int     `json:"safe_lane_retrieval_cap"`
	IntentRetrievalCap       *int     `json:"intent_retrieval_cap"`
	UnionRetrieval           *bool    `json:"union_retrieval"`
	RetrievalNegativePenalty *float64 `json:"retrieval_negative_penalty"`

	HighSignal1        *float64 `json:"high_signal_1"`
	HighSignal2        *float64 `json:"high_signal_2"`
	Pathway1           *float64 `json:"pathway_1"`
	Pathway2           *float64 `json:"pathway_2"`
	Pathway3           *float64 `json:"pathway_3"`
	ProcedurePerMatch  *float64 `json:"procedure_per_match"`
	AnchorPerMatch     *float64 `json:"anchor_per_match"`
	AnchorCap          *float64 `json:"anchor_cap"`
	SafeLane1          *float64 `json:"safe_lane_1"`
	SafeLane2          *float64 `json:"safe_lane_2"`
	SafeLane3OrMore    *float64 `json:"safe_lane_3_or_more"`
	SubspecialtyFactor *float64 `json:"subspecialty_factor"`
	SubspecialtyCap    *float64 `json:"subspecialty_cap"`
	Negative1          *float64 `json:"negative_1"`
	Negative2          *float64 `json:"negative_2"`
	Negative4          *float64 `json:"negative_4"`
	NegativeFactor1    *float64 `json:"negative_factor_1"`
	NegativeFactor2    *float64 `json:"negative_factor_2"`
	NegativeFactor4    *float64 `json:"negative_factor_4"`

	FieldWeights *fieldWeightsOverride `json:"field_weights"`
}

type fieldWeightsOverride struct {
	ExpertiseProcedures *float64 `json:"expertise_procedures"`
	ExpertiseConditions *float64 `json:"expertise_conditions"`
	ExpertiseInterests  *float64 `json:"expertise_interests"`
	ProcedureGroups     *float64 `json:"procedure_groups"`
	Specialty           *float64 `json:"specialty"`
	Subspecialties      *float64 `json:"subspecialties"`
	Description         *float64 `json:"description"`
	About               *float64 `json:"about"`
	Name                *float64 `json:"name"`
	Memberships         *float64 `json:"memberships"`
	AddressLocality     *float64 `json:"address_locality"`
	Title               *float64 `json:"title"`
}

// MergeJSON returns a copy of w with any fields present in the JSON
// override applied on top, then validated. Unknown keys are rejected so
// tuning-file typos surface instead of silently keeping defaults.
func (w Weights) MergeJSON(data []byte) (Weights, error) {
	var o weightsOverride
	if err := unmarshalStrict(data, &o); err != nil {
		return Weights{}, fmt.Errorf("%w: %w", ErrInvalidWeights, err)
	}

	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setF(&w.K1, o.K1)
	setF(&w.B, o.B)
	setI(&w.StageATopN, o.StageATopN)
	setI(&w.SafeLaneRetrievalCap, o.SafeLaneRetrievalCap)
	setI(&w.IntentRetrievalCap, o.IntentRetrievalCap)
	if o.UnionRetrieval != nil {
		w.UnionRetrieval = *o.UnionRetrieval
	}
	setF(&w.RetrievalNegativePenalty, o.RetrievalNegativePenalty)

	setF(&w.Rescoring.HighSignal1, o.HighSignal1)
	setF(&w.Rescoring.HighSignal2, o.HighSignal2)
	setF(&w.Rescoring.Pathway1, o.Pathway1)
	setF(&w.Rescoring.Pathway2, o.Pathway2)
	setF(&w.Rescoring.Pathway3, o.Pathway3)
	setF(&w.Rescoring.ProcedurePerMatch, o.ProcedurePerMatch)
	setF(&w.Rescoring.AnchorPerMatch, o.AnchorPerMatch)
	setF(&w.Rescoring.AnchorCap, o.AnchorCap)
	setF(&w.Rescoring.SafeLane1, o.SafeLane1)
	setF(&w.Rescoring.SafeLane2, o.SafeLane2)
	setF(&w.Rescoring.SafeLane3OrMore, o.SafeLane3OrMore)
	setF(&w.Rescoring.SubspecialtyFactor, o.SubspecialtyFactor)
	setF(&w.Rescoring.SubspecialtyCap, o.SubspecialtyCap)
	setF(&w.Rescoring.Negative1, o.Negative1)
	setF(&w.Rescoring.Negative2, o.Negative2)
	setF(&w.Rescoring.Negative4, o.Negative4)
	setF(&w.Rescoring.NegativeFactor1, o.NegativeFactor1)
	setF(&w.Rescoring.NegativeFactor2, o.NegativeFactor2)
	setF(&w.Rescoring.NegativeFactor4, o.NegativeFactor4)

	if fw := o.FieldWeights; fw != nil {
		setF(&w.FieldWeights.ExpertiseProcedures, fw.ExpertiseProcedures)
		setF(&w.FieldWeights.ExpertiseConditions, fw.ExpertiseConditions)
		setF(&w.FieldWeights.ExpertiseInterests, fw.ExpertiseInterests)
		setF(&w.FieldWeights.ProcedureGroups, fw.ProcedureGroups)
		setF(&w.FieldWeights.Specialty, fw.Specialty)
		setF(&w.FieldWeights.Subspecialties, fw.Subspecialties)
		setF(&w.FieldWeights.Description, fw.Description)
		setF(&w.FieldWeights.About, fw.About)
		setF(&w.FieldWeights.Name, fw.Name)
		setF(&w.FieldWeights.Memberships, fw.Memberships)
		setF(&w.FieldWeights.AddressLocality, fw.AddressLocality)
		setF(&w.FieldWeights.Title, fw.Title)
	}

	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

func unmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
