package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clinrank/core"
)

func TestParseExpertise(t *testing.T) {
	t.Run("structured blob", func(t *testing.T) {
		blob := "Procedures: catheter ablation, pacemaker implantation; Conditions: atrial fibrillation; Special interests: sports cardiology"
		parts, ok := ParseExpertise(blob)
		require.True(t, ok)
		assert.Equal(t, []string{"catheter ablation", "pacemaker implantation"}, parts.Procedures)
		assert.Equal(t, []string{"atrial fibrillation"}, parts.Conditions)
		assert.Equal(t, []string{"sports cardiology"}, parts.Interests)
	})

	t.Run("labels are case-insensitive", func(t *testing.T) {
		parts, ok := ParseExpertise("PROCEDURES: angioplasty; interests: prevention")
		require.True(t, ok)
		assert.Equal(t, []string{"angioplasty"}, parts.Procedures)
		assert.Equal(t, []string{"prevention"}, parts.Interests)
	})

	t.Run("unstructured blob reports not ok", func(t *testing.T) {
		_, ok := ParseExpertise("general cardiology with a focus on arrhythmia")
		assert.False(t, ok)
	})

	t.Run("unknown labels ignored", func(t *testing.T) {
		parts, ok := ParseExpertise("Hobbies: golf; Conditions: angina")
		require.True(t, ok)
		assert.Empty(t, parts.Procedures)
		assert.Equal(t, []string{"angina"}, parts.Conditions)
	})

	t.Run("empty blob", func(t *testing.T) {
		_, ok := ParseExpertise("")
		assert.False(t, ok)
	})
}

func TestProjector_Project(t *testing.T) {
	t.Run("high weight fields repeat more often", func(t *testing.T) {
		p := NewProjector(DefaultFieldWeights())
		doc := p.Project(&core.Candidate{
			Name:            "Dr A",
			Specialty:       "Cardiology",
			ProcedureGroups: []string{"catheter ablation"},
		})

		// Specialty weight 2.4 rounds to 2, procedure groups 2.8 to 3,
		// name 0.6 to a minimum of 1.
		assert.Equal(t, 2, strings.Count(doc.Text, "Cardiology"))
		assert.Equal(t, 3, strings.Count(doc.Text, "catheter ablation"))
		assert.Equal(t, 1, strings.Count(doc.Text, "Dr A"))
	})

	t.Run("sub-minimum weights still include the field once", func(t *testing.T) {
		w := DefaultFieldWeights()
		w.Specialty = 0.1
		p := NewProjector(w)
		doc := p.Project(&core.Candidate{Name: "Dr A", Specialty: "Dermatology"})
		assert.Equal(t, 1, strings.Count(doc.Text, "Dermatology"))
	})

	t.Run("unstructured expertise included verbatim", func(t *testing.T) {
		p := NewProjector(DefaultFieldWeights())
		doc := p.Project(&core.Candidate{
			Name:              "Dr B",
			ClinicalExpertise: "broad interest in arrhythmia care",
		})
		assert.Contains(t, doc.Text, "broad interest in arrhythmia care")
	})

	t.Run("structured expertise split by sub-weight", func(t *testing.T) {
		w := FieldWeights{
			ExpertiseProcedures: 3,
			ExpertiseConditions: 1,
			ExpertiseInterests:  1,
			Name:                1,
		}
		p := NewProjector(w)
		doc := p.Project(&core.Candidate{
			Name:              "Dr C",
			ClinicalExpertise: "Procedures: ablation; Conditions: tachycardia",
		})
		assert.Equal(t, 3, strings.Count(doc.Text, "ablation"))
		assert.Equal(t, 1, strings.Count(doc.Text, "tachycardia"))
	})

	t.Run("empty fields contribute nothing", func(t *testing.T) {
		p := NewProjector(DefaultFieldWeights())
		doc := p.Project(&core.Candidate{Name: "Dr D"})
		assert.Equal(t, "Dr D", doc.Text)
	})

	t.Run("candidate is not mutated", func(t *testing.T) {
		p := NewProjector(DefaultFieldWeights())
		c := &core.Candidate{Name: "Dr E", Specialty: "Neurology"}
		before := *c
		p.Project(c)
		assert.Equal(t, before, *c)
	})
}

func TestProjector_ProjectAll(t *testing.T) {
	p := NewProjector(DefaultFieldWeights())
	pool := []*core.Candidate{
		{Name: "Dr A"},
		{Name: "Dr B"},
		{Name: "Dr C"},
	}
	docs := p.ProjectAll(pool)
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Same(t, pool[i], doc.Candidate)
	}
}
