package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the stored domain types. Kept in field
// order; any schema change is a breaking change for existing databases.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

// CandidateMUS serializes Candidates.
var CandidateMUS = candidateMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type candidateMUS struct{}

func (s candidateMUS) Marshal(c Candidate, bs []byte) int {
	n := IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.Name, bs[n:])
	n += ord.String.Marshal(c.Title, bs[n:])
	n += ord.String.Marshal(c.Specialty, bs[n:])
	n += marshalStrings(c.Subspecialties, bs[n:])
	n += ord.String.Marshal(c.ClinicalExpertise, bs[n:])
	n += marshalStrings(c.ProcedureGroups, bs[n:])
	n += ord.String.Marshal(c.Description, bs[n:])
	n += ord.String.Marshal(c.About, bs[n:])
	n += marshalStrings(c.Memberships, bs[n:])
	n += marshalStrings(c.Languages, bs[n:])
	n += ord.String.Marshal(c.AddressLocality, bs[n:])
	n += ord.String.Marshal(c.Gender, bs[n:])
	n += marshalStrings(c.AgeGroups, bs[n:])
	n += raw.Float64.Marshal(c.Rating, bs[n:])
	n += varint.Int.Marshal(c.ReviewCount, bs[n:])
	n += varint.Int.Marshal(c.YearsExperience, bs[n:])
	n += ord.Bool.Marshal(c.Verified, bs[n:])
	n += ord.Bool.Marshal(c.Checklist != nil, bs[n:])
	if c.Checklist != nil {
		n += marshalStrings(c.Checklist.Procedures, bs[n:])
		n += marshalStrings(c.Checklist.Conditions, bs[n:])
		n += marshalStrings(c.Checklist.Interests, bs[n:])
	}
	return n
}

func (s candidateMUS) Unmarshal(bs []byte) (c Candidate, n int, err error) {
	var m int
	if c.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.Name, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Specialty, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Subspecialties, m, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += m
	if c.ClinicalExpertise, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.ProcedureGroups, m, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Description, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.About, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Memberships, m, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Languages, m, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += m
	if c.AddressLocality, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Gender, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.AgeGroups, m, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Rating, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.ReviewCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.YearsExperience, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Verified, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	var hasChecklist bool
	if hasChecklist, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if hasChecklist {
		checklist := &ChecklistProfile{}
		if checklist.Procedures, m, err = unmarshalStrings(bs[n:]); err != nil {
			return
		}
		n += m
		if checklist.Conditions, m, err = unmarshalStrings(bs[n:]); err != nil {
			return
		}
		n += m
		if checklist.Interests, m, err = unmarshalStrings(bs[n:]); err != nil {
			return
		}
		n += m
		c.Checklist = checklist
	}
	return
}

func (s candidateMUS) Size(c Candidate) int {
	n := IDMUS.Size(c.Id)
	n += ord.String.Size(c.Name)
	n += ord.String.Size(c.Title)
	n += ord.String.Size(c.Specialty)
	n += sizeStrings(c.Subspecialties)
	n += ord.String.Size(c.ClinicalExpertise)
	n += sizeStrings(c.ProcedureGroups)
	n += ord.String.Size(c.Description)
	n += ord.String.Size(c.About)
	n += sizeStrings(c.Memberships)
	n += sizeStrings(c.Languages)
	n += ord.String.Size(c.AddressLocality)
	n += ord.String.Size(c.Gender)
	n += sizeStrings(c.AgeGroups)
	n += raw.Float64.Size(c.Rating)
	n += varint.Int.Size(c.ReviewCount)
	n += varint.Int.Size(c.YearsExperience)
	n += ord.Bool.Size(c.Verified)
	n += ord.Bool.Size(c.Checklist != nil)
	if c.Checklist != nil {
		n += sizeStrings(c.Checklist.Procedures)
		n += sizeStrings(c.Checklist.Conditions)
		n += sizeStrings(c.Checklist.Interests)
	}
	return n
}

func marshalStrings(values []string, bs []byte) int {
	n := varint.Int.Marshal(len(values), bs)
	for _, v := range values {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) ([]string, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count == 0 {
		return nil, n, nil
	}
	// Each string costs at least one byte, so a count exceeding the
	// remaining input (or a negative one) can only come from corrupt data.
	if count < 0 || count > len(bs)-n {
		return nil, n, ErrMalformedRecord
	}
	values := make([]string, 0, count)
	for i := 0; i < count; i++ {
		v, m, err := ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		values = append(values, v)
	}
	return values, n, nil
}

func sizeStrings(values []string) int {
	n := varint.Int.Size(len(values))
	for _, v := range values {
		n += ord.String.Size(v)
	}
	return n
}
