package retrieval

// aliasEntry is one bidirectional equivalence in the query alias table.
// The table is a deliberately small, auditable allow-list: abbreviations and
// spelling variants only, never anything that shifts clinical meaning.
type aliasEntry struct {
	term      string
	expansion string

	// requires gates the short form: the alias fires only if one of these
	// companion words is also present in the query. Prevents ambiguous short
	// tokens from over-expanding. Gating applies to the term side only; the
	// long form is unambiguous.
	requires []string

	// priority is the secondary tier used to break specificity ties.
	// Lower fires first.
	priority int
}

var aliasTable = []aliasEntry{
	{term: "svt", expansion: "supraventricular tachycardia", priority: 1},
	{term: "afib", expansion: "atrial fibrillation", priority: 1},
	{term: "af", expansion: "atrial fibrillation", requires: []string{"heart", "atrial", "rhythm", "palpitations", "cardiology"}, priority: 2},
	{term: "ms", expansion: "multiple sclerosis", requires: []string{"neurology", "neurologist", "numbness", "sclerosis"}, priority: 2},
	{term: "hrt", expansion: "hormone replacement therapy", requires: []string{"menopause", "menopausal", "hormone"}, priority: 2},
	{term: "uti", expansion: "urinary tract infection", priority: 1},
	{term: "ibs", expansion: "irritable bowel syndrome", priority: 1},
	{term: "ocd", expansion: "obsessive compulsive disorder", priority: 1},
	{term: "adhd", expansion: "attention deficit hyperactivity disorder", priority: 1},
	{term: "pcos", expansion: "polycystic ovary syndrome", priority: 1},
	{term: "copd", expansion: "chronic obstructive pulmonary disease", priority: 1},
	{term: "gord", expansion: "gastro oesophageal reflux disease", priority: 1},
	{term: "gerd", expansion: "gastroesophageal reflux disease", priority: 1},
	{term: "ent", expansion: "ear nose and throat", priority: 1},

	// Spelling variants.
	{term: "ischaemic", expansion: "ischemic", priority: 3},
	{term: "paediatric", expansion: "pediatric", priority: 3},
	{term: "coeliac", expansion: "celiac", priority: 3},
	{term: "tumour", expansion: "tumor", priority: 3},
	{term: "anaemia", expansion: "anemia", priority: 3},
	{term: "oesophageal", expansion: "esophageal", priority: 3},
}
