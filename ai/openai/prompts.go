package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/clinrank/ai"
)

const judgeResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "judgments": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "candidate": {
            "type": "integer",
            "minimum": 1
          },
          "fit": {
            "type": "string",
            "enum": ["excellent", "good", "ill-fit"]
          }
        },
        "required": ["candidate", "fit"],
        "additionalProperties": false
      }
    }
  },
  "required": ["judgments"],
  "additionalProperties": false
}`

const judgePromptTemplate = `You review clinician profiles for a patient search service. Given a patient
query and a numbered list of clinician profiles, classify how well each
clinician fits the query.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "candidate" is the number of the profile in the list, starting at 1.
- "fit" is exactly one of: excellent, good, ill-fit.
- "excellent" means the clinician's stated expertise directly covers the patient's need.
- "good" means the clinician plausibly covers the need but without direct evidence.
- "ill-fit" means the clinician works in the wrong clinical lane for this query.
- Classify every profile in the list. Do not invent profiles.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Query: "SVT ablation"
Profiles:
1. Dr A (Cardiology): electrophysiology and SVT ablation
2. Dr B (Cardiology): coronary angiography and stenting
Output:
{
  "judgments": [
    {"candidate":1,"fit":"excellent"},
    {"candidate":2,"fit":"ill-fit"}
  ]
}`

const intentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "patient_query": {"type": "string"},
    "safe_lane_terms": {"type": "array", "items": {"type": "string"}},
    "intent_terms": {"type": "array", "items": {"type": "string"}},
    "anchor_phrases": {"type": "array", "items": {"type": "string"}},
    "negative_terms": {"type": "array", "items": {"type": "string"}},
    "likely_subspecialties": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1}
        },
        "required": ["name", "confidence"],
        "additionalProperties": false
      }
    },
    "ambiguous": {"type": "boolean"}
  },
  "required": ["patient_query", "safe_lane_terms", "intent_terms", "anchor_phrases", "negative_terms", "likely_subspecialties", "ambiguous"],
  "additionalProperties": false
}`

const intentPromptTemplate = `You turn raw patient search queries into structured retrieval signals for a
clinician search service.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "patient_query" is the cleaned query suitable for text retrieval; keep the patient's own clinical wording.
- "safe_lane_terms" are high-confidence symptom or condition terms, most confident first.
- "intent_terms" are condition, procedure, or care-pathway terms useful for boosting results.
- "anchor_phrases" are condition or procedure names stated verbatim in the query. Never invent one.
- "negative_terms" are terms that indicate the wrong clinical lane for this query, if any.
- "likely_subspecialties" name clinical subspecialties with confidence between 0 and 1.
- "ambiguous" is true when the query admits more than one clinical reading.
- Use empty arrays when a category has no entries. Do not hallucinate terms.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "need SVT ablation, not a general heart checkup"
Output:
{
  "patient_query": "SVT ablation",
  "safe_lane_terms": ["palpitations"],
  "intent_terms": ["supraventricular tachycardia", "catheter ablation", "electrophysiology"],
  "anchor_phrases": ["SVT ablation"],
  "negative_terms": ["general checkup"],
  "likely_subspecialties": [{"name":"electrophysiology","confidence":0.9}],
  "ambiguous": false
}`

// buildJudgePrompt creates the system prompt for fit classification.
func buildJudgePrompt() string {
	return fmt.Sprintf(judgePromptTemplate, judgeResponseSchema)
}

// buildIntentPrompt creates the system prompt for intent extraction.
func buildIntentPrompt() string {
	return fmt.Sprintf(intentPromptTemplate, intentResponseSchema)
}

// buildJudgeInput renders the query and the numbered profile list into
// the user message.
func buildJudgeInput(query string, profiles []ai.ProfileSummary) string {
	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\nProfiles:\n")
	for i, p := range profiles {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, p.Name, p.Specialty, p.Summary)
	}
	return b.String()
}
