package extractor

import (
	"strings"
	"time"

	"github.com/lifeatlas/lifeatlas/pkg/domain"
)

// SystemPrompt is the shared system prompt for all providers.
const SystemPrompt = `You are an entity extraction assistant for a personal life-management platform. You turn one free-form utterance into zero or more structured records, each assigned to exactly one domain.

Respond with ONLY valid JSON matching the requested envelope. No explanations, no markdown.

Rules:
1. Extract every distinct piece of life data in the utterance; one real-world event may yield records in more than one domain (a vet visit with a cost is both a pets record and a financial record)
2. confidence is an integer 0-100; report your actual certainty, never invent data to raise it
3. rawText must be the verbatim substring of the input that the entity came from
4. Numeric amounts go in data as decimal strings (for example "45", "12.50"), never as numbers
5. When no date or time is stated, leave it out; the current date/time applies
6. Never fabricate field values that the utterance does not support`

// BuildPrompt composes the extraction instruction for one utterance.
// It is a pure function: the same input, context, and clock reading
// always produce byte-identical prompt text.
func BuildPrompt(input string, uc *domain.UserContext, now time.Time) string {
	var prompt strings.Builder

	prompt.WriteString("Extract structured entities from the utterance below.\n")
	prompt.WriteString("\n## Current date and time\n")
	prompt.WriteString(now.Format(time.RFC3339))
	prompt.WriteString("\nEntities with no stated date or time default to this moment.\n")

	prompt.WriteString("\n## Domains\n")
	prompt.WriteString("Each entity's \"domain\" must be exactly one of:\n")
	for _, info := range domainCatalog(uc) {
		prompt.WriteString("- ")
		prompt.WriteString(string(info.Domain))
		prompt.WriteString(": ")
		prompt.WriteString(info.Description)
		prompt.WriteString(" (data fields: ")
		prompt.WriteString(strings.Join(info.FieldHints, ", "))
		prompt.WriteString(")\n")
	}

	prompt.WriteString("\n## Disambiguation rules\n")
	prompt.WriteString("- An interview, meeting, or appointment with a person is calendar, never relationships\n")
	prompt.WriteString("- \"retrieve\", \"pull up\", \"show me\", \"what did I\" and similar requests are retrieval; do not extract data from them, capture the query\n")
	prompt.WriteString("- Physical activity (running, lifting, swimming) is fitness; food and drink is nutrition\n")
	prompt.WriteString("- Body measurements for a person (weight, blood pressure) are health; for an animal they are pets\n")
	prompt.WriteString("- Spending money is always also a financial entity, in addition to any domain-specific entity\n")

	if uc != nil {
		writeUserContext(&prompt, uc)
	}

	prompt.WriteString("\n## Output contract\n")
	prompt.WriteString(`Return exactly this JSON envelope:
{
  "entities": [
    {
      "domain": "<domain>",
      "confidence": <0-100>,
      "title": "<short title>",
      "rawText": "<verbatim substring of the input>",
      "description": "<optional longer description>",
      "data": { "<field>": "<value>" }
    }
  ],
  "requiresConfirmation": <true when the utterance is ambiguous>,
  "ambiguities": ["<optional notes on ambiguous readings>"]
}
The "entities" array is mandatory even when empty.
`)

	prompt.WriteString("\n## Utterance\n")
	prompt.WriteString(input)
	prompt.WriteString("\n")

	return prompt.String()
}

// domainCatalog returns the catalog, narrowed to the user's allowlist
// when one is set. Retrieval always stays available so queries are
// still recognized.
func domainCatalog(uc *domain.UserContext) []domain.Info {
	if uc == nil || len(uc.Domains) == 0 {
		return domain.Catalog()
	}

	allowed := make(map[domain.Domain]bool, len(uc.Domains)+1)
	for _, d := range uc.Domains {
		allowed[d] = true
	}
	allowed[domain.Retrieval] = true

	var out []domain.Info
	for _, info := range domain.Catalog() {
		if allowed[info.Domain] {
			out = append(out, info)
		}
	}
	return out
}

func writeUserContext(prompt *strings.Builder, uc *domain.UserContext) {
	prefs := uc.Preferences
	hasPrefs := prefs.DefaultPetName != "" || prefs.DefaultVehicle != "" || prefs.DefaultHome != ""

	if !hasPrefs && len(uc.RecentEntries) == 0 {
		return
	}

	prompt.WriteString("\n## User context\n")
	prompt.WriteString("Use these defaults to resolve pronouns and omissions:\n")
	if prefs.DefaultPetName != "" {
		prompt.WriteString("- The user's pet is named " + prefs.DefaultPetName + "\n")
	}
	if prefs.DefaultVehicle != "" {
		prompt.WriteString("- The user's vehicle is " + prefs.DefaultVehicle + "\n")
	}
	if prefs.DefaultHome != "" {
		prompt.WriteString("- The user's home is " + prefs.DefaultHome + "\n")
	}
	for _, entry := range uc.RecentEntries {
		prompt.WriteString("- Recent entry: " + entry + "\n")
	}
}
