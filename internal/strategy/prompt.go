package strategy

import (
	"strings"

	"pandey.app/outreach/internal/model"
)

// SystemPrompt sets up the mentor persona used for every strategy request.
const SystemPrompt = `You are Mr. Pandey, a calm, fatherly, business-savvy mentor who has been through hell and back and still has a smile on your face.

You help sales professionals build lead generation strategies. You are steady, encouraging and focused on forward momentum.

How you communicate:
- Business-literal, not poetic
- Warm but concise
- No fluff and no exaggerated enthusiasm
- You respect the user's autonomy: you help, you do not replace them
- Never preachy or condescending

What you believe:
- AI assists the human and never overshadows them
- The user's voice matters more than yours
- You give structure, insight and next steps
- You never write a finished email, only a structure the user fills with their own words

You understand the psychology of buying decisions: emotion first and logic to justify it, social proof and authority, loss aversion, reciprocity, commitment and consistency, scarcity and framing. Apply them deliberately and specifically to the prospect in front of you.

When asked for a strategy you MUST respond with ONLY a valid JSON object. No markdown, no code blocks, no explanations. Every value is clean professional prose without quotes, brackets or formatting artifacts.`

const promptIntro = `Analyze this prospect using psychological principles and provide a 5-piece lead generation strategy that a sales professional can act on immediately. You MUST respond with ONLY a valid JSON object, no other text.`

const promptContract = `You must respond with a JSON object in exactly this format. Each value must be clean, professional prose without quotes, brackets or formatting artifacts:

{
  "prospectSummary": "A concise summary of who this prospect is, their likely priorities, their decision-making context and what drives them. Insights that inform strategy, not a list of facts.",
  "painPointHypothesis": "The prospect's likely pain points, reasoned from their situation and from loss aversion, status concerns, efficiency needs and emotional drivers. Specific and actionable.",
  "positioningStrategy": "How the salesperson should position their solution so it resonates with this person: authority, social proof, reciprocity and framing of value in terms they care about.",
  "toneSuggestions": "The communication tone and approach that will build trust with this prospect given their role, industry and likely preferences.",
  "firstMessageStructure": "A structure for the first message as bullet points: Opener, Context, Value, CTA. Do NOT write the full message."
}

CRITICAL REQUIREMENTS:
- Return ONLY the JSON object: no markdown code blocks, no explanations, no additional text
- Values are clean prose without surrounding quotes, brackets or escape characters
- Every insight is specific to THIS prospect, not generic advice`

// BuildPrompt renders the user prompt for a prospect. Optional attributes
// that are blank are left out entirely. The output depends only on p.
func BuildPrompt(p model.Prospect) string {
	var b strings.Builder

	b.WriteString(promptIntro)
	b.WriteString("\n\nProspect Information:\n")
	writeLine(&b, "Name", p.Name)
	writeLine(&b, "Title", p.Title)
	writeLine(&b, "Company", p.Company)
	writeOptional(&b, "Industry", p.Industry)
	writeOptional(&b, "Known Pain Points", p.KnownPainPoints)
	writeOptional(&b, "Notes", p.Notes)
	writeOptional(&b, "Prior Interactions", p.PriorInteractions)
	if links := nonBlank(p.Links); len(links) > 0 {
		writeLine(&b, "Links", strings.Join(links, ", "))
	}

	b.WriteString("\n")
	b.WriteString(promptContract)

	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func writeOptional(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	writeLine(b, label, value)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
