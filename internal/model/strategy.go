package model

// Strategy is the five-part outreach plan generated for a prospect.
// JSON field names are the contract the generation prompt asks for.
type Strategy struct {
	ProspectSummary       string `json:"prospectSummary"`
	PainPointHypothesis   string `json:"painPointHypothesis"`
	PositioningStrategy   string `json:"positioningStrategy"`
	ToneSuggestions       string `json:"toneSuggestions"`
	FirstMessageStructure string `json:"firstMessageStructure"`
}
