package strategy

import (
	"regexp"
	"strings"

	"pandey.app/outreach/internal/model"
)

type field struct {
	key         string
	placeholder string
	value       func(*model.Strategy) *string

	// header matches a label followed by a colon; label also accepts a bare label.
	header *regexp.Regexp
	label  *regexp.Regexp
}

// fields is ordered: a labeled section ends where a later field's header starts.
var fields = []field{
	newField("prospectSummary", "Unable to generate summary.",
		func(s *model.Strategy) *string { return &s.ProspectSummary },
		"Prospect Summary", "Summary"),
	newField("painPointHypothesis", "Unable to generate hypothesis.",
		func(s *model.Strategy) *string { return &s.PainPointHypothesis },
		"Pain Point Hypothesis", "Pain Points", "Hypothesis"),
	newField("positioningStrategy", "Unable to generate strategy.",
		func(s *model.Strategy) *string { return &s.PositioningStrategy },
		"Positioning Strategy", "Positioning", "Strategy"),
	newField("toneSuggestions", "Unable to generate tone suggestions.",
		func(s *model.Strategy) *string { return &s.ToneSuggestions },
		"Communication Tone Suggestions", "Tone Suggestions", "Tone", "Communication"),
	newField("firstMessageStructure", "Unable to generate message structure.",
		func(s *model.Strategy) *string { return &s.FirstMessageStructure },
		"First Message Structure", "Message Structure", "First Message", "Structure"),
}

// Longer synonyms come first so that at a given position the full label wins.
func newField(key, placeholder string, value func(*model.Strategy) *string, labels ...string) field {
	alts := make([]string, len(labels))
	for i, l := range labels {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(l), " ", `[ \t]+`)
	}
	names := `(?i)\b(?:` + strings.Join(alts, "|") + `)\b[*_]*[ \t]*`

	return field{
		key:         key,
		placeholder: placeholder,
		value:       value,
		header:      regexp.MustCompile(names + `:[*_]*`),
		label:       regexp.MustCompile(names + `:?[*_]*`),
	}
}

// Placeholder returns the text used for key when it cannot be recovered.
func Placeholder(key string) string {
	for _, f := range fields {
		if f.key == key {
			return f.placeholder
		}
	}
	return ""
}

// listPrefix matches what is left of a line that only held the markup in
// front of the next header, e.g. "## ", "**" or "2. ".
var listPrefix = regexp.MustCompile(`^[ \t]*(?:#+|[-*•]|\d+[.)])?[ \t*_]*$`)

// scrapeSections pulls each field's text out of free-form prose. A section
// starts after one of the field's labels and runs until the header of any
// later field, or the end of text.
func scrapeSections(text string) model.Strategy {
	var s model.Strategy
	for i, f := range fields {
		start, ok := sectionStart(text, f)
		if !ok {
			continue
		}

		end := len(text)
		cut := false
		for _, next := range fields[i+1:] {
			if loc := next.header.FindStringIndex(text[start:]); loc != nil && start+loc[0] < end {
				end = start + loc[0]
				cut = true
			}
		}

		section := text[start:end]
		if cut {
			section = dropTrailingPrefix(section)
		}
		*f.value(&s) = strings.TrimSpace(section)
	}
	return s
}

// sectionStart prefers a "Label:" header and falls back to the bare label.
func sectionStart(text string, f field) (int, bool) {
	if loc := f.header.FindStringIndex(text); loc != nil {
		return loc[1], true
	}
	if loc := f.label.FindStringIndex(text); loc != nil {
		return loc[1], true
	}
	return 0, false
}

func dropTrailingPrefix(section string) string {
	i := strings.LastIndexByte(section, '\n')
	if i < 0 {
		if listPrefix.MatchString(section) {
			return ""
		}
		return section
	}
	if listPrefix.MatchString(section[i+1:]) {
		return section[:i]
	}
	return section
}
