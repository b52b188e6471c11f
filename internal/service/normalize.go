package service

import (
	"fmt"
	"strings"

	"pandey.app/outreach/internal/model"
)

// NormalizeProspect trims every attribute and drops blank links.
func NormalizeProspect(p model.Prospect) model.Prospect {
	links := make([]string, 0, len(p.Links))
	for _, l := range p.Links {
		if l = strings.TrimSpace(l); l != "" {
			links = append(links, l)
		}
	}

	return model.Prospect{
		Name:              strings.TrimSpace(p.Name),
		Title:             strings.TrimSpace(p.Title),
		Company:           strings.TrimSpace(p.Company),
		Industry:          strings.TrimSpace(p.Industry),
		Notes:             strings.TrimSpace(p.Notes),
		KnownPainPoints:   strings.TrimSpace(p.KnownPainPoints),
		PriorInteractions: strings.TrimSpace(p.PriorInteractions),
		Links:             links,
	}
}

// validateProspect requires the attributes a strategy cannot be built without.
func validateProspect(p model.Prospect) error {
	if p.Name == "" || p.Company == "" {
		return fmt.Errorf("%w: name and company are required", ErrInvalidProspect)
	}
	return nil
}
