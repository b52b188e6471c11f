package dto

import (
	"time"

	"pandey.app/outreach/internal/model"
	"pandey.app/outreach/internal/strategy"
)

type ProspectRequest struct {
	Name              string   `json:"name" binding:"required,min=2,max=200"`
	Title             string   `json:"title" binding:"max=200"`
	Company           string   `json:"company" binding:"required,max=200"`
	Industry          string   `json:"industry" binding:"max=100"`
	Notes             string   `json:"notes" binding:"max=10000"`
	KnownPainPoints   string   `json:"knownPainPoints" binding:"max=5000"`
	PriorInteractions string   `json:"priorInteractions" binding:"max=5000"`
	Links             []string `json:"links" binding:"max=20,dive,max=2048"`
}

func (r ProspectRequest) ToModel() model.Prospect {
	return model.Prospect{
		Name:              r.Name,
		Title:             r.Title,
		Company:           r.Company,
		Industry:          r.Industry,
		Notes:             r.Notes,
		KnownPainPoints:   r.KnownPainPoints,
		PriorInteractions: r.PriorInteractions,
		Links:             r.Links,
	}
}

type UpdateProspectRequest struct {
	ProspectRequest
	Status     string     `json:"status" binding:"omitempty,oneof=new contacted follow-up closed"`
	FollowUpAt *time.Time `json:"followUpAt"`
}

// SyncProspect is one entry of a client's full prospect list.
type SyncProspect struct {
	ProspectRequest
	ID                  int64           `json:"id,string,omitempty"`
	Status              string          `json:"status" binding:"omitempty,oneof=new contacted follow-up closed"`
	Strategy            *model.Strategy `json:"strategy,omitempty"`
	StrategyGeneratedAt *time.Time      `json:"strategyGeneratedAt,omitempty"`
	FollowUpAt          *time.Time      `json:"followUpAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

type SyncProspectsRequest struct {
	Prospects []SyncProspect `json:"prospects" binding:"required,max=1000,dive"`
}

func (r SyncProspectsRequest) ToModel() []model.SavedProspect {
	out := make([]model.SavedProspect, len(r.Prospects))
	for i, p := range r.Prospects {
		out[i] = model.SavedProspect{
			Prospect:            p.ToModel(),
			ID:                  p.ID,
			Status:              model.ProspectStatus(p.Status),
			Strategy:            p.Strategy,
			StrategyGeneratedAt: p.StrategyGeneratedAt,
			FollowUpAt:          p.FollowUpAt,
			CreatedAt:           p.CreatedAt,
			UpdatedAt:           p.UpdatedAt,
		}
	}
	return out
}

type ProspectResponse struct {
	ID                  int64           `json:"id,string"`
	Name                string          `json:"name"`
	Title               string          `json:"title"`
	Company             string          `json:"company"`
	Industry            string          `json:"industry"`
	Notes               string          `json:"notes"`
	KnownPainPoints     string          `json:"knownPainPoints"`
	PriorInteractions   string          `json:"priorInteractions"`
	Links               []string        `json:"links"`
	Status              string          `json:"status"`
	Strategy            *model.Strategy `json:"strategy,omitempty"`
	StrategyGeneratedAt *time.Time      `json:"strategyGeneratedAt,omitempty"`
	FollowUpAt          *time.Time      `json:"followUpAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func ToProspectResponse(p *model.SavedProspect) *ProspectResponse {
	links := p.Links
	if links == nil {
		links = []string{}
	}
	return &ProspectResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Title:               p.Title,
		Company:             p.Company,
		Industry:            p.Industry,
		Notes:               p.Notes,
		KnownPainPoints:     p.KnownPainPoints,
		PriorInteractions:   p.PriorInteractions,
		Links:               links,
		Status:              string(p.Status),
		Strategy:            p.Strategy,
		StrategyGeneratedAt: p.StrategyGeneratedAt,
		FollowUpAt:          p.FollowUpAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func ToProspectResponses(prospects []model.SavedProspect) []*ProspectResponse {
	out := make([]*ProspectResponse, len(prospects))
	for i := range prospects {
		out[i] = ToProspectResponse(&prospects[i])
	}
	return out
}

type ProspectListResponse struct {
	Prospects []*ProspectResponse `json:"prospects"`
}

// StrategyResponse carries a strategy and how much of it came from the
// model. Degraded means at least one section is placeholder text.
type StrategyResponse struct {
	Strategy        model.Strategy `json:"strategy"`
	Source          string         `json:"source"`
	Degraded        bool           `json:"degraded"`
	RecoveredFields int            `json:"recoveredFields"`
}

func ToStrategyResponse(r strategy.Result) *StrategyResponse {
	return &StrategyResponse{
		Strategy:        r.Strategy,
		Source:          string(r.Source),
		Degraded:        r.Degraded(),
		RecoveredFields: r.Recovered,
	}
}

type ProspectStrategyResponse struct {
	Prospect *ProspectResponse `json:"prospect"`
	*StrategyResponse
}
