package model

import "time"

// Prospect is the descriptive record of a sales lead as entered by a user.
type Prospect struct {
	Name              string   `json:"name"`
	Title             string   `json:"title"`
	Company           string   `json:"company"`
	Industry          string   `json:"industry"`
	Notes             string   `json:"notes"`
	KnownPainPoints   string   `json:"knownPainPoints"`
	PriorInteractions string   `json:"priorInteractions"`
	Links             []string `json:"links"`
}

type ProspectStatus string

const (
	ProspectStatusNew       ProspectStatus = "new"
	ProspectStatusContacted ProspectStatus = "contacted"
	ProspectStatusFollowUp  ProspectStatus = "follow-up"
	ProspectStatusClosed    ProspectStatus = "closed"
)

func (s ProspectStatus) Valid() bool {
	switch s {
	case ProspectStatusNew, ProspectStatusContacted, ProspectStatusFollowUp, ProspectStatusClosed:
		return true
	}
	return false
}

// SavedProspect is a prospect owned by a user, optionally carrying the last
// generated strategy.
type SavedProspect struct {
	Prospect

	ID                  int64          `json:"id,string"`
	UserID              string         `json:"userId"`
	Status              ProspectStatus `json:"status"`
	Strategy            *Strategy      `json:"strategy,omitempty"`
	StrategyGeneratedAt *time.Time     `json:"strategyGeneratedAt,omitempty"`
	FollowUpAt          *time.Time     `json:"followUpAt,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}
