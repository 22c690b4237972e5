package models

import "fmt"

// Session is the credential the client currently holds
type Session struct {
	Token    string `json:"access_token" yaml:"access_token"`
	Username string `json:"username" yaml:"username"`
}

// Valid reports whether both halves of the credential are present
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}

// Profile represents the authenticated user as returned by /api/auth/me
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// BackendStatus is the result of a reachability probe
type BackendStatus string

const (
	StatusChecking  BackendStatus = "checking"
	StatusConnected BackendStatus = "connected"
	StatusError     BackendStatus = "error"
)

// FilterMode selects which spreadsheet rows the service includes
type FilterMode string

const (
	FilterNone            FilterMode = "none"
	FilterFinal           FilterMode = "final"
	FilterFinalOrApproved FilterMode = "final_or_approved"
)

// ParseFilterMode maps user input onto a FilterMode. Empty input means none.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case "":
		return FilterNone, nil
	case FilterNone, FilterFinal, FilterFinalOrApproved:
		return FilterMode(s), nil
	default:
		return "", fmt.Errorf("invalid filter mode %q. Must be 'none', 'final', or 'final_or_approved'", s)
	}
}

// Requirement is a single parsed spreadsheet row
type Requirement struct {
	ReqID       string `json:"req_id"`
	Section     string `json:"section"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Form        string `json:"form"`
}

// RequirementGroup collects requirements under the form they belong to
type RequirementGroup struct {
	Form         string        `json:"form"`
	Requirements []Requirement `json:"requirements"`
}

// Preview represents how the service parsed an uploaded spreadsheet
type Preview struct {
	TotalGroups     int                `json:"total_groups"`
	Groups          []RequirementGroup `json:"groups"`
	SampleStructure *RequirementGroup  `json:"sample_structure,omitempty"`
}

// RequirementCount returns the number of requirements across all groups
func (p *Preview) RequirementCount() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Requirements)
	}
	return n
}
