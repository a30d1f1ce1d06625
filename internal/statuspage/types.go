package statuspage

import "time"

// Page identifies the status page a response belongs to.
type Page struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	UpdatedAt string `json:"updated_at"`
}

// StatusResponse is the shape of /api/v2/status.json.
type StatusResponse struct {
	Page   Page   `json:"page"`
	Status Status `json:"status"`
}

// Status carries the page-wide indicator and description.
type Status struct {
	Indicator   string `json:"indicator"`
	Description string `json:"description"`
}

// Component is one named sub-service within a provider's summary.
type Component struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Group   bool   `json:"group"`
	GroupID string `json:"group_id"`
}

// IncidentUpdate is one timeline entry on an incident.
type IncidentUpdate struct {
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Incident is a provider-reported event with a lifecycle. ResolvedAt is nil
// until the incident reaches a terminal state.
type Incident struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Status     string           `json:"status"`
	Impact     string           `json:"impact"`
	Shortlink  string           `json:"shortlink"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	ResolvedAt *time.Time       `json:"resolved_at"`
	Updates    []IncidentUpdate `json:"incident_updates"`
}

// IncidentsResponse is the shape of /api/v2/incidents.json.
type IncidentsResponse struct {
	Page      Page       `json:"page"`
	Incidents []Incident `json:"incidents"`
}

// SummaryResponse is the shape of /api/v2/summary.json. Only the component
// list is consumed; providers attach plenty of other fields that are ignored.
type SummaryResponse struct {
	Page       Page        `json:"page"`
	Status     Status      `json:"status"`
	Components []Component `json:"components"`
	Incidents  []Incident  `json:"incidents"`
}
