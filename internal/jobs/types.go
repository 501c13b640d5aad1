// Package jobs defines the canonical posting model shared across subsystems.
package jobs

import (
	"time"
)

// Job is the canonical normalized representation of one posting, regardless
// of which provider it came from.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	URL            string     `json:"url"`
	Description    string     `json:"description"`
	Created        *time.Time `json:"created"`
	Salary         *string    `json:"salary"`
	Type           string     `json:"type"`
	Remote         *string    `json:"remote"`
	Source         string     `json:"source"`
	RelevanceScore int        `json:"relevanceScore"`

	// Raw keeps the provider's original fields for debugging. Never part of
	// scoring or the API payload.
	Raw map[string]any `json:"-"`
}

// Profile holds the user's search preferences for one aggregation run.
type Profile struct {
	TargetLocations []string `json:"target_locations"`
	PreferredRoles  []string `json:"preferred_roles"`
	Skills          []string `json:"skills"`
	Industries      []string `json:"industries,omitempty"`
}

// RunStats summarizes one aggregation run.
type RunStats struct {
	Total   int      `json:"total"`
	Unique  int      `json:"unique"`
	Recent  int      `json:"recent"`
	Sources []string `json:"sources"`
}

// Result is what an aggregation run hands back to the caller.
type Result struct {
	Jobs  []Job    `json:"jobs"`
	Stats RunStats `json:"stats"`
}
