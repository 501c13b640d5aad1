package jobs

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadProfile reads a profile JSON file from disk.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &profile, nil
}

// DefaultProfile returns the fallback search profile used when no profile is
// supplied by the caller and none is configured on disk.
func DefaultProfile() *Profile {
	return &Profile{
		TargetLocations: []string{
			"Dublin, Ireland",
			"Amsterdam, Netherlands",
			"Rotterdam, Netherlands",
			"Utrecht, Netherlands",
			"Cork, Ireland",
			"Leeds, England",
		},
		PreferredRoles: []string{
			"Product Designer",
			"Senior Product Designer",
			"UX Designer",
			"UI/UX Designer",
			"Design Lead",
			"Product Engineer",
			"Design Engineer",
		},
		Skills: []string{
			"Product Design",
			"UX Design",
			"UI Design",
			"Design Systems",
			"Prototyping",
			"User Research",
			"Usability Testing",
			"A/B Testing",
			"Data Analysis",
			"Figma",
			"Framer",
			"Python",
			"JavaScript",
		},
	}
}
