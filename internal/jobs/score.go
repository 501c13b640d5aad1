package jobs

import (
	"strings"
)

// ScoreExcluded is the sentinel returned for postings in an excluded region
// with no relocation language. It deliberately bypasses the 0-100 clamp;
// callers must check IsExcluded before treating the value as a score.
const ScoreExcluded = -100

// excludedLocations lists regions outside the supported target geography.
// "worldwide" catches listings that name no real location at all.
var excludedLocations = []string{
	"usa", "united states", "u.s.", "canada", "mexico", "brazil",
	"india", "pakistan", "bangladesh", "nigeria", "egypt",
	"australia", "new zealand", "singapore", "dubai", "uae",
	"worldwide",
}

// relocationKeywords flag postings open to international candidates.
var relocationKeywords = []string{
	"relocation", "visa sponsorship", "visa support", "work permit",
	"international candidates",
}

// remoteKeywords flag postings that can be worked from anywhere.
var remoteKeywords = []string{
	"remote", "anywhere", "work from home", "distributed",
}

// unrelatedRoleKeywords penalize titles in fields the profile does not cover,
// unless the profile itself asks for them.
var unrelatedRoleKeywords = []string{
	"sales", "marketing", "account manager", "recruiter", "hr ",
	"human resources",
}

var seniorityQualifiers = strings.NewReplacer(
	"senior ", "",
	"lead ", "",
	"junior ", "",
)

// MentionsRelocation reports whether a posting contains relocation or visa
// language, or reads as a remote role. It feeds both the hard-exclusion
// override and the scoring bonuses.
func MentionsRelocation(job Job) bool {
	text := combinedText(job)
	for _, kw := range relocationKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	if job.Remote != nil && strings.EqualFold(*job.Remote, "Remote") {
		return true
	}
	for _, kw := range remoteKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether a score carries the hard-exclusion sentinel.
func IsExcluded(score int) bool {
	return score < 0
}

// Score computes a 0-100 relevance score for a job against a profile, or
// ScoreExcluded for postings in an excluded region without relocation
// language. Pure function of its inputs.
func Score(job Job, profile *Profile) int {
	if profile == nil {
		return 0
	}

	title := strings.ToLower(job.Title)
	location := strings.ToLower(job.Location)
	titleAndDesc := title + " " + strings.ToLower(job.Description)

	relocation := MentionsRelocation(job)
	if locationExcluded(location) && !relocation {
		return ScoreExcluded
	}

	score := 0

	// Role match, up to 40 points plus a bonus when the first matching role
	// appears literally in the title.
	var roleMatches []string
	for _, role := range profile.PreferredRoles {
		stripped := strings.TrimSpace(seniorityQualifiers.Replace(strings.ToLower(role)))
		if stripped == "" {
			continue
		}
		if strings.Contains(titleAndDesc, stripped) {
			roleMatches = append(roleMatches, role)
		}
	}
	if len(roleMatches) > 0 {
		score += minInt(40, 20+len(roleMatches)*10)
		if strings.Contains(title, strings.ToLower(roleMatches[0])) {
			score += 10
		}
	}

	// Location tiers are mutually exclusive; the highest applicable wins.
	switch {
	case matchesTargetLocation(location, profile.TargetLocations):
		score += 30
	case relocation:
		score += 25
	case isRemoteText(location):
		score += 20
	}
	if relocation {
		score += 10
	}

	// Skills, up to 25 points.
	matchingSkills := 0
	for _, skill := range profile.Skills {
		if skill == "" {
			continue
		}
		if strings.Contains(titleAndDesc, strings.ToLower(skill)) {
			matchingSkills++
		}
	}
	if matchingSkills > 0 {
		score += minInt(25, 5+matchingSkills*3)
	}

	// Industries, 5 points each; the final clamp bounds the total.
	for _, industry := range profile.Industries {
		if industry == "" {
			continue
		}
		if strings.Contains(titleAndDesc, strings.ToLower(industry)) {
			score += 5
		}
	}

	// Heavy penalty for titles in unrelated fields.
	for _, kw := range unrelatedRoleKeywords {
		if strings.Contains(title, kw) && !profileWantsRole(profile, kw) {
			score -= 30
		}
	}

	// Exact title match bonus.
	for _, role := range profile.PreferredRoles {
		if strings.EqualFold(strings.TrimSpace(role), strings.TrimSpace(job.Title)) {
			score += 10
			break
		}
	}

	return clampScore(score)
}

func combinedText(job Job) string {
	return strings.ToLower(job.Title + " " + job.Description + " " + job.Location)
}

func locationExcluded(location string) bool {
	if location == "" {
		return false
	}
	for _, excluded := range excludedLocations {
		if strings.Contains(location, excluded) {
			return true
		}
	}
	return false
}

func matchesTargetLocation(location string, targets []string) bool {
	if location == "" {
		return false
	}
	for _, target := range targets {
		if target == "" {
			continue
		}
		if strings.Contains(location, strings.ToLower(target)) {
			return true
		}
	}
	return false
}

func isRemoteText(location string) bool {
	for _, kw := range remoteKeywords {
		if strings.Contains(location, kw) {
			return true
		}
	}
	return false
}

func profileWantsRole(profile *Profile, keyword string) bool {
	for _, role := range profile.PreferredRoles {
		if strings.Contains(strings.ToLower(role), keyword) {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
