package recruitment

import (
	"math"
	"strings"

	"ems-portal/internal/models"
)

const (
	skillWeight      = 0.7
	experienceWeight = 0.3
)

// FitScore computes the 0-100 suitability of a candidate for a job as a
// weighted combination of skill overlap (70%) and experience sufficiency
// (30%). Pure and deterministic; callers persist the result once at
// submission time and never recompute it when the job changes.
func FitScore(candidateSkills []string, candidateExperienceYears int, job *models.JobRequirement) int {
	skillScore := skillMatchScore(candidateSkills, job.RequiredSkills)
	expScore := experienceScore(candidateExperienceYears, job.MinimumYearsExperience)

	total := skillScore*skillWeight + expScore*experienceWeight
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return int(math.Round(total))
}

// skillMatchScore returns the percentage of required skills the candidate
// covers. A required skill counts as matched when any candidate skill
// contains it, case-insensitively, so required "React" is satisfied by
// "React.js" or "React Native" while candidate "CSS" does not satisfy
// required "Tailwind CSS". An empty requirement list is vacuously satisfied.
func skillMatchScore(candidateSkills []string, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return 100
	}

	normalized := make([]string, 0, len(candidateSkills))
	for _, skill := range candidateSkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			normalized = append(normalized, skill)
		}
	}

	matched := 0
	for _, required := range requiredSkills {
		required = strings.ToLower(strings.TrimSpace(required))
		if required == "" {
			matched++
			continue
		}
		for _, skill := range normalized {
			if strings.Contains(skill, required) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(requiredSkills)) * 100
}

// experienceScore returns 100 when the candidate meets the minimum and a
// proportional partial credit below it. A zero minimum is always satisfied.
func experienceScore(candidateYears, minimumYears int) float64 {
	if minimumYears <= 0 {
		return 100
	}
	if candidateYears >= minimumYears {
		return 100
	}
	if candidateYears <= 0 {
		return 0
	}
	return float64(candidateYears) / float64(minimumYears) * 100
}
