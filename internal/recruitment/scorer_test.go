package recruitment

import (
	"testing"

	"ems-portal/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFitScore_WorkedExample(t *testing.T) {
	// 2/3 skills matched, experience satisfied:
	// 66.67*0.7 + 100*0.3 = 76.67 -> 77
	job := &models.JobRequirement{
		RequiredSkills:         models.StringList{"React", "TypeScript", "GraphQL"},
		MinimumYearsExperience: 3,
	}

	score := FitScore([]string{"React", "TypeScript", "Node.js"}, 5, job)
	assert.Equal(t, 77, score)
}

func TestFitScore_PartialExperienceExample(t *testing.T) {
	// 1/4 skills matched, 4/5 years:
	// 25*0.7 + 80*0.3 = 41.5 -> 42
	job := &models.JobRequirement{
		RoleName:               "Senior React Developer",
		RequiredSkills:         models.StringList{"React", "TypeScript", "Node.js", "Tailwind CSS"},
		MinimumYearsExperience: 5,
	}

	score := FitScore([]string{"React", "JavaScript", "CSS", "HTML", "Redux"}, 4, job)
	assert.Equal(t, 42, score)
}

func TestFitScore_Deterministic(t *testing.T) {
	job := &models.JobRequirement{
		RequiredSkills:         models.StringList{"Go", "PostgreSQL", "Docker"},
		MinimumYearsExperience: 4,
	}
	skills := []string{"Go", "Kubernetes", "PostgreSQL"}

	first := FitScore(skills, 2, job)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, FitScore(skills, 2, job))
	}
}

func TestFitScore_Bounds(t *testing.T) {
	jobs := []*models.JobRequirement{
		{RequiredSkills: models.StringList{}, MinimumYearsExperience: 0},
		{RequiredSkills: models.StringList{"Go"}, MinimumYearsExperience: 10},
		{RequiredSkills: models.StringList{"Go", "Rust", "Zig"}, MinimumYearsExperience: 1},
	}
	skillSets := [][]string{
		nil,
		{},
		{"Go"},
		{"Go", "Rust", "Zig", "C", "C++"},
	}
	years := []int{-1, 0, 1, 10, 100}

	for _, job := range jobs {
		for _, skills := range skillSets {
			for _, y := range years {
				score := FitScore(skills, y, job)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestFitScore_EmptyRequiredSkills(t *testing.T) {
	// No required skills means the skill component is vacuously satisfied
	job := &models.JobRequirement{
		RequiredSkills:         models.StringList{},
		MinimumYearsExperience: 3,
	}

	assert.Equal(t, 100, FitScore(nil, 5, job))
	assert.Equal(t, 100, FitScore([]string{"anything"}, 3, job))

	// 100*0.7 + 0*0.3 = 70 when experience is entirely missing
	assert.Equal(t, 70, FitScore(nil, 0, job))
}

func TestFitScore_ZeroMinimumExperience(t *testing.T) {
	job := &models.JobRequirement{
		RequiredSkills:         models.StringList{"Go"},
		MinimumYearsExperience: 0,
	}

	// Skill fully matched, experience vacuously satisfied
	assert.Equal(t, 100, FitScore([]string{"Go"}, 0, job))
	// No skills matched: 0*0.7 + 100*0.3 = 30
	assert.Equal(t, 30, FitScore([]string{"Java"}, 0, job))
}

func TestFitScore_SubstringMatch(t *testing.T) {
	job := &models.JobRequirement{
		RequiredSkills:         models.StringList{"React"},
		MinimumYearsExperience: 0,
	}

	tests := []struct {
		name     string
		skills   []string
		expected int
	}{
		{"exact", []string{"React"}, 100},
		{"case_insensitive", []string{"react"}, 100},
		{"variant_contains_required", []string{"React.js"}, 100},
		{"compound_contains_required", []string{"React Native"}, 100},
		{"no_match", []string{"Angular"}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FitScore(tt.skills, 0, job))
		})
	}

	t.Run("fragment_does_not_match_compound_requirement", func(t *testing.T) {
		compound := &models.JobRequirement{
			RequiredSkills:         models.StringList{"Tailwind CSS"},
			MinimumYearsExperience: 0,
		}
		assert.Equal(t, 30, FitScore([]string{"CSS"}, 0, compound))
	})
}

func TestFitScore_Monotonicity(t *testing.T) {
	// Adding a matching skill never lowers the score
	job := &models.JobRequirement{
		RequiredSkills:         models.StringList{"Go", "PostgreSQL", "Docker", "Kubernetes"},
		MinimumYearsExperience: 3,
	}

	skills := []string{}
	previous := FitScore(skills, 2, job)
	for _, skill := range []string{"Go", "PostgreSQL", "Docker", "Kubernetes"} {
		skills = append(skills, skill)
		current := FitScore(skills, 2, job)
		assert.GreaterOrEqual(t, current, previous)
		previous = current
	}
	assert.Greater(t, previous, FitScore(nil, 2, job))
}

func TestFitScore_IgnoresBlankSkillEntries(t *testing.T) {
	job := &models.JobRequirement{
		RequiredSkills:         models.StringList{"Go"},
		MinimumYearsExperience: 0,
	}

	// Whitespace-only candidate entries must not match everything
	assert.Equal(t, 30, FitScore([]string{"  ", ""}, 0, job))
}
