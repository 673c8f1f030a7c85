package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResumeReport_FiveCategoriesInOrder(t *testing.T) {
	report := NewResumeReport(map[string]CategoryScore{
		CategoryContent:  {Score: 15, Issues: "too long", Suggestions: "trim it"},
		CategoryFormat:   {Score: 12},
		CategorySections: {Score: 18},
		CategorySkills:   {Score: 10},
		CategoryStyle:    {Score: 9},
	})

	require.Len(t, report.Categories, 5)
	for i, name := range CategoryNames {
		assert.Equal(t, name, report.Categories[i].Name)
	}
	assert.Equal(t, 15+12+18+10+9, report.OverallScore)
	assert.Equal(t, "too long", report.Categories[0].Issues)
	assert.Equal(t, "trim it", report.Categories[0].Suggestions)
}

func TestNewResumeReport_ClampsScores(t *testing.T) {
	report := NewResumeReport(map[string]CategoryScore{
		CategoryContent:  {Score: 35},
		CategoryFormat:   {Score: -5},
		CategorySections: {Score: 20},
		CategorySkills:   {Score: 0},
		CategoryStyle:    {Score: 7},
	})

	assert.Equal(t, CategoryScoreMax, report.Categories[0].Score)
	assert.Equal(t, 0, report.Categories[1].Score)
	assert.Equal(t, 20+0+20+0+7, report.OverallScore)
	assert.LessOrEqual(t, report.OverallScore, OverallScoreMax)
}

func TestNewResumeReport_MissingCategoriesScoreZero(t *testing.T) {
	report := NewResumeReport(map[string]CategoryScore{
		CategorySkills: {Score: 20},
	})

	require.Len(t, report.Categories, 5)
	assert.Equal(t, 20, report.OverallScore)
	for _, cat := range report.Categories {
		if cat.Name != CategorySkills {
			assert.Zero(t, cat.Score)
		}
	}
}

func TestNewResumeReport_OverallIsSumOfCategories(t *testing.T) {
	report := NewResumeReport(map[string]CategoryScore{
		CategoryContent:  {Score: 20},
		CategoryFormat:   {Score: 20},
		CategorySections: {Score: 20},
		CategorySkills:   {Score: 20},
		CategoryStyle:    {Score: 20},
	})

	assert.Equal(t, OverallScoreMax, report.OverallScore)

	sum := 0
	for _, cat := range report.Categories {
		sum += cat.Score
	}
	assert.Equal(t, sum, report.OverallScore)
}
