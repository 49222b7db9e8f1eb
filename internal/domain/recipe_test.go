package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func nikujaga() Recipe {
	return Recipe{
		ID:          "nikujaga",
		Name:        "肉じゃが",
		Description: "ほっとする家庭の味",
		Category:    "和食",
		Servings:    2,
		Ingredients: []string{"牛肉 200g", "じゃがいも 3個", "玉ねぎ 1個", "醤油大さじ3", "塩 適量"},
		Tags:        []string{"煮物", "Comfort"},
	}
}

func TestRecipe_Matches(t *testing.T) {
	r := nikujaga()

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"肉じゃが", true},
		{"家庭", true},
		{"和食", true},
		{"comfort", true},
		{"カレー", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Matches(tt.query))
		})
	}
}

func TestRecipe_IngredientsFor(t *testing.T) {
	r := nikujaga()

	assert.Equal(t, r.Ingredients, r.IngredientsFor(0))
	assert.Equal(t, r.Ingredients, r.IngredientsFor(2))
	assert.Equal(t,
		[]string{"牛肉 100g", "じゃがいも 1と1/2個", "玉ねぎ 1/2個", "醤油大さじ1と1/2", "塩 適量"},
		r.IngredientsFor(1))
}

func TestStepDuration(t *testing.T) {
	tests := []struct {
		step string
		want time.Duration
		ok   bool
	}{
		{"弱火で15分煮込む", 15 * time.Minute, true},
		{"3分ほど炒めてから10分蒸らす", 3 * time.Minute, true},
		{"器に盛る", 0, false},
		{"0分", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			got, ok := StepDuration(tt.step)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDraftOf(t *testing.T) {
	d := DraftOf(nikujaga())

	assert.Equal(t, "肉じゃが", d.Name)
	assert.Len(t, d.Ingredients, 5)
}

func TestPrompt_WithDefaults(t *testing.T) {
	empty := Prompt{System: "s"}.WithDefaults(0.7, 0.95, 8192)
	assert.InDelta(t, 0.7, empty.Temperature, 1e-9)
	assert.InDelta(t, 0.95, empty.TopP, 1e-9)
	assert.Equal(t, 8192, empty.MaxTokens)
	assert.Equal(t, "s", empty.System)

	set := Prompt{Temperature: 0.2, TopP: 0.5, MaxTokens: 100}.WithDefaults(0.7, 0.95, 8192)
	assert.Equal(t, Prompt{Temperature: 0.2, TopP: 0.5, MaxTokens: 100}, set)
}
