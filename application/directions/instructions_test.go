package directions

import (
	"testing"

	"route_automation/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestFilterStepTexts(t *testing.T) {
	texts := []string{"", "  ", "Directions", "Turn left", "steps", "Continue straight"}
	assert.Equal(t, []string{"Turn left", "Continue straight"}, FilterStepTexts(texts))
}

func TestFilterStepTextsTrimsAndKeepsLabelsInsideSentences(t *testing.T) {
	texts := []string{"  Head north  ", "STEPS", "Follow the steps to the bridge", "\tdirections\n"}
	assert.Equal(t, []string{"Head north", "Follow the steps to the bridge"}, FilterStepTexts(texts))
}

func TestFilterStepTextsEmpty(t *testing.T) {
	assert.Empty(t, FilterStepTexts(nil))
}

func TestNumberFilteredInstructions(t *testing.T) {
	got := entities.NumberInstructions(FilterStepTexts([]string{"Steps", "A", "", "B"}))
	assert.Equal(t, []entities.Instruction{{Step: 1, Text: "A"}, {Step: 2, Text: "B"}}, got)
}
