package entities

// Instruction is one captured turn-by-turn step
type Instruction struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

// NumberInstructions numbers texts from 1 in the given order
func NumberInstructions(texts []string) []Instruction {
	instructions := make([]Instruction, 0, len(texts))
	for i, text := range texts {
		instructions = append(instructions, Instruction{Step: i + 1, Text: text})
	}
	return instructions
}
