package interfaces

import "route_automation/domain/entities"

// InstructionStore persists the captured instructions
type InstructionStore interface {
	// SaveInstructions writes the instructions once; it is not called again for a run
	SaveInstructions(instructions []entities.Instruction) error

	// Path returns where the instructions are written
	Path() string
}
