package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"route_automation/domain/entities"
	"route_automation/domain/interfaces"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the title of the only sheet in the workbook
	SheetName = "Driving Instructions"

	defaultSheet = "Sheet1"
)

// Header is the first row of the sheet
var Header = []interface{}{"Step Number", "Instruction Text"}

type spreadsheetStore struct {
	path string
}

// NewSpreadsheetStore - creates an xlsx instruction store writing to path
func NewSpreadsheetStore(path string) interfaces.InstructionStore {
	return &spreadsheetStore{path: path}
}

// Path - returns the workbook path
func (s *spreadsheetStore) Path() string {
	return s.path
}

// SaveInstructions - writes the header and one row per instruction
func (s *spreadsheetStore) SaveInstructions(instructions []entities.Instruction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, instruction := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{instruction.Step, instruction.Text}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write step %d: %w", instruction.Step, err)
		}
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
