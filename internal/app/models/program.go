package models

import (
	"strings"
)

// ProgramCode identifies a scholarship sub-program
type ProgramCode string

const (
	ProgramTDP     ProgramCode = "TDP"
	ProgramCMSP    ProgramCode = "CMSP"
	ProgramStuFAPs ProgramCode = "STUFAPS"
	ProgramMSRS    ProgramCode = "MSRS"
)

// AllPrograms lists the programs in display order
var AllPrograms = []ProgramCode{ProgramTDP, ProgramCMSP, ProgramStuFAPs, ProgramMSRS}

// ProgramNames holds the official program titles
var ProgramNames = map[ProgramCode]string{
	ProgramTDP:     "Tulong Dunong Program",
	ProgramCMSP:    "CHED Merit Scholarship Program",
	ProgramStuFAPs: "Student Financial Assistance Programs",
	ProgramMSRS:    "Medical Scholarship and Return Service",
}

// ParseProgram resolves a program code case-insensitively. "stufap" is accepted for STUFAPS.
func ParseProgram(code string) (ProgramCode, bool) {
	c := ProgramCode(strings.ToUpper(strings.TrimSpace(code)))
	if c == "STUFAP" {
		c = ProgramStuFAPs
	}
	_, ok := ProgramNames[c]
	return c, ok
}

// Program represents a scholarship program row
type Program struct {
	ID          int64       `json:"id"`
	Code        ProgramCode `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}
