package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScholarStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ScholarStatus
		ok       bool
	}{
		{ScholarApplicant, ScholarVerified, true},
		{ScholarApplicant, ScholarWaived, true},
		{ScholarApplicant, ScholarActive, false},
		{ScholarVerified, ScholarActive, true},
		{ScholarActive, ScholarOnLeave, true},
		{ScholarActive, ScholarGraduated, true},
		{ScholarActive, ScholarTerminated, true},
		{ScholarActive, ScholarApplicant, false},
		{ScholarOnLeave, ScholarActive, true},
		{ScholarOnLeave, ScholarGraduated, false},
		{ScholarGraduated, ScholarActive, false},
		{ScholarTerminated, ScholarActive, false},
		{ScholarWaived, ScholarApplicant, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestScholarFullName(t *testing.T) {
	s := Scholar{LastName: "Dela Cruz", FirstName: "Juan", MiddleName: "Santos", NameExtension: "Jr."}
	assert.Equal(t, "DELA CRUZ, Juan Santos Jr.", s.FullName())

	s = Scholar{LastName: "Reyes", FirstName: "Ana"}
	assert.Equal(t, "REYES, Ana", s.FullName())
}

func TestParseSex(t *testing.T) {
	sex, ok := ParseSex(" female ")
	assert.True(t, ok)
	assert.Equal(t, SexFemale, sex)

	_, ok = ParseSex("x")
	assert.False(t, ok)
}

func TestParseProgram(t *testing.T) {
	code, ok := ParseProgram("tdp")
	assert.True(t, ok)
	assert.Equal(t, ProgramTDP, code)

	code, ok = ParseProgram("StuFAP")
	assert.True(t, ok)
	assert.Equal(t, ProgramStuFAPs, code)

	_, ok = ParseProgram("abc")
	assert.False(t, ok)
}

func TestValidateAcademicYear(t *testing.T) {
	assert.NoError(t, ValidateAcademicYear("2024-2025"))
	assert.Error(t, ValidateAcademicYear("2024-2026"))
	assert.Error(t, ValidateAcademicYear("2024/2025"))
	assert.Error(t, ValidateAcademicYear("24-25"))
	assert.Error(t, ValidateAcademicYear("abcd-efgh"))
}
