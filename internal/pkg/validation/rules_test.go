package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	AwardNumber  string `validate:"required,award_number"`
	AcademicYear string `validate:"required,academic_year"`
	Contact      string `validate:"omitempty,contact_number"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(sample{AwardNumber: "TDP-2024-0001", AcademicYear: "2024-2025", Contact: "+63 917 123 4567"}))
	assert.NoError(t, v.Struct(sample{AwardNumber: "CMSP 0001", AcademicYear: "2023-2024"}))

	assert.Error(t, v.Struct(sample{AwardNumber: "-bad", AcademicYear: "2024-2025"}))
	assert.Error(t, v.Struct(sample{AwardNumber: "TDP-1", AcademicYear: "2024-2026"}))
	assert.Error(t, v.Struct(sample{AwardNumber: "TDP-1", AcademicYear: "2024/2025"}))
	assert.Error(t, v.Struct(sample{AwardNumber: "TDP-1", AcademicYear: "2024-2025", Contact: "call me"}))
}

func TestRegisterBindingIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterBinding()
		RegisterBinding()
	})
}
