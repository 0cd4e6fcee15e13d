package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("dr.house@clinic.org"))
	assert.False(t, ValidateEmail("dr.house@clinic"))
	assert.False(t, ValidateEmail("not an email"))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+1 (555) 010-2030"))
	assert.True(t, ValidatePhone("5550102030"))
	assert.False(t, ValidatePhone("555-0102"))
	assert.Equal(t, "+15550102030", FormatPhone("+1 (555) 010-2030"))
}

func TestValidateNamePart(t *testing.T) {
	assert.True(t, ValidateNamePart("O'Neil"))
	assert.True(t, ValidateNamePart("Smith-Jones"))
	assert.False(t, ValidateNamePart("A"))
	assert.False(t, ValidateNamePart("R2D2"))
}

func TestValidateAppointmentType(t *testing.T) {
	assert.True(t, ValidateAppointmentType("new_patient"))
	assert.True(t, ValidateAppointmentType("follow_up"))
	assert.False(t, ValidateAppointmentType("Follow Up"))
	assert.False(t, ValidateAppointmentType("x"))
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "Anna-Maria Lopez", FormatName("anna-MARIA   lopez"))
	assert.Equal(t, "", FormatName(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", SanitizeString("  <script>alert(1)</script> "))
	assert.Equal(t, "O'Neil", SanitizeString("O'Neil"))
}
