package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("ana"))
	assert.Error(t, ValidateEmail("Ana <ana@example.com>"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))

	assert.Equal(t, "ana@example.com", NormalizeEmail("  ANA@Example.COM "))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct-horse-battery"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
	assert.Error(t, ValidatePassword(strings.Repeat(" ", 12)))
	assert.Error(t, ValidatePassword("Qwerty-is-not-safe"))
}

func TestGoalFields(t *testing.T) {
	assert.Error(t, ValidateGoalTitle(""))
	assert.NoError(t, ValidateGoalTitle(strings.Repeat("é", MaxGoalTitleLength)))
	assert.Error(t, ValidateGoalTitle(strings.Repeat("a", MaxGoalTitleLength+1)))

	assert.NoError(t, ValidateGoalDescription(""))
	assert.Error(t, ValidateGoalDescription(strings.Repeat("a", MaxGoalDescriptionLength+1)))

	assert.Error(t, ValidateDeadline(time.Time{}))
	assert.NoError(t, ValidateDeadline(time.Now()))

	assert.NoError(t, ValidateGoalStatus("archived"))
	assert.Error(t, ValidateGoalStatus("paused"))

	assert.NoError(t, ValidateProgress(0))
	assert.NoError(t, ValidateProgress(100))
	assert.Error(t, ValidateProgress(-1))
	assert.Error(t, ValidateProgress(101))
}

func TestCheckInFields(t *testing.T) {
	assert.NoError(t, ValidateNote(""))
	assert.Error(t, ValidateNote(strings.Repeat("n", MaxNoteLength+1)))

	assert.NoError(t, ValidateMood(""))
	assert.NoError(t, ValidateMood("struggling"))
	assert.Error(t, ValidateMood("meh"))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-12-31")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC).Equal(got))

	got, err = ParseDate("2026-12-31T10:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC).Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	got, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDate("31/12/2026")
	assert.Error(t, err)
}

func TestValidateNameAndRole(t *testing.T) {
	assert.NoError(t, ValidateName("Ana"))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("a", 51)))

	assert.NoError(t, ValidateRole("admin"))
	assert.Error(t, ValidateRole("owner"))
}
