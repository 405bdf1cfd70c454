package person

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDTO_Validate(t *testing.T) {
	dto := &ProfileDTO{Email: " A@X.com ", FullName: "A", Unit: "TI", CycleLabel: " 2024.1 "}
	require.NoError(t, dto.Validate())
	assert.Equal(t, "a@x.com", dto.Email)
	assert.Equal(t, "2024.1", dto.CycleLabel)
}

func TestProfileDTO_ValidateMissingFields(t *testing.T) {
	dto := &ProfileDTO{FullName: "A", Unit: "  "}
	err := dto.Validate()
	require.ErrorIs(t, err, ErrProfileIncomplete)
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Unit")
	assert.NotContains(t, err.Error(), "FullName")
}

func TestPerson_WithDisplayKeepsBlankFields(t *testing.T) {
	p := New("b@x.com", "B", "", "hash")
	p = p.WithDisplay("", "Ops")
	assert.Equal(t, "B", p.FullName())
	assert.Equal(t, "Ops", p.Unit())
	assert.Equal(t, StatusActive, p.Status())
}

func TestStubName(t *testing.T) {
	assert.Equal(t, "maria.silva", StubName(" Maria.Silva@x.com"))
	assert.Equal(t, "nobody", StubName("nobody"))
}
