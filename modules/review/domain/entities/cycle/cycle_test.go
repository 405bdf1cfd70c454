package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearFromLabel(t *testing.T) {
	cases := map[string]int{
		"2024.1":          2024,
		"Ciclo 2023 - S2": 2023,
		"12345":           1234,
		"Q1/24":           2025,
		"":                2025,
		"cycle-2026-2027": 2026,
	}
	for label, want := range cases {
		assert.Equal(t, want, YearFromLabel(label, 2025), label)
	}
}

func TestNew_SpansFirstQuarter(t *testing.T) {
	c := New(" 2024.1 ", 2025)

	require.Equal(t, "2024.1", c.Label())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), c.StartDate())
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), c.EndDate())
	assert.Equal(t, StatusClosed, c.Status())
	assert.Equal(t, DefaultReviewDays, c.ReviewDays())
	assert.Equal(t, DefaultEqualizationDays, c.EqualizationDays())
}

func TestNew_FallbackYear(t *testing.T) {
	c := New("legacy", 2025)
	assert.Equal(t, 2025, c.StartDate().Year())
	assert.Equal(t, 2025, c.EndDate().Year())
}
