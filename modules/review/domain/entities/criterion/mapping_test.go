package criterion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_LegacyLabels(t *testing.T) {
	m, ok := Map("Organização")
	require.True(t, ok)
	assert.Equal(t, WorkOrganization, m.Canonical)
	assert.False(t, m.LeadershipOnly)

	m, ok = Map("  mentoria ")
	require.True(t, ok)
	assert.Equal(t, TeamDevelopment, m.Canonical)
	assert.True(t, m.LeadershipOnly)

	m, ok = Map("GESTÃO   DO\tTEMPO")
	require.True(t, ok)
	assert.Equal(t, WorkOrganization, m.Canonical)
}

func TestMap_Unmapped(t *testing.T) {
	for _, label := range []string{"", "   ", "Criatividade", "Organizacao"} {
		_, ok := Map(label)
		assert.False(t, ok, label)
	}
}

func TestMappings_ManyToOne(t *testing.T) {
	all := Mappings()
	require.Len(t, all, 18)

	byCanonical := map[string]int{}
	for _, m := range all {
		byCanonical[m.Canonical]++
	}
	assert.Equal(t, 3, byCanonical[WorkOrganization])
	assert.Equal(t, 2, byCanonical[TeamDevelopment])
	assert.Len(t, CanonicalNames(), len(byCanonical))

	all[0].Canonical = "mutated"
	again, ok := Map("Organização")
	require.True(t, ok)
	assert.Equal(t, WorkOrganization, again.Canonical)
}
