package criterion

import "strings"

// Canonical criterion names.
const (
	WorkOrganization   = "Organização no Trabalho"
	Communication      = "Comunicação"
	Teamwork           = "Trabalho em Equipe"
	TechnicalQuality   = "Qualidade Técnica"
	Proactivity        = "Proatividade"
	ContinuousLearning = "Aprendizado Contínuo"
	CustomerFocus      = "Foco no Cliente"
	PeopleManagement   = "Gestão de Pessoas"
	TeamDevelopment    = "Desenvolvimento do Time"
	StrategicVision    = "Visão Estratégica"
)

// Mapping ties a legacy self-assessment label to its canonical criterion.
type Mapping struct {
	Legacy         string
	Canonical      string
	LeadershipOnly bool
}

var legacyMappings = []Mapping{
	{Legacy: "Organização", Canonical: WorkOrganization},
	{Legacy: "Planejamento", Canonical: WorkOrganization},
	{Legacy: "Gestão do Tempo", Canonical: WorkOrganization},
	{Legacy: "Comunicação", Canonical: Communication},
	{Legacy: "Comunicação Assertiva", Canonical: Communication},
	{Legacy: "Colaboração", Canonical: Teamwork},
	{Legacy: "Trabalho em Equipe", Canonical: Teamwork},
	{Legacy: "Conhecimento Técnico", Canonical: TechnicalQuality},
	{Legacy: "Qualidade das Entregas", Canonical: TechnicalQuality},
	{Legacy: "Iniciativa", Canonical: Proactivity},
	{Legacy: "Proatividade", Canonical: Proactivity},
	{Legacy: "Aprendizado", Canonical: ContinuousLearning},
	{Legacy: "Autodesenvolvimento", Canonical: ContinuousLearning},
	{Legacy: "Foco no Cliente", Canonical: CustomerFocus},
	{Legacy: "Liderança", Canonical: PeopleManagement, LeadershipOnly: true},
	{Legacy: "Feedback e Acompanhamento", Canonical: TeamDevelopment, LeadershipOnly: true},
	{Legacy: "Mentoria", Canonical: TeamDevelopment, LeadershipOnly: true},
	{Legacy: "Visão de Negócio", Canonical: StrategicVision, LeadershipOnly: true},
}

// built once; read-only afterwards and safe for concurrent lookups
var mappingIndex = func() map[string]Mapping {
	idx := make(map[string]Mapping, len(legacyMappings))
	for _, m := range legacyMappings {
		idx[normalizeLabel(m.Legacy)] = m
	}
	return idx
}()

// Map resolves a legacy label. Case and surrounding or repeated whitespace are ignored.
func Map(label string) (Mapping, bool) {
	m, ok := mappingIndex[normalizeLabel(label)]
	return m, ok
}

// Mappings returns a copy of the legacy table in declaration order.
func Mappings() []Mapping {
	out := make([]Mapping, len(legacyMappings))
	copy(out, legacyMappings)
	return out
}

// CanonicalNames lists each canonical criterion once, in first-mapped order.
func CanonicalNames() []string {
	seen := make(map[string]struct{}, len(legacyMappings))
	out := make([]string, 0, len(legacyMappings))
	for _, m := range legacyMappings {
		if _, ok := seen[m.Canonical]; ok {
			continue
		}
		seen[m.Canonical] = struct{}{}
		out = append(out, m.Canonical)
	}
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
