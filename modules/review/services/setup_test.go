package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	personservices "github.com/iota-uz/review-sdk/modules/person/services"
	"github.com/iota-uz/review-sdk/modules/review/infrastructure/memory"
	"github.com/iota-uz/review-sdk/pkg/crypto"
	"github.com/iota-uz/review-sdk/pkg/eventbus"
	"github.com/iota-uz/review-sdk/pkg/excel"
)

type harness struct {
	store    *memory.Store
	resolver *Resolver
	imports  *ImportService
	queries  *ReviewQueryService
	events   []*ImportCompletedEvent
	logs     *test.Hook
}

func newHarness(t *testing.T, opts ...memory.Option) *harness {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	cipher, err := crypto.NewCipher("test-secret")
	require.NoError(t, err)

	store := memory.NewStore(opts...)
	persons := personservices.NewPersonService(store.PersonRepository(), &crypto.BcryptHasher{Cost: bcrypt.MinCost})
	resolver := NewResolver(persons, store.CycleRepository(), store.ProjectRepository(), 2025)
	writer := NewGraphWriter(store, store.ReviewRepository(), store.CriterionRepository(), store.ReferenceRepository(), cipher, logger)

	h := &harness{store: store, resolver: resolver, logs: hook}
	bus := eventbus.NewEventPublisher(logger)
	bus.Subscribe(func(e *ImportCompletedEvent) { h.events = append(h.events, e) })

	h.imports = NewImportService(resolver, writer, bus, logger)
	h.queries = NewReviewQueryService(store.PersonRepository(), store.CycleRepository(), store.ReviewRepository(), cipher)
	return h
}

func (h *harness) warnings() int {
	n := 0
	for _, e := range h.logs.AllEntries() {
		if e.Level == logrus.WarnLevel {
			n++
		}
	}
	return n
}

type workbookSpec struct {
	profile    [][]string
	self       [][]string
	peer       [][]string
	references [][]string
}

func profileRow(email, name, unit, cycle string) [][]string {
	return [][]string{{email, name, unit, cycle}}
}

func buildWorkbook(t *testing.T, layout workbookSpec) []byte {
	t.Helper()
	sheets := []excel.SheetSpec{
		{Name: SheetProfile, Headers: []string{HeaderEmail, HeaderFullName, HeaderUnit, HeaderCycleLabel}, Rows: layout.profile},
	}
	if layout.self != nil {
		sheets = append(sheets, excel.SheetSpec{
			Name: SheetSelf, Headers: []string{HeaderCriterion, HeaderScore, HeaderJustification}, Rows: layout.self,
		})
	}
	if layout.peer != nil {
		sheets = append(sheets, excel.SheetSpec{
			Name: SheetPeer,
			Headers: []string{
				HeaderEvaluatedEmail, HeaderProject, HeaderOverallScore,
				HeaderImprovement, HeaderStrength, HeaderWouldWorkAgain,
			},
			Rows: layout.peer,
		})
	}
	if layout.references != nil {
		sheets = append(sheets, excel.SheetSpec{
			Name: SheetReferences, Headers: []string{HeaderReferenceEmail, HeaderJustification}, Rows: layout.references,
		})
	}
	data, err := excel.Write(sheets)
	require.NoError(t, err)
	return data
}
