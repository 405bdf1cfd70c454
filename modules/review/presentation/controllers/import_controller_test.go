package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	personservices "github.com/iota-uz/review-sdk/modules/person/services"
	"github.com/iota-uz/review-sdk/modules/review/infrastructure/memory"
	"github.com/iota-uz/review-sdk/modules/review/services"
	"github.com/iota-uz/review-sdk/pkg/application"
	"github.com/iota-uz/review-sdk/pkg/crypto"
	"github.com/iota-uz/review-sdk/pkg/eventbus"
	"github.com/iota-uz/review-sdk/pkg/excel"
)

type fixture struct {
	router  *mux.Router
	store   *memory.Store
	imports *services.ImportService
}

func newFixture(t *testing.T, maxUpload int64) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	cipher, err := crypto.NewCipher("controller-secret")
	require.NoError(t, err)

	store := memory.NewStore()
	persons := personservices.NewPersonService(store.PersonRepository(), &crypto.BcryptHasher{Cost: bcrypt.MinCost})
	resolver := services.NewResolver(persons, store.CycleRepository(), store.ProjectRepository(), 2025)
	writer := services.NewGraphWriter(store, store.ReviewRepository(), store.CriterionRepository(), store.ReferenceRepository(), cipher, logger)
	bus := eventbus.NewEventPublisher(logger)
	imports := services.NewImportService(resolver, writer, bus, logger)

	app := application.New(&application.ApplicationOptions{EventBus: bus, Logger: logger})
	app.RegisterServices(imports, services.NewTemplateService())

	router := mux.NewRouter()
	NewImportController(app, maxUpload).Register(router)
	return &fixture{router: router, store: store, imports: imports}
}

func upload(t *testing.T, field, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/review/api/imports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func workbook(t *testing.T) []byte {
	t.Helper()
	data, err := excel.Write([]excel.SheetSpec{{
		Name:    services.SheetProfile,
		Headers: []string{services.HeaderEmail, services.HeaderFullName, services.HeaderUnit, services.HeaderCycleLabel},
		Rows:    [][]string{{"ana@example.com", "Ana Souza", "Payments", "2024"}},
	}})
	require.NoError(t, err)
	return data
}

func TestImportController_AcceptsUpload(t *testing.T) {
	f := newFixture(t, 1<<20)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, upload(t, "file", "ana.xlsx", workbook(t)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var got struct {
		StatusCode int       `json:"status_code"`
		Message    string    `json:"message"`
		ImportID   uuid.UUID `json:"import_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, http.StatusAccepted, got.StatusCode)
	assert.Contains(t, got.Message, "ana.xlsx")
	assert.NotEqual(t, uuid.Nil, got.ImportID)

	f.imports.Wait()
	counts := f.store.Counts()
	assert.Equal(t, 1, counts.Persons)
	assert.Equal(t, 1, counts.Cycles)
}

func TestImportController_AcceptsUnreadableWorkbook(t *testing.T) {
	f := newFixture(t, 1<<20)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, upload(t, "file", "notes.txt", []byte("plain text, not a workbook")))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	f.imports.Wait()
	assert.Zero(t, f.store.Counts().Persons)
}

func TestImportController_RequiresFileField(t *testing.T) {
	f := newFixture(t, 1<<20)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, upload(t, "attachment", "ana.xlsx", workbook(t)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE_REQUIRED")
}

func TestImportController_RejectsEmptyFile(t *testing.T) {
	f := newFixture(t, 1<<20)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, upload(t, "file", "empty.xlsx", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE_EMPTY")
}

func TestImportController_RejectsOversizedUpload(t *testing.T) {
	f := newFixture(t, 16)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, upload(t, "file", "big.xlsx", bytes.Repeat([]byte("x"), 2<<20)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestImportController_Template(t *testing.T) {
	f := newFixture(t, 1<<20)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/review/api/imports/template", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMIME, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), services.TemplateFileName)

	wb, err := excel.Open(rec.Body.Bytes())
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	assert.Equal(t, []string{services.SheetProfile, services.SheetSelf, services.SheetPeer, services.SheetReferences}, wb.SheetNames())
}
