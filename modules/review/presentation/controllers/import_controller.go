package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/review-sdk/modules/review/services"
	"github.com/iota-uz/review-sdk/pkg/application"
	"github.com/iota-uz/review-sdk/pkg/composables"
	"github.com/iota-uz/review-sdk/pkg/httpapi"
	"github.com/iota-uz/review-sdk/pkg/middleware"
)

const (
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	uploadField    = "file"
	multipartSlack = 1 << 20
)

type ImportController struct {
	app           application.Application
	imports       *services.ImportService
	templates     *services.TemplateService
	basePath      string
	maxUploadSize int64
}

func NewImportController(app application.Application, maxUploadSize int64) application.Controller {
	return &ImportController{
		app:           app,
		imports:       app.Service(services.ImportService{}).(*services.ImportService),
		templates:     app.Service(services.TemplateService{}).(*services.TemplateService),
		basePath:      "/review/api",
		maxUploadSize: maxUploadSize,
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.TracedMiddleware("review.imports"))
	router.HandleFunc("/imports", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/imports/template", c.Template).Methods(http.MethodGet)
}

func (c *ImportController) logger(r *http.Request) *logrus.Entry {
	if entry, err := composables.UseLogger(r.Context()); err == nil {
		return entry
	}
	return logrus.NewEntry(c.app.Logger())
}

// Create accepts a workbook upload and schedules its import. The response never
// reflects the import's outcome.
func (c *ImportController) Create(w http.ResponseWriter, r *http.Request) {
	logger := c.logger(r)
	limit := c.maxUploadSize + multipartSlack
	if r.ContentLength > limit {
		c.tooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.tooLarge(w)
			return
		}
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_MULTIPART", "invalid multipart body", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FILE_REQUIRED", "multipart field \"file\" is required", nil)
		return
	}
	defer func() { _ = file.Close() }()
	if header.Size > c.maxUploadSize {
		c.tooLarge(w)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.WithError(err).Error("failed to read upload")
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_UNREADABLE", "failed to read upload", nil)
		return
	}
	if len(data) == 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FILE_EMPTY", "uploaded file is empty", nil)
		return
	}

	detected := mimetype.Detect(data)
	uploadLog := logger.WithFields(logrus.Fields{
		"file":      header.Filename,
		"size":      len(data),
		"mime_type": detected.String(),
	})
	if !detected.Is(xlsxMIME) {
		uploadLog.Warn("upload does not look like an xlsx workbook")
	}

	accepted := c.imports.StartImport(r.Context(), data, header.Filename)
	uploadLog.WithField("import_id", accepted.ImportID).Info("import accepted")
	_ = httpapi.WriteJSON(w, accepted.StatusCode, accepted)
}

func (c *ImportController) tooLarge(w http.ResponseWriter) {
	_ = httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE",
		fmt.Sprintf("upload exceeds %d bytes", c.maxUploadSize), nil)
}

func (c *ImportController) Template(w http.ResponseWriter, r *http.Request) {
	data, err := c.templates.Template()
	if err != nil {
		c.logger(r).WithError(err).Error("failed to render import template")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "TEMPLATE_FAILED", "failed to render template", nil)
		return
	}
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.TemplateFileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
