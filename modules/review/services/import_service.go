package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/modules/review/domain/aggregates/review"
	"github.com/iota-uz/review-sdk/pkg/composables"
	"github.com/iota-uz/review-sdk/pkg/eventbus"
	"github.com/iota-uz/review-sdk/pkg/excel"
)

var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// Tally counts record outcomes of one kind.
type Tally struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (t *Tally) Add(o Outcome) {
	switch o.Status {
	case OutcomeCreated:
		t.Created++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomeFailed:
		t.Failed++
	}
}

type ImportStatus string

const (
	ImportCompleted ImportStatus = "completed"
	ImportAborted   ImportStatus = "aborted"
	ImportCrashed   ImportStatus = "crashed"
)

// Summary is the terminal report of one workbook import.
type Summary struct {
	ImportID    uuid.UUID     `json:"import_id"`
	FileName    string        `json:"file_name"`
	Status      ImportStatus  `json:"status"`
	Subject     string        `json:"subject,omitempty"`
	Cycle       string        `json:"cycle,omitempty"`
	SelfReviews Tally         `json:"self_reviews"`
	PeerReviews Tally         `json:"peer_reviews"`
	References  Tally         `json:"references"`
	Warnings    int           `json:"warnings"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}

func (s Summary) fields() logrus.Fields {
	return logrus.Fields{
		"import_id":    s.ImportID,
		"file":         s.FileName,
		"status":       s.Status,
		"subject":      s.Subject,
		"cycle":        s.Cycle,
		"self_reviews": s.SelfReviews,
		"peer_reviews": s.PeerReviews,
		"references":   s.References,
		"warnings":     s.Warnings,
		"duration":     s.Duration,
	}
}

// Accepted is returned to the uploader before any work happens.
type Accepted struct {
	StatusCode int       `json:"status_code"`
	Message    string    `json:"message"`
	ImportID   uuid.UUID `json:"import_id"`
}

// PeerRow is one 360 Assessment line, in clear text.
type PeerRow struct {
	Line           int
	EvaluatedEmail string
	ProjectName    string
	Score          string
	Weaknesses     string
	Strengths      string
	WouldWorkAgain string
}

// ReferenceRow is one Reference Search line, in clear text.
type ReferenceRow struct {
	Line          int
	Email         string
	Justification string
}

// ImportService turns review workbooks into the review graph.
type ImportService struct {
	resolver  *Resolver
	writer    *GraphWriter
	publisher eventbus.EventBus
	logger    *logrus.Logger
	tracer    trace.Tracer
	wg        sync.WaitGroup
}

func NewImportService(
	resolver *Resolver,
	writer *GraphWriter,
	publisher eventbus.EventBus,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		resolver:  resolver,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer("review-sdk/modules/review"),
	}
}

// StartImport schedules the import in the background and returns at once.
// The work outlives ctx cancellation; outcomes are only logged.
func (s *ImportService) StartImport(ctx context.Context, data []byte, fileName string) Accepted {
	importID := uuid.New()
	bg := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.runGuarded(bg, importID, data, fileName)
	}()

	return Accepted{
		StatusCode: http.StatusAccepted,
		Message:    fmt.Sprintf("import of %s accepted and processing in background", fileName),
		ImportID:   importID,
	}
}

// Wait blocks until every background import has finished.
func (s *ImportService) Wait() {
	s.wg.Wait()
}

// Run imports synchronously and returns the summary. The error reports an aborted
// or unreadable import; record failures only show up in the summary.
func (s *ImportService) Run(ctx context.Context, data []byte, fileName string) (Summary, error) {
	return s.runGuarded(ctx, uuid.New(), data, fileName)
}

func (s *ImportService) runGuarded(ctx context.Context, importID uuid.UUID, data []byte, fileName string) (summary Summary, err error) {
	started := time.Now()
	summary = Summary{ImportID: importID, FileName: fileName}
	logger := s.logger.WithFields(logrus.Fields{"import_id": importID, "file": fileName})
	ctx = composables.WithLogger(ctx, logger)

	ctx, span := s.tracer.Start(ctx, "review.import", trace.WithAttributes(
		attribute.String("import.id", importID.String()),
		attribute.String("import.file", fileName),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import panicked: %v", r)
			summary.Status = ImportCrashed
			logger.WithField("stack", string(debug.Stack())).WithError(err).Error("import crashed")
		}
		summary.Duration = time.Since(started)
		if err != nil {
			summary.Error = err.Error()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.finish(logger, summary, err)
	}()

	err = s.run(ctx, &summary, data)
	return summary, err
}

func (s *ImportService) finish(logger *logrus.Entry, summary Summary, err error) {
	entry := logger.WithFields(summary.fields())
	switch {
	case err == nil:
		entry.Info("import finished")
	case errors.Is(err, person.ErrProfileIncomplete):
		entry.WithError(err).Warn("import aborted")
	default:
		entry.WithError(err).Error("import failed")
	}
	if s.publisher != nil {
		s.publisher.Publish(&ImportCompletedEvent{Summary: summary})
	}
}

func (s *ImportService) run(ctx context.Context, summary *Summary, data []byte) error {
	summary.Status = ImportAborted

	wb, err := excel.Open(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreadableWorkbook, err)
	}
	defer func() { _ = wb.Close() }()

	dto, err := profileFromSheet(excel.ExtractSheet(wb, SheetProfile))
	if err != nil {
		return err
	}
	subjectPerson, err := s.resolver.UpsertPerson(ctx, dto)
	if err != nil {
		return fmt.Errorf("upsert profile person: %w", err)
	}
	summary.Subject = subjectPerson.Email()

	c, err := s.resolver.UpsertCycle(ctx, dto.CycleLabel)
	if err != nil {
		return fmt.Errorf("upsert cycle: %w", err)
	}
	summary.Cycle = c.Label()
	subject := Subject{Person: subjectPerson, Cycle: c}

	if rows := excel.ExtractSheet(wb, SheetSelf); len(rows) > 0 {
		o := s.guard(ctx, "self_review", func(ctx context.Context) Outcome {
			return s.writer.WriteSelfReview(ctx, subject, selfRows(rows))
		})
		summary.SelfReviews.Add(o)
		summary.Warnings += o.Warnings
	}

	peerRows, dropped := s.peerRows(ctx, excel.ExtractSheet(wb, SheetPeer))
	summary.Warnings += dropped
	groups := review.GroupByKey(peerRows, func(r PeerRow) string { return person.NormalizeEmail(r.EvaluatedEmail) })
	for _, email := range groups.Keys() {
		group := groups.Get(email)
		summary.PeerReviews.Add(s.guard(ctx, "peer_review", func(ctx context.Context) Outcome {
			return s.importPeerGroup(ctx, subject, email, group)
		}))
	}

	refRows, dropped := s.referenceRows(ctx, excel.ExtractSheet(wb, SheetReferences))
	summary.Warnings += dropped
	for _, row := range refRows {
		summary.References.Add(s.guard(ctx, "reference", func(ctx context.Context) Outcome {
			return s.importReference(ctx, subject, row)
		}))
	}

	summary.Status = ImportCompleted
	return nil
}

// guard is the per-record failure boundary: a panic fails only the current record.
func (s *ImportService) guard(ctx context.Context, record string, fn func(context.Context) Outcome) (out Outcome) {
	ctx, span := s.tracer.Start(ctx, "review.import."+record)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s panicked: %v", record, r)
			if logger, lerr := composables.UseLogger(ctx); lerr == nil {
				logger.WithField("stack", string(debug.Stack())).WithError(err).Error("record crashed")
			}
			out = failed(err)
		}
		span.SetAttributes(attribute.String("outcome", string(out.Status)))
		if out.Status == OutcomeFailed {
			span.SetStatus(codes.Error, out.Reason)
		}
	}()
	return fn(ctx)
}

func (s *ImportService) importPeerGroup(ctx context.Context, subject Subject, email string, rows []PeerRow) Outcome {
	evaluated, err := s.resolver.EnsurePerson(ctx, email)
	if err != nil {
		return failed(fmt.Errorf("resolve evaluated %s: %w", email, err))
	}

	var projectID uuid.NullUUID
	if name := firstProjectName(rows); name != "" {
		p, err := s.resolver.UpsertProject(ctx, name)
		if err != nil {
			return failed(fmt.Errorf("upsert project %q: %w", name, err))
		}
		projectID = uuid.NullUUID{UUID: p.ID(), Valid: true}
		for _, personID := range []uuid.UUID{subject.Person.ID(), evaluated.ID()} {
			if _, err := s.resolver.UpsertAllocation(ctx, personID, p.ID(), subject.Cycle.StartDate(), subject.Cycle.EndDate()); err != nil {
				return failed(fmt.Errorf("upsert allocation on %q: %w", name, err))
			}
		}
	}

	answers := make([]review.PeerAnswer, 0, len(rows))
	for _, r := range rows {
		answers = append(answers, review.PeerAnswer{
			Score:          r.Score,
			Strengths:      r.Strengths,
			Weaknesses:     r.Weaknesses,
			WouldWorkAgain: r.WouldWorkAgain,
		})
	}
	return s.writer.WritePeerReview(ctx, subject, evaluated, projectID, review.AggregatePeer(answers))
}

func (s *ImportService) importReference(ctx context.Context, subject Subject, row ReferenceRow) Outcome {
	nominee, err := s.resolver.EnsurePerson(ctx, row.Email)
	if err != nil {
		return failed(fmt.Errorf("resolve reference %s: %w", row.Email, err))
	}
	return s.writer.WriteReference(ctx, subject, nominee, row.Justification)
}

func (s *ImportService) peerRows(ctx context.Context, rows []excel.Row) ([]PeerRow, int) {
	out := make([]PeerRow, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		email, err := r.Exact(HeaderEvaluatedEmail)
		if err != nil {
			s.warnRow(ctx, SheetPeer, r, err)
			dropped++
			continue
		}
		out = append(out, PeerRow{
			Line:           r.Line(),
			EvaluatedEmail: email,
			ProjectName:    excel.Optional(r.Fuzzy(fragmentProject)),
			Score:          excel.Optional(r.Fuzzy(fragmentScore)),
			Weaknesses:     excel.Optional(r.Fuzzy(fragmentImprovement)),
			Strengths:      excel.Optional(r.Fuzzy(fragmentStrength)),
			WouldWorkAgain: excel.Optional(r.Fuzzy(fragmentWouldWorkAgain)),
		})
	}
	return out, dropped
}

func (s *ImportService) referenceRows(ctx context.Context, rows []excel.Row) ([]ReferenceRow, int) {
	out := make([]ReferenceRow, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		email, err := r.Exact(HeaderReferenceEmail)
		if err != nil {
			s.warnRow(ctx, SheetReferences, r, err)
			dropped++
			continue
		}
		out = append(out, ReferenceRow{
			Line:          r.Line(),
			Email:         email,
			Justification: excel.Optional(r.Fuzzy(fragmentJustification)),
		})
	}
	return out, dropped
}

func (s *ImportService) warnRow(ctx context.Context, sheet string, r excel.Row, err error) {
	logger, lerr := composables.UseLogger(ctx)
	if lerr != nil {
		logger = logrus.NewEntry(s.logger)
	}
	logger.WithFields(logrus.Fields{"sheet": sheet, "line": r.Line()}).WithError(err).Warn("skipping row")
}

// profileFromSheet reads the single subject row. Mandatory fields are checked by the person service.
func profileFromSheet(rows []excel.Row) (*person.ProfileDTO, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no %s row", person.ErrProfileIncomplete, SheetProfile)
	}
	r := rows[0]
	return &person.ProfileDTO{
		Email:      excel.Optional(r.Exact(HeaderEmail)),
		FullName:   excel.Optional(r.Exact(HeaderFullName)),
		Unit:       excel.Optional(r.Exact(HeaderUnit)),
		CycleLabel: excel.Optional(r.Exact(HeaderCycleLabel)),
		Role:       excel.Optional(r.Exact(HeaderRole)),
		Track:      excel.Optional(r.Exact(HeaderTrack)),
	}, nil
}

func selfRows(rows []excel.Row) []SelfRow {
	out := make([]SelfRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, SelfRow{
			Line:          r.Line(),
			Criterion:     excel.Optional(r.Fuzzy(fragmentCriterion)),
			Score:         excel.Optional(r.Fuzzy(fragmentScore)),
			Justification: excel.Optional(r.Fuzzy(fragmentJustification)),
		})
	}
	return out
}

func firstProjectName(rows []PeerRow) string {
	for _, r := range rows {
		if r.ProjectName != "" {
			return r.ProjectName
		}
	}
	return ""
}
