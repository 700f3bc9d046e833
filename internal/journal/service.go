package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/emberworks/daybook/internal/journal"

// Store is the document persistence contract the service consumes. Read
// returns nil with no error when no document exists for the date.
type Store interface {
	Read(date string) (*Document, error)
	Write(date string, doc *Document) error
}

// Service exposes the lifecycle engine over persisted documents. Every
// mutating operation loads the day's document, sweeps overdue plans,
// applies its transformation, and writes the whole document back in one
// call (last writer wins).
type Service interface {
	// Day returns the swept document for a date, persisting sweep changes.
	Day(ctx context.Context, date string) (*Document, error)

	// LogEntry appends an entry at an hour or range. A logged task entry
	// additionally closes the earliest open plan for the same task.
	LogEntry(ctx context.Context, req *LogEntryRequest) (*LogEntryResponse, error)

	// CompletePlan runs the completion protocol against a plan id.
	CompletePlan(ctx context.Context, req *CompletePlanRequest) (*CompleteResult, error)

	// Replan reschedules an active task plan to a new hour or range.
	Replan(ctx context.Context, req *ReplanRequest) (*ReplanResult, error)

	// Close closes the service.
	Close() error
}

// LogEntryRequest describes an entry to append.
type LogEntryRequest struct {
	Date    string
	Address Address
	Mode    EntryMode

	// Task reference, or free text. Exactly one shape is filled.
	TaskID   string
	ListType ListType
	Text     string
}

// LogEntryResponse reports the appended entry and whether a plan was
// closed by back-linking.
type LogEntryResponse struct {
	Entry      *Entry `json:"entry"`
	PlanLinked bool   `json:"planLinked"`
}

// CompletePlanRequest addresses one plan for completion. Action is
// accepted for API compatibility; both values complete the plan.
type CompletePlanRequest struct {
	Date    string
	PlanID  string
	Address Address
	Action  PlanAction
}

// ReplanRequest moves the plan with FromPlanID to Dest.
type ReplanRequest struct {
	Date       string
	FromPlanID string
	Dest       Address
}

// Config configures the journal service.
type Config struct {
	// Clock supplies now; defaults to SystemClock.
	Clock Clock
	// IDs mints plan ids; defaults to UUIDGenerator.
	IDs IDGenerator
}

// DefaultServiceConfig returns production defaults.
func DefaultServiceConfig() *Config {
	return &Config{
		Clock: SystemClock{},
		IDs:   UUIDGenerator{},
	}
}

type service struct {
	config Config
	store  Store
	logger *zap.Logger

	tracer          trace.Tracer
	meter           metric.Meter
	sweepCounter    metric.Int64Counter
	completeCounter metric.Int64Counter
	replanCounter   metric.Int64Counter
	backlinkCounter metric.Int64Counter

	mu     sync.RWMutex
	closed bool
}

// NewService creates a journal service over a document store.
func NewService(cfg *Config, store Store, logger *zap.Logger) (Service, error) {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	if store == nil {
		return nil, errors.New("document store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.IDs == nil {
		cfg.IDs = UUIDGenerator{}
	}

	s := &service{
		config: *cfg,
		store:  store,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	s.initMetrics()

	return s, nil
}

func (s *service) initMetrics() {
	var err error

	s.sweepCounter, err = s.meter.Int64Counter(
		"daybook.journal.sweeps_changed_total",
		metric.WithDescription("Sweeps that reconciled at least one stale plan"),
		metric.WithUnit("{sweep}"),
	)
	if err != nil {
		s.logger.Warn("failed to create sweep counter", zap.Error(err))
	}

	s.completeCounter, err = s.meter.Int64Counter(
		"daybook.journal.plans_completed_total",
		metric.WithDescription("Plans closed through the completion protocol"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		s.logger.Warn("failed to create complete counter", zap.Error(err))
	}

	s.replanCounter, err = s.meter.Int64Counter(
		"daybook.journal.plans_replanned_total",
		metric.WithDescription("Plans rescheduled to a new hour or range"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		s.logger.Warn("failed to create replan counter", zap.Error(err))
	}

	s.backlinkCounter, err = s.meter.Int64Counter(
		"daybook.journal.plans_backlinked_total",
		metric.WithDescription("Plans closed by a logged occurrence of the same task"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		s.logger.Warn("failed to create backlink counter", zap.Error(err))
	}
}

func (s *service) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New("service is closed")
	}
	return nil
}

// load reads the document for a date, creating an empty one when absent,
// and sweeps it. Returns the document and whether the sweep changed it.
func (s *service) load(date string) (*Document, bool, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, false, err
	}

	doc, err := s.store.Read(date)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read journal %s: %w", date, err)
	}
	if doc == nil {
		doc = NewDocument(date)
	}

	changed, err := Sweep(doc, s.config.Clock.Now(), s.config.IDs)
	if err != nil {
		return nil, false, err
	}
	return doc, changed, nil
}

func (s *service) persist(ctx context.Context, doc *Document) error {
	if err := s.store.Write(doc.Date, doc); err != nil {
		return fmt.Errorf("failed to write journal %s: %w", doc.Date, err)
	}
	return nil
}

// Day returns the swept document for a date.
func (s *service) Day(ctx context.Context, date string) (*Document, error) {
	ctx, span := s.tracer.Start(ctx, "journal.day")
	defer span.End()
	span.SetAttributes(attribute.String("journal_date", date))

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	doc, swept, err := s.load(date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if swept {
		if err := s.persist(ctx, doc); err != nil {
			span.RecordError(err)
			return nil, err
		}
		if s.sweepCounter != nil {
			s.sweepCounter.Add(ctx, 1)
		}
		s.logger.Debug("persisted sweep changes", zap.String("date", date))
	}
	return doc, nil
}

// LogEntry appends an entry and back-links logged task occurrences.
func (s *service) LogEntry(ctx context.Context, req *LogEntryRequest) (*LogEntryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "journal.log_entry")
	defer span.End()
	span.SetAttributes(
		attribute.String("journal_date", req.Date),
		attribute.String("entry_mode", string(req.Mode)),
	)

	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := req.Address.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if req.Mode != ModePlanned && req.Mode != ModeLogged {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if req.TaskID == "" && req.Text == "" {
		return nil, ErrEmptyEntry
	}

	doc, _, err := s.load(req.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := s.config.Clock.Now()
	entry := &Entry{
		TaskID:    req.TaskID,
		ListType:  req.ListType,
		Text:      req.Text,
		EntryMode: req.Mode,
	}
	Normalize(entry, now, s.config.IDs)
	if err := doc.appendAt(req.Address, entry); err != nil {
		span.RecordError(err)
		return nil, err
	}

	linked := false
	if req.Mode == ModeLogged && req.TaskID != "" {
		ref := req.Address.LogRef(req.Date)
		linked = LinkEarliestActivePlan(doc, req.TaskID, ref, now, s.config.IDs)
		if linked && s.backlinkCounter != nil {
			s.backlinkCounter.Add(ctx, 1)
		}
	}

	if err := s.persist(ctx, doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.logger.Info("logged entry",
		zap.String("date", req.Date),
		zap.String("mode", string(req.Mode)),
		zap.String("task_id", req.TaskID),
		zap.Bool("plan_linked", linked),
	)

	return &LogEntryResponse{Entry: entry, PlanLinked: linked}, nil
}

// CompletePlan runs the completion protocol and persists the result.
func (s *service) CompletePlan(ctx context.Context, req *CompletePlanRequest) (*CompleteResult, error) {
	ctx, span := s.tracer.Start(ctx, "journal.complete_plan")
	defer span.End()
	span.SetAttributes(
		attribute.String("journal_date", req.Date),
		attribute.String("plan_id", req.PlanID),
	)

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	doc, _, err := s.load(req.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result, err := CompletePlan(doc, req.PlanID, req.Address, s.config.Clock.Now(), s.config.IDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.persist(ctx, doc); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if result.Outcome == CompleteDone && s.completeCounter != nil {
		s.completeCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("logged_created", result.LoggedCreated),
		))
	}

	s.logger.Info("completed plan",
		zap.String("date", req.Date),
		zap.String("plan_id", req.PlanID),
		zap.String("outcome", string(result.Outcome)),
		zap.Bool("logged_created", result.LoggedCreated),
	)

	span.SetAttributes(attribute.String("outcome", string(result.Outcome)))
	return &result, nil
}

// Replan reschedules a plan and persists the linked pair.
func (s *service) Replan(ctx context.Context, req *ReplanRequest) (*ReplanResult, error) {
	ctx, span := s.tracer.Start(ctx, "journal.replan")
	defer span.End()
	span.SetAttributes(
		attribute.String("journal_date", req.Date),
		attribute.String("from_plan_id", req.FromPlanID),
	)

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	doc, _, err := s.load(req.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result, err := Replan(doc, req.FromPlanID, req.Dest, s.config.Clock.Now(), s.config.IDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.persist(ctx, doc); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if result.Found && s.replanCounter != nil {
		s.replanCounter.Add(ctx, 1)
	}

	s.logger.Info("replanned",
		zap.String("date", req.Date),
		zap.String("from_plan_id", req.FromPlanID),
		zap.String("new_plan_id", result.NewPlanID),
		zap.Bool("found", result.Found),
	)

	return &result, nil
}

// Close closes the service.
func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return nil
}
