// Package screening runs the matching pipeline over a batch of resumes under
// a bounded admission gate.
package screening

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/domain"
	"github.com/spigell/cv-screener/internal/experience"
	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/metrics"
	"github.com/spigell/cv-screener/internal/requirements"
	"github.com/spigell/cv-screener/internal/textnorm"
)

// TextExtractor turns raw file bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// Deps are the collaborators of an Engine. Only Extractor is required.
type Deps struct {
	Extractor TextExtractor
	Profiles  ai.ProfileExtractor
	Grader    ai.Grader
	Suggester ai.RequirementSuggester
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	// Now is the clock used for open-ended date ranges.
	Now func() time.Time
}

type Engine struct {
	cfg          Config
	deps         Deps
	logger       *zap.Logger
	validator    *validator.Validate
	requirements *requirements.Extractor
	domainGate   *domain.Gate
	estimator    *experience.Estimator
}

func New(cfg Config, deps Deps) (*Engine, error) {
	if deps.Extractor == nil {
		return nil, errors.New("text extractor is required")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	cfg = cfg.withDefaults()

	return &Engine{
		cfg:          cfg,
		deps:         deps,
		logger:       log,
		validator:    newValidator(),
		requirements: requirements.NewExtractor(deps.Suggester, cfg.RequirementsTimeout, log),
		domainGate:   domain.NewGate(cfg.Domain),
		estimator:    &experience.Estimator{Now: now},
	}, nil
}

// batch is the read-only state shared by every pipeline of one Screen call.
type batch struct {
	id      string
	job     Job
	set     requirements.Set
	tokens  []string
	jobBag  textnorm.Bag
	jobText string
	logger  *zap.Logger
}

type outcome struct {
	candidate *Candidate
	err       error
}

// Screen validates the input, builds the requirement set and domain tokens
// once, then evaluates every file under gate. Per-file failures end up in
// Report.Errors; only invalid input returns an error.
func (e *Engine) Screen(ctx context.Context, gate *Gate, job Job, files []File) (*Report, error) {
	if err := e.validate(job, files); err != nil {
		return nil, err
	}
	if gate == nil {
		gate = NewGate(DefaultConcurrency)
	}

	started := time.Now()
	id := uuid.NewString()
	log := logger.WithFields(e.logger, zap.String(logger.FieldBatch, id))

	set := e.requirements.Extract(ctx, job.Title, job.Description)
	e.deps.Metrics.RequirementSet(string(set.Source))
	tokens := domain.Infer(job.Title, job.Description, e.cfg.Domain)

	log.Info("batch started",
		zap.Int("files", len(files)),
		zap.Int("concurrency", gate.Size()),
		zap.String("requirements_source", string(set.Source)),
		zap.Strings("must", requirements.Names(set.Must)),
		zap.Strings("domain_tokens", tokens),
	)

	b := &batch{
		id:      id,
		job:     job,
		set:     set,
		tokens:  tokens,
		jobBag:  textnorm.NewBag(job.Text()),
		jobText: job.Text(),
		logger:  log,
	}

	results := make([]outcome, len(files))
	var g errgroup.Group
	for i := range files {
		if err := gate.Acquire(ctx); err != nil {
			for j := i; j < len(files); j++ {
				results[j] = outcome{err: fmt.Errorf("not started: %w", err)}
			}
			break
		}
		e.deps.Metrics.Admitted()

		g.Go(func() error {
			defer func() {
				e.deps.Metrics.Released()
				gate.Release()
			}()
			results[i] = e.run(ctx, b, files[i], i)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		Candidates: make([]Candidate, 0, len(files)),
		Errors:     []FileError{},
		Meta: Meta{
			BatchID:      id,
			Requirements: set,
			DomainTokens: tokens,
		},
	}
	for i, res := range results {
		if res.err != nil {
			report.Errors = append(report.Errors, FileError{File: files[i].Name, Message: res.err.Error()})
			continue
		}
		report.Candidates = append(report.Candidates, *res.candidate)
	}
	rank(report.Candidates)

	took := time.Since(started)
	report.Meta.Stats = Stats{
		Files:        len(files),
		Succeeded:    len(report.Candidates),
		Failed:       len(report.Errors),
		PeakInFlight: gate.Peak(),
		Seconds:      took.Seconds(),
	}
	e.deps.Metrics.BatchDone(took)

	log.Info("batch finished",
		zap.Int("candidates", report.Meta.Stats.Succeeded),
		zap.Int("errors", report.Meta.Stats.Failed),
		zap.Int("peak_in_flight", report.Meta.Stats.PeakInFlight),
		zap.Duration("took", took),
	)

	return report, nil
}

// run evaluates one file and turns a panic into a per-file error.
func (e *Engine) run(ctx context.Context, b *batch, file File, order int) (res outcome) {
	started := time.Now()
	log := logger.ForFile(e.logger, b.id, file.Name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			res = outcome{err: fmt.Errorf("internal error: %v", r)}
		}
		status := metrics.StatusOK
		if res.err != nil {
			status = metrics.StatusError
			log.Warn("resume excluded", zap.Error(res.err))
		}
		e.deps.Metrics.FileDone(status, time.Since(started))
	}()

	candidate, err := e.evaluate(ctx, b, file, log)
	if err != nil {
		return outcome{err: err}
	}
	candidate.order = order
	e.deps.Metrics.Scored(candidate.MatchScore, candidate.DomainMismatch)
	return outcome{candidate: candidate}
}
