// Package molecule is the application service for SMILES parsing and
// structural analysis.  It sits between the HTTP, CLI and Kafka surfaces and
// the domain packages, and owns caching, persistence, graph export and
// batch archiving.
package molecule

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/domain/smiles"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Service defines the molecule application operations.
type Service interface {
	Parse(ctx context.Context, input string) (*domainMol.Molecule, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, reqs []AnalyzeRequest) (*BatchReport, error)
	GetAnalysis(ctx context.Context, id string) (*AnalysisResult, error)
	// FindAnalyses lists stored analyses of an input string, newest first.
	FindAnalyses(ctx context.Context, smiles string, limit int) ([]*AnalysisResult, error)
}

// History listing limits for FindAnalyses.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Cache is the read-through cache used for analyses.  hit reports whether
// dest was filled from the cache rather than by loader.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest any, ttl time.Duration, loader func(ctx context.Context) (any, error)) (hit bool, err error)
}

// ReportArchive stores batch reports as JSON objects and returns their location.
type ReportArchive interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config holds the service defaults and limits.
type Config struct {
	RingMaxLength int
	TieBreak      string
	Workers       int
	BatchWorkers  int
	MaxBatchSize  int
	CacheTTL      time.Duration
	// Timeout bounds a single analysis.  Zero means no timeout.
	Timeout time.Duration
	// ReportURLExpiry is the lifetime of archived report download links.
	// Zero disables presigning.
	ReportURLExpiry time.Duration
}

// Deps are the collaborators of the service.  Only Parser is required;
// nil optional collaborators disable the matching feature.
type Deps struct {
	Parser  *smiles.Parser
	Cache   Cache
	Store   domainMol.AnalysisRepository
	Graph   domainMol.GraphRepository
	Archive ReportArchive
	Metrics *prometheus.AppMetrics
	Logger  logging.Logger

	// Clock and NewID are overridable for tests.
	Clock func() time.Time
	NewID func() string
}

type serviceImpl struct {
	cfg     Config
	parser  *smiles.Parser
	cache   Cache
	store   domainMol.AnalysisRepository
	graph   domainMol.GraphRepository
	archive ReportArchive
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	clock   func() time.Time
	newID   func() string
}

// NewService creates the molecule application service.
func NewService(cfg Config, deps Deps) Service {
	if cfg.TieBreak == "" {
		cfg.TieBreak = domainMol.TieBreakNameAll
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = 1
	}
	s := &serviceImpl{
		cfg:     cfg,
		parser:  deps.Parser,
		cache:   deps.Cache,
		store:   deps.Store,
		graph:   deps.Graph,
		archive: deps.Archive,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		clock:   deps.Clock,
		newID:   deps.NewID,
	}
	if s.parser == nil {
		s.parser = smiles.NewParser(smiles.DefaultOptions())
	}
	if s.metrics == nil {
		s.metrics = prometheus.NewNoopMetrics()
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Parse
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Parse(ctx context.Context, input string) (*domainMol.Molecule, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "parse cancelled")
	}

	start := s.clock()
	m, err := s.parser.Parse(input)
	elapsed := time.Since(start)
	if err != nil {
		code := errors.GetCode(err)
		prometheus.RecordParse(s.metrics, code.String(), elapsed, 0)
		fields := []logging.Field{logging.Int("length", len(input)), logging.Code(err), logging.Err(err)}
		var pe *smiles.ParseError
		if errors.As(err, &pe) {
			fields = append(fields, logging.Int("offset", pe.Offset))
		}
		s.logger.Warn("smiles parse failed", fields...)
		return nil, err
	}

	prometheus.RecordParse(s.metrics, "", elapsed, m.AtomCount())
	s.logger.Debug("smiles parsed",
		logging.Int("length", len(input)),
		logging.Int("atoms", m.AtomCount()),
		logging.Int("bonds", m.BondCount()),
		logging.Duration("elapsed", elapsed))
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Analyze
// ─────────────────────────────────────────────────────────────────────────────

// resolve applies service defaults to req and validates the options.
func (s *serviceImpl) resolve(req AnalyzeRequest) (AnalyzeRequest, error) {
	if req.RingMaxLength < 0 {
		return req, errors.Newf(errors.ErrCodeRingLimitInvalid, "ring_max_length must be >= 0, got %d", req.RingMaxLength)
	}
	if req.RingMaxLength == 0 {
		req.RingMaxLength = s.cfg.RingMaxLength
	}
	if req.TieBreak == "" {
		req.TieBreak = s.cfg.TieBreak
	}
	if _, err := domainMol.TieBreakByName(req.TieBreak); err != nil {
		return req, errors.New(errors.ErrCodeTieBreakUnsupported, "unsupported chain tie-break policy").
			WithDetail(req.TieBreak)
	}
	return req, nil
}

// cacheKey identifies an analysis by its input and resolved options.
func cacheKey(req AnalyzeRequest) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", req.RingMaxLength, req.TieBreak, req.SMILES)))
	return "analysis:" + hex.EncodeToString(sum[:])
}

func (s *serviceImpl) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	req, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		a, err := s.compute(ctx, req)
		if err != nil {
			return nil, err
		}
		return &AnalysisResult{Analysis: *a}, nil
	}

	var (
		cached  domainMol.Analysis
		loadErr error
	)
	hit, err := s.cache.GetOrSet(ctx, cacheKey(req), &cached, s.cfg.CacheTTL, func(ctx context.Context) (any, error) {
		a, err := s.compute(ctx, req)
		loadErr = err
		return a, err
	})
	switch {
	case err == nil:
		prometheus.RecordCacheAccess(s.metrics, hit)
		return &AnalysisResult{Analysis: cached, Cached: hit}, nil
	case loadErr != nil:
		return nil, loadErr
	case errors.IsParseError(errors.GetCode(err)):
		// A concurrent identical request failed to parse.
		return nil, err
	}

	s.logger.Warn("analysis cache unavailable, computing directly", logging.Err(err))
	prometheus.RecordError(s.metrics, "cache", errors.GetCode(err).String())
	a, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Analysis: *a}, nil
}

// compute parses and analyses req, then exports and persists the result.
// An exported graph whose analysis fails to persist is removed again.
func (s *serviceImpl) compute(ctx context.Context, req AnalyzeRequest) (*domainMol.Analysis, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	m, err := s.Parse(ctx, req.SMILES)
	if err != nil {
		return nil, err
	}

	timer := prometheus.NewTimer(s.metrics.AnalysisDuration.WithLabelValues("structure"))
	a, err := domainMol.Analyze(ctx, m, domainMol.AnalysisOptions{
		RingMaxLength: req.RingMaxLength,
		TieBreak:      req.TieBreak,
		Workers:       s.cfg.Workers,
	})
	elapsed := timer.ObserveDuration()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "analysis timed out")
		}
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisFailed, "structural analysis failed")
	}
	a.ID = s.newID()
	a.SMILES = req.SMILES
	a.CreatedAt = s.clock().UTC()

	s.metrics.RingsFound.WithLabelValues().Observe(float64(a.RingCount()))
	s.metrics.ChainLength.WithLabelValues().Observe(float64(a.LongestChainLength))

	exported := false
	if s.graph != nil {
		start := time.Now()
		err := s.graph.SaveGraph(ctx, a.ID, m)
		prometheus.RecordStoreOperation(s.metrics, "neo4j", "export", time.Since(start), err)
		if err != nil {
			s.logger.Warn("graph export failed", logging.String("id", a.ID), logging.Err(err))
		}
		exported = err == nil
	}
	if s.store != nil {
		start := time.Now()
		err := s.store.Save(ctx, a)
		prometheus.RecordStoreOperation(s.metrics, "postgres", "save", time.Since(start), err)
		if err != nil {
			s.logger.Error("failed to persist analysis", logging.String("id", a.ID), logging.Err(err))
			if exported {
				s.dropGraph(ctx, a.ID)
			}
			return nil, errors.Wrap(err, errors.CodeUnknown, "failed to persist analysis")
		}
	}

	s.logger.Debug("analysis complete",
		logging.String("id", a.ID),
		logging.Int("rings", a.RingCount()),
		logging.Int("longest_chain", a.LongestChainLength),
		logging.Duration("elapsed", elapsed))
	return a, nil
}

// dropGraph removes an exported graph whose analysis was never stored.
func (s *serviceImpl) dropGraph(ctx context.Context, id string) {
	start := time.Now()
	err := s.graph.DeleteGraph(ctx, id)
	prometheus.RecordStoreOperation(s.metrics, "neo4j", "delete", time.Since(start), err)
	if err != nil {
		s.logger.Warn("failed to remove orphaned graph", logging.String("id", id), logging.Err(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Batch
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) AnalyzeBatch(ctx context.Context, reqs []AnalyzeRequest) (*BatchReport, error) {
	if s.cfg.MaxBatchSize > 0 && len(reqs) > s.cfg.MaxBatchSize {
		return nil, errors.Newf(errors.ErrCodeBatchTooLarge, "batch of %d exceeds the limit of %d", len(reqs), s.cfg.MaxBatchSize)
	}
	start := s.clock()
	s.metrics.BatchSize.WithLabelValues().Observe(float64(len(reqs)))

	report := &BatchReport{
		ID:        s.newID(),
		Items:     make([]BatchItem, len(reqs)),
		CreatedAt: start.UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchWorkers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			item := BatchItem{Index: i, SMILES: req.SMILES}
			res, err := s.Analyze(gctx, req)
			if err != nil {
				item.Error = NewItemError(err)
			} else {
				item.Result = res
			}
			report.Items[i] = item
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "batch analysis cancelled")
	}

	for _, item := range report.Items {
		if item.Error != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	report.Duration = time.Since(start).String()

	if s.archive != nil {
		key := fmt.Sprintf("batches/%s/%s.json", report.CreatedAt.Format("2006/01/02"), report.ID)
		began := time.Now()
		loc, err := s.archive.PutJSON(ctx, key, report)
		prometheus.RecordStoreOperation(s.metrics, "minio", "archive", time.Since(began), err)
		if err != nil {
			s.logger.Error("failed to archive batch report", logging.String("batch_id", report.ID), logging.Err(err))
			return nil, errors.Wrap(err, errors.ErrCodeReportArchiveFailed, "failed to archive batch report")
		}
		report.ArchiveLocation = loc
		if s.cfg.ReportURLExpiry > 0 {
			link, err := s.archive.PresignedURL(ctx, key, s.cfg.ReportURLExpiry)
			if err != nil {
				s.logger.Warn("failed to presign batch report", logging.String("batch_id", report.ID), logging.Err(err))
			} else {
				report.DownloadURL = link
			}
		}
	}

	s.logger.Info("batch analysis complete",
		logging.String("batch_id", report.ID),
		logging.Int("items", len(reqs)),
		logging.Int("failed", report.Failed))
	return report, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookup
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) GetAnalysis(ctx context.Context, id string) (*AnalysisResult, error) {
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis persistence is not configured")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeMoleculeNotFound, "analysis not found").WithDetail(id)
	}
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Analysis: *a, Cached: false}, nil
}

func (s *serviceImpl) FindAnalyses(ctx context.Context, input string, limit int) ([]*AnalysisResult, error) {
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis persistence is not configured")
	}
	if input == "" {
		return nil, errors.New(errors.ErrCodeValidation, "smiles is required")
	}
	switch {
	case limit < 0:
		return nil, errors.Newf(errors.ErrCodeValidation, "limit must be >= 0, got %d", limit)
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	start := time.Now()
	found, err := s.store.FindBySMILES(ctx, input, limit)
	prometheus.RecordStoreOperation(s.metrics, "postgres", "find", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	out := make([]*AnalysisResult, len(found))
	for i, a := range found {
		out[i] = &AnalysisResult{Analysis: *a}
	}
	return out, nil
}
