package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/ffdata/internal/aggregator"
	"github.com/stitts-dev/ffdata/internal/export"
	"github.com/stitts-dev/ffdata/internal/identity"
	"github.com/stitts-dev/ffdata/internal/inputs"
	"github.com/stitts-dev/ffdata/internal/metrics"
	"github.com/stitts-dev/ffdata/internal/models"
	"github.com/stitts-dev/ffdata/internal/providers"
	"github.com/stitts-dev/ffdata/internal/risk"
	"github.com/stitts-dev/ffdata/internal/schedule"
	"github.com/stitts-dev/ffdata/internal/upload"
	"github.com/stitts-dev/ffdata/internal/validator"
	"github.com/stitts-dev/ffdata/pkg/logger"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

// Options control a single pipeline run.
type Options struct {
	Season              int
	OutputDir           string
	OutputFormat        string
	Validate            bool
	Strict              bool
	Upload              bool
	ADPMinPlayers       int
	AggregateMinPlayers int
	PushgatewayURL      string
}

// Publisher uploads a finished artifact.
type Publisher interface {
	Publish(ctx context.Context, path string) ([]string, error)
}

// Notifier announces a finished run.
type Notifier interface {
	Notify(ctx context.Context, summary upload.RunSummary) error
}

// Dependencies are the collaborators a run is wired with. RiskFile,
// ScheduleFile, Publisher, Notifier and Metrics are optional.
type Dependencies struct {
	Sources    []providers.ProjectionSource
	ADP        providers.ADPSource
	Normalizer *identity.Normalizer
	Keys       identity.KeyResolver
	Aggregator *aggregator.Aggregator
	Validator  *validator.Validator
	Risk       *risk.Calculator
	Schedule   *schedule.Analyzer

	RiskFile     *inputs.RiskFile
	ScheduleFile *inputs.ScheduleFile

	Publisher Publisher
	Notifier  Notifier
	Metrics   *metrics.Recorder
	Logger    *logrus.Logger
}

// Result describes a completed run.
type Result struct {
	RunID      string
	OutputPath string
	Players    []models.EnhancedPlayer
	Sources    []string
	Warnings   []string
	Objects    []string
}

type Pipeline struct {
	opts   Options
	deps   Dependencies
	mapper *providers.Mapper
}

func New(opts Options, deps Dependencies) *Pipeline {
	if opts.ADPMinPlayers == 0 {
		opts.ADPMinPlayers = validator.DefaultADPMinPlayers
	}
	if opts.AggregateMinPlayers == 0 {
		opts.AggregateMinPlayers = validator.DefaultAggregateMinPlayers
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = export.FormatArray
	}
	if deps.Keys == nil {
		deps.Keys = deps.Normalizer
	}
	if deps.Logger == nil {
		deps.Logger = logger.GetLogger()
	}
	return &Pipeline{
		opts:   opts,
		deps:   deps,
		mapper: providers.NewMapper(deps.Normalizer, deps.Keys),
	}
}

// fetchResult is one source's fetch outcome.
type fetchResult struct {
	index int
	name  string
	rows  []providers.RawPlayerRow
	err   error
}

// Run executes one batch: fetch, validate, aggregate, export and publish.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := logger.WithRun(p.deps.Logger, res.RunID, p.opts.Season)
	log.WithField("sources", len(p.deps.Sources)).Info("Starting data pipeline")

	err := p.run(ctx, log, res)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
		log.WithError(err).Error("Pipeline failed")
	}
	if p.deps.Metrics != nil {
		p.deps.Metrics.RecordRun(outcome, len(res.Players), len(res.Warnings), time.Since(start))
		if p.opts.PushgatewayURL != "" {
			if perr := p.deps.Metrics.Push(ctx, p.opts.PushgatewayURL, p.opts.Season); perr != nil {
				log.WithError(perr).Warn("Metrics push failed")
			}
		}
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"players":  len(res.Players),
		"output":   res.OutputPath,
		"warnings": len(res.Warnings),
		"elapsed":  time.Since(start).String(),
	}).Info("Pipeline complete")
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log *logrus.Entry, res *Result) error {
	sets := p.collectProjections(ctx, log, res)

	adp, err := p.collectADP(ctx, log, res)
	if err != nil {
		return err
	}

	if !hasProjections(sets) {
		return utils.NewAppError(utils.ErrCodeNoData, "no usable projections", "every source failed or was empty")
	}

	var scheduleScores map[string]models.ScheduleScore
	if p.deps.ScheduleFile != nil {
		var skipped int
		scheduleScores, skipped = inputs.BuildScheduleScores(p.deps.ScheduleFile, p.deps.Schedule, p.deps.Normalizer)
		log.WithFields(logrus.Fields{"teams": len(scheduleScores), "skipped": skipped}).Info("Built schedule scores")
	}

	players := p.deps.Aggregator.Aggregate(sets, adp, nil, scheduleScores)
	if p.deps.RiskFile != nil {
		profiles, skipped := inputs.BuildRiskProfiles(p.deps.RiskFile, players, p.deps.Risk, p.deps.Normalizer, p.deps.Keys)
		log.WithFields(logrus.Fields{"profiles": len(profiles), "skipped": skipped}).Info("Built risk profiles")
		players = p.deps.Aggregator.Aggregate(sets, adp, profiles, scheduleScores)
	}

	if len(players) == 0 {
		return utils.NewAppError(utils.ErrCodeNoData, "no players matched ADP data")
	}
	res.Players = players

	if p.opts.Validate {
		result := p.deps.Validator.Aggregated(players, p.opts.AggregateMinPlayers)
		p.recordWarnings(log, res, "aggregate", result.Warnings)
	}

	path, err := export.Write(p.opts.OutputDir, p.opts.Season, p.opts.OutputFormat, players)
	if err != nil {
		return err
	}
	res.OutputPath = path
	log.WithField("output", path).Info("Exported projections")

	if !p.opts.Upload {
		return nil
	}
	if p.deps.Publisher == nil {
		return utils.NewAppError(utils.ErrCodeUpload, "upload requested but no publisher configured")
	}
	objects, err := p.deps.Publisher.Publish(ctx, path)
	if err != nil {
		return err
	}
	res.Objects = objects

	if p.deps.Notifier != nil {
		summary := upload.RunSummary{
			RunID:      res.RunID,
			Season:     p.opts.Season,
			Players:    len(res.Players),
			Sources:    res.Sources,
			Warnings:   len(res.Warnings),
			OutputPath: res.OutputPath,
			Objects:    res.Objects,
		}
		if err := p.deps.Notifier.Notify(ctx, summary); err != nil {
			log.WithError(err).Warn("Run notification failed")
		}
	}
	return nil
}

// fetchFromAllSources fetches every source in parallel and returns results
// in configuration order.
func (p *Pipeline) fetchFromAllSources(ctx context.Context) []fetchResult {
	var wg sync.WaitGroup
	results := make(chan fetchResult, len(p.deps.Sources))

	for i, src := range p.deps.Sources {
		wg.Add(1)
		go func(i int, src providers.ProjectionSource) {
			defer wg.Done()
			rows, err := src.Projections(ctx)
			results <- fetchResult{index: i, name: src.Name(), rows: rows, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]fetchResult, len(p.deps.Sources))
	for r := range results {
		ordered[r.index] = r
	}
	return ordered
}

// collectProjections maps and validates each source. A failing source is
// dropped from the run, never fatal.
func (p *Pipeline) collectProjections(ctx context.Context, log *logrus.Entry, res *Result) []aggregator.SourceProjections {
	var sets []aggregator.SourceProjections
	for _, fetched := range p.fetchFromAllSources(ctx) {
		srcLog := logger.WithSource(log, fetched.name)
		if fetched.err != nil {
			srcLog.WithError(fetched.err).Error("Failed to fetch projections")
			p.dropSource(res, fetched.name, "fetch", fetched.err.Error())
			continue
		}

		projs, skipped := p.mapper.MapProjections(fetched.rows, providers.ColumnsFor(fetched.name))
		srcLog.WithFields(logrus.Fields{
			"rows":    len(fetched.rows),
			"mapped":  len(projs),
			"skipped": skipped,
		}).Info("Mapped projections")

		if p.opts.Validate {
			result := p.deps.Validator.Projections(projs, p.opts.Strict)
			if !result.IsValid {
				srcLog.WithField("errors", result.Errors).Error("Source failed validation")
				p.dropSource(res, fetched.name, "validation", strings.Join(result.Errors, "; "))
				continue
			}
			p.recordWarnings(log, res, fetched.name, result.Warnings)
		}

		if p.deps.Metrics != nil {
			p.deps.Metrics.RecordSource(fetched.name, len(projs))
		}
		res.Sources = append(res.Sources, fetched.name)
		sets = append(sets, aggregator.SourceProjections{Source: fetched.name, Projections: projs})
	}
	return sets
}

// collectADP fetches and validates ADP. Any failure here fails the run.
func (p *Pipeline) collectADP(ctx context.Context, log *logrus.Entry, res *Result) ([]models.ADPData, error) {
	name := p.deps.ADP.Name()
	rows, err := p.deps.ADP.ADP(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ADP from %s: %w", name, err)
	}

	adp, skipped := p.mapper.MergeADP(rows)
	logger.WithSource(log, name).WithFields(logrus.Fields{
		"rows":    len(rows),
		"players": len(adp),
		"skipped": skipped,
	}).Info("Merged ADP")

	if p.opts.Validate {
		result := p.deps.Validator.ADP(adp, p.opts.ADPMinPlayers)
		if !result.IsValid {
			return nil, utils.NewAppError(utils.ErrCodeValidation, "ADP validation failed", strings.Join(result.Errors, "; "))
		}
		p.recordWarnings(log, res, name, result.Warnings)
	}
	return adp, nil
}

func (p *Pipeline) dropSource(res *Result, source, reason, detail string) {
	res.Warnings = append(res.Warnings, fmt.Sprintf("%s dropped (%s): %s", source, reason, detail))
	if p.deps.Metrics != nil {
		p.deps.Metrics.RecordSourceFailure(source, reason)
	}
}

func (p *Pipeline) recordWarnings(log *logrus.Entry, res *Result, scope string, warnings []string) {
	for _, w := range warnings {
		log.WithField("scope", scope).Warn(w)
		res.Warnings = append(res.Warnings, scope+": "+w)
	}
}

func hasProjections(sets []aggregator.SourceProjections) bool {
	for _, s := range sets {
		if len(s.Projections) > 0 {
			return true
		}
	}
	return false
}
