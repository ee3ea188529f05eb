package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/ffdata/internal/aggregator"
	"github.com/stitts-dev/ffdata/internal/export"
	"github.com/stitts-dev/ffdata/internal/identity"
	"github.com/stitts-dev/ffdata/internal/inputs"
	"github.com/stitts-dev/ffdata/internal/metrics"
	"github.com/stitts-dev/ffdata/internal/providers"
	"github.com/stitts-dev/ffdata/internal/risk"
	"github.com/stitts-dev/ffdata/internal/schedule"
	"github.com/stitts-dev/ffdata/internal/upload"
	"github.com/stitts-dev/ffdata/internal/validator"
	"github.com/stitts-dev/ffdata/pkg/logger"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

type fakeSource struct {
	name  string
	rows  []providers.RawPlayerRow
	adp   []providers.RawADPRow
	err   error
	delay time.Duration
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Projections(ctx context.Context) ([]providers.RawPlayerRow, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.rows, s.err
}

func (s *fakeSource) ADP(ctx context.Context) ([]providers.RawADPRow, error) {
	return s.adp, s.err
}

type fakePublisher struct {
	path string
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, path string) ([]string, error) {
	p.path = path
	if p.err != nil {
		return nil, p.err
	}
	return []string{upload.LatestKey, "history/2025-08-01_12-00-00.json"}, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	summary *upload.RunSummary
	err     error
}

func (n *fakeNotifier) Notify(ctx context.Context, summary upload.RunSummary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summary = &summary
	return n.err
}

func espnSource() *fakeSource {
	return &fakeSource{
		name: "ESPN",
		rows: []providers.RawPlayerRow{
			{Name: "Christian McCaffrey", Position: "RB", Team: "SF", Stats: map[string]float64{"Rushing_Yards": 1200, "Receiving_Yards": 500}},
			{Name: "Bijan Robinson", Position: "RB", Team: "ATL", Stats: map[string]float64{"Rushing_Yards": 1100}},
			{Name: "49ers D/ST", Position: "D/ST", Team: "SF", Stats: map[string]float64{"Sacks": 45}},
			{Name: "Some Free Agent", Position: "WR", Team: "FA", Stats: map[string]float64{"Receiving_Yards": 300}},
		},
	}
}

func cbsSource() *fakeSource {
	return &fakeSource{
		name: "CBS",
		rows: []providers.RawPlayerRow{
			{Name: "Christian McCaffrey", Position: "RB", Team: "San Francisco", Stats: map[string]float64{"rushing_yards": 1000}},
			{Name: "Josh Allen", Position: "QB", Team: "BUF", Stats: map[string]float64{"passing_yards": 4000}},
		},
	}
}

func adpRows(name, pos, team string, bye int, std, half, ppr float64) []providers.RawADPRow {
	return []providers.RawADPRow{
		{Name: name, Position: pos, Team: team, Bye: bye, Format: providers.FormatStandard, ADP: std},
		{Name: name, Position: pos, Team: team, Bye: bye, Format: providers.FormatHalfPPR, ADP: half},
		{Name: name, Position: pos, Team: team, Bye: bye, Format: providers.FormatPPR, ADP: ppr},
	}
}

func adpSource() *fakeSource {
	var rows []providers.RawADPRow
	rows = append(rows, adpRows("Josh Allen", "QB", "BUF", 7, 20.1, 22.4, 24.0)...)
	rows = append(rows, adpRows("Christian McCaffrey", "RB", "SF", 9, 1.5, 1.4, 1.2)...)
	rows = append(rows, adpRows("Bijan Robinson", "RB", "ATL", 5, 3.2, 3.0, 2.9)...)
	rows = append(rows, adpRows("49ers D/ST", "DST", "SF", 9, 150, 152, 155)...)
	return &fakeSource{name: "FantasyPros", adp: rows}
}

func testDeps(sources ...providers.ProjectionSource) Dependencies {
	n := identity.NewDefaultNormalizer()
	return Dependencies{
		Sources:    sources,
		ADP:        adpSource(),
		Normalizer: n,
		Aggregator: aggregator.NewDefault(),
		Validator:  validator.New(validator.DefaultPositions(), n),
		Risk:       risk.NewDefaultCalculator(),
		Schedule:   schedule.NewDefaultAnalyzer(),
		Metrics:    metrics.NewRecorder(),
		Logger:     logger.Discard(),
	}
}

func testOptions(t *testing.T) Options {
	return Options{
		Season:       2025,
		OutputDir:    t.TempDir(),
		OutputFormat: export.FormatArray,
	}
}

func TestRunAggregatesAndExports(t *testing.T) {
	p := New(testOptions(t), testDeps(espnSource(), cbsSource()))

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"ESPN", "CBS"}, res.Sources)

	keys := make([]string, len(res.Players))
	for i, player := range res.Players {
		keys[i] = player.Key
	}
	assert.Equal(t, []string{"mccaffrey_rb_sf", "robinson_rb_atl", "allen_qb_buf", "dst_dst_sf"}, keys)

	cmc := res.Players[0]
	assert.InDelta(t, 1105.26, cmc.RushYds, 0.001)
	assert.Equal(t, 500.0, cmc.RecYds)
	assert.Equal(t, 9, cmc.Bye)
	assert.Equal(t, 1.4, cmc.ADPHalfPPR)

	assert.Equal(t, filepath.Join(p.opts.OutputDir, "Projections-2025.json"), res.OutputPath)
	exported, err := export.Read(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, res.Players, exported)
}

func TestRunKeepsSourceOrderUnderConcurrency(t *testing.T) {
	slow := espnSource()
	slow.delay = 30 * time.Millisecond

	res, err := New(testOptions(t), testDeps(slow, cbsSource())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ESPN", "CBS"}, res.Sources)
}

func TestRunDropsFailingSource(t *testing.T) {
	broken := &fakeSource{name: "NFL", err: utils.ErrSourceUnavailable}
	deps := testDeps(espnSource(), broken)

	res, err := New(testOptions(t), deps).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ESPN"}, res.Sources)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "NFL dropped (fetch)")

	count, err := testutil.GatherAndCount(deps.Metrics.Registry(), "ffdata_source_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunFailsWithoutUsableSources(t *testing.T) {
	deps := testDeps(&fakeSource{name: "ESPN", err: errors.New("boom")}, &fakeSource{name: "CBS"})

	res, err := New(testOptions(t), deps).Run(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, utils.ErrNoUsableData)

	count, err := testutil.GatherAndCount(deps.Metrics.Registry(), "ffdata_pipeline_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunFailsWhenADPUnavailable(t *testing.T) {
	deps := testDeps(espnSource())
	deps.ADP = &fakeSource{name: "FantasyPros", err: utils.ErrSourceUnavailable}

	_, err := New(testOptions(t), deps).Run(context.Background())
	assert.ErrorIs(t, err, utils.ErrSourceUnavailable)
}

func TestRunFailsWhenNoPlayerHasADP(t *testing.T) {
	deps := testDeps(espnSource())
	deps.ADP = &fakeSource{name: "FantasyPros", adp: adpRows("Josh Allen", "QB", "BUF", 7, 20.1, 22.4, 24.0)}

	_, err := New(testOptions(t), deps).Run(context.Background())
	assert.ErrorIs(t, err, utils.ErrNoUsableData)
}

func TestRunValidation(t *testing.T) {
	n := identity.NewDefaultNormalizer()
	positions := []validator.Position{{Code: "RB", MinStrict: 2}}

	t.Run("short ADP list is fatal", func(t *testing.T) {
		opts := testOptions(t)
		opts.Validate = true

		deps := testDeps(espnSource())
		deps.Validator = validator.New(positions, n)

		_, err := New(opts, deps).Run(context.Background())
		assert.ErrorIs(t, err, utils.ErrValidationFailed)
	})

	t.Run("strict shortfall drops the source", func(t *testing.T) {
		opts := testOptions(t)
		opts.Validate = true
		opts.Strict = true
		opts.ADPMinPlayers = 4
		opts.AggregateMinPlayers = 10

		deps := testDeps(espnSource(), cbsSource())
		deps.Validator = validator.New(positions, n)

		res, err := New(opts, deps).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ESPN"}, res.Sources)
		assert.Contains(t, res.Warnings, "CBS dropped (validation): Insufficient RB: 1 < 2")
		assert.Contains(t, res.Warnings, "aggregate: Low player count: 3 < 10")
	})
}

func TestRunAppliesRiskAndSchedule(t *testing.T) {
	age := 29
	weeks := make([]schedule.Matchup, schedule.RegularSeasonWeeks)
	for i := range weeks {
		weeks[i] = schedule.Matchup{OpponentRank: 1}
	}

	deps := testDeps(espnSource(), cbsSource())
	deps.RiskFile = &inputs.RiskFile{Players: []inputs.PlayerHistory{{
		Name:         "Christian McCaffrey",
		Position:     "RB",
		Team:         "SF",
		GamesPlayed:  []int{4, 16, 11},
		Age:          &age,
		Status:       "questionable",
		WeeklyPoints: []float64{20, 24, 0, 28},
	}}}
	deps.ScheduleFile = &inputs.ScheduleFile{Teams: []inputs.TeamSchedule{
		{Team: "49ers", ByeWeek: 9, Weeks: weeks},
	}}

	res, err := New(testOptions(t), deps).Run(context.Background())
	require.NoError(t, err)

	cmc := res.Players[0]
	require.Equal(t, "mccaffrey_rb_sf", cmc.Key)

	wantInjury := risk.NewDefaultCalculator().InjuryScore([3]int{4, 16, 11}, &age, "RB", "questionable")
	assert.Equal(t, wantInjury, cmc.InjuryScore)
	assert.Greater(t, cmc.Floor, 0.0)
	assert.Less(t, cmc.Floor, cmc.Ceiling)

	wantSchedule := schedule.NewDefaultAnalyzer().ScoreFromMatchups("SF", weeks, 9)
	assert.Equal(t, wantSchedule.SOSOverall, cmc.SOSOverall)
	assert.Equal(t, wantSchedule.Adjustment(), cmc.ScheduleAdjustment)

	// Same team, no risk history: defaults with the team's schedule.
	dst := res.Players[3]
	assert.Equal(t, "dst_dst_sf", dst.Key)
	assert.Equal(t, 30, dst.InjuryScore)
	assert.Equal(t, 0.5, dst.ConsistencyScore)
	assert.Equal(t, wantSchedule.SOSOverall, dst.SOSOverall)

	bijan := res.Players[1]
	assert.Zero(t, bijan.SOSOverall)
}

func TestRunUploadsAndNotifies(t *testing.T) {
	opts := testOptions(t)
	opts.Upload = true

	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	deps := testDeps(espnSource())
	deps.Publisher = publisher
	deps.Notifier = notifier

	res, err := New(opts, deps).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, res.OutputPath, publisher.path)
	assert.Equal(t, []string{upload.LatestKey, "history/2025-08-01_12-00-00.json"}, res.Objects)
	require.NotNil(t, notifier.summary)
	assert.Equal(t, res.RunID, notifier.summary.RunID)
	assert.Equal(t, 2025, notifier.summary.Season)
	assert.Equal(t, 3, notifier.summary.Players)
}

func TestRunUploadFailures(t *testing.T) {
	opts := testOptions(t)
	opts.Upload = true

	t.Run("no publisher", func(t *testing.T) {
		_, err := New(opts, testDeps(espnSource())).Run(context.Background())
		assert.ErrorIs(t, err, utils.ErrUploadFailed)
	})

	t.Run("publish error", func(t *testing.T) {
		deps := testDeps(espnSource())
		deps.Publisher = &fakePublisher{err: utils.NewAppError(utils.ErrCodeUpload, "bucket gone")}
		_, err := New(opts, deps).Run(context.Background())
		assert.ErrorIs(t, err, utils.ErrUploadFailed)
	})

	t.Run("notification error is not fatal", func(t *testing.T) {
		deps := testDeps(espnSource())
		deps.Publisher = &fakePublisher{}
		deps.Notifier = &fakeNotifier{err: errors.New("topic gone")}
		_, err := New(opts, deps).Run(context.Background())
		assert.NoError(t, err)
	})
}

func TestRunPushesMetrics(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	opts := testOptions(t)
	opts.PushgatewayURL = server.URL

	_, err := New(opts, testDeps(espnSource())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/metrics/job/ffdata_pipeline/season/2025", path)
}
