package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"quotesentinel/internal/model"
	"quotesentinel/internal/notifier"
	"quotesentinel/internal/portfolio"
	"quotesentinel/internal/recorder"
	"quotesentinel/internal/report"
	"quotesentinel/internal/strategy"
)

// State is the scheduler lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "RUNNING"
	}
	return "STOPPED"
}

// Sampler fetches one price sample per call.
type Sampler interface {
	Sample(ctx context.Context) (model.PriceSample, error)
}

// Notifier delivers operator messages. Optional.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options wires a Scheduler.
type Options struct {
	Interval   time.Duration
	Sampler    Sampler
	Rule       strategy.Rule
	Portfolio  *portfolio.Manager
	Recorder   recorder.Recorder
	Notifier   Notifier
	Assets     report.Assets
	ReportPath string
	RunID      string
	Log        *zap.Logger
}

// Scheduler drives the polling loop. It is the only writer of the portfolio.
type Scheduler struct {
	Cron       *cron.Cron
	Sampler    Sampler
	Rule       strategy.Rule
	Portfolio  *portfolio.Manager
	Recorder   recorder.Recorder
	Notifier   Notifier
	Assets     report.Assets
	ReportPath string
	RunID      string
	Interval   time.Duration
	Log        *zap.Logger
	Now        func() time.Time

	state  atomic.Int32
	notify sync.WaitGroup
}

// NewScheduler creates a new Scheduler in the STOPPED state.
func NewScheduler(opts Options) *Scheduler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log: log.Sugar()}
	rec := opts.Recorder
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Sampler:    opts.Sampler,
		Rule:       opts.Rule,
		Portfolio:  opts.Portfolio,
		Recorder:   rec,
		Notifier:   opts.Notifier,
		Assets:     opts.Assets,
		ReportPath: opts.ReportPath,
		RunID:      opts.RunID,
		Interval:   opts.Interval,
		Log:        log,
		Now:        time.Now,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Run polls immediately, then on every Interval, until ctx is cancelled.
// It then waits for an in-flight tick, transitions to STOPPED and emits
// the final report, which it returns.
func (s *Scheduler) Run(ctx context.Context) (model.FinalReport, error) {
	if !s.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return model.FinalReport{}, fmt.Errorf("scheduler already running")
	}
	s.Log.Info("scheduler started", zap.Duration("interval", s.Interval), zap.String("run_id", s.RunID))

	s.Tick(ctx)

	s.Cron.Schedule(cron.Every(s.Interval), cron.FuncJob(func() { s.Tick(ctx) }))
	s.Cron.Start()

	<-ctx.Done()
	return s.stop(), nil
}

func (s *Scheduler) stop() model.FinalReport {
	s.Log.Info("stop signal received, waiting for in-flight tick")
	<-s.Cron.Stop().Done()
	s.state.Store(int32(StateStopped))

	final := s.Portfolio.Final(s.RunID, s.Now())
	s.emitFinal(&final)
	s.notify.Wait()
	s.Log.Info("scheduler stopped", zap.Uint64("ticks", final.Ticks), zap.Uint64("trades", final.Trades))
	return final
}

// Tick runs one poll cycle. It returns the appended record, or an error when
// the tick was skipped. Skipped ticks never touch the portfolio or the log.
func (s *Scheduler) Tick(ctx context.Context) (*model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.State() != StateRunning {
		return nil, fmt.Errorf("scheduler is %s", s.State())
	}

	sample, err := s.Sampler.Sample(ctx)
	if err != nil {
		s.Log.Warn("price unavailable, skipping tick", zap.Error(err))
		return nil, err
	}

	state := s.Portfolio.State()
	prev := s.Portfolio.LastSample()
	d := s.Rule.Decide(prev, sample, s.Rule.CooldownElapsed(state, sample.Timestamp), state)
	rec := s.Portfolio.Append(sample, d)

	s.Log.Info("tick",
		zap.Time("timestamp", rec.Timestamp),
		zap.Float64("price", rec.Price),
		zap.Float64(s.Assets.Stable, rec.Stable),
		zap.Float64(s.Assets.Volatile, rec.Volatile),
		zap.Float64("value", rec.EstimatedValue),
	)
	if prev.Present() {
		s.Log.Debug("price change", zap.Float64("pct", rec.PctChange))
	}
	if rec.Action.IsTrade() {
		s.Log.Info("simulated trade triggered",
			zap.String("action", string(rec.Action)),
			zap.Float64("pct", rec.PctChange),
			zap.Float64("price", rec.Price))
		s.sendAsync(notifier.FormatTradeAlert(&rec, s.Assets))
	}

	if err := s.Recorder.RecordTick(&rec); err != nil {
		s.Log.Warn("persist tick failed, continuing with in-memory history", zap.Uint64("seq", rec.Seq), zap.Error(err))
	}
	return &rec, nil
}

// HandleCommand processes an operator command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatus(s.Portfolio.Snapshot(), s.Assets)
	case "/report":
		final := s.Portfolio.Final(s.RunID, s.Now())
		return notifier.FormatFinal(&final, s.Assets)
	default:
		return "Commands:\n• /status\n• /report"
	}
}

func (s *Scheduler) emitFinal(final *model.FinalReport) {
	if s.ReportPath != "" {
		if err := report.Write(s.ReportPath, final, s.Assets); err != nil {
			s.Log.Warn("write final report failed", zap.Error(err))
		} else {
			s.Log.Info("final report saved", zap.String("path", s.ReportPath))
		}
	}
	if err := s.Recorder.RecordFinal(final); err != nil {
		s.Log.Warn("persist final report failed", zap.Error(err))
	}
	s.Log.Info("final portfolio",
		zap.String(s.Assets.Stable, report.Fixed(final.Stable, 2)),
		zap.String(s.Assets.Volatile, report.Fixed(final.Volatile, 6)),
		zap.String("value", report.Fixed(final.EstimatedValue, 2)),
	)
	s.sendAsync(notifier.FormatFinal(final, s.Assets))
}

func (s *Scheduler) sendAsync(text string) {
	if s.Notifier == nil {
		return
	}
	s.notify.Add(1)
	go func() {
		defer s.notify.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Notifier.SendWithRetry(ctx, text, 2); err != nil {
			s.Log.Warn("send notification failed", zap.Error(err))
		}
	}()
}

// cronLogger routes cron's internal logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
