// SPDX-License-Identifier: MIT

package mcmc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/chronosim/rng"
)

var tracer = otel.Tracer("chronosim.mcmc")

// Scheduler runs the chains of one model.
//
// Thread Safety:
//
//	Run must be called from a single goroutine at a time (a concurrent call
//	returns ErrAlreadyRunning). Cancel, Phase, Chains, Log and RunID are safe
//	from any goroutine.
type Scheduler struct {
	model  Model
	cfg    RunConfiguration
	src    *rng.Source
	logger *slog.Logger
	rep    Reporter
	now    func() time.Time

	cancel  atomic.Bool
	running atomic.Bool
	phase   atomic.Int32

	mu     sync.RWMutex // guards chains, log and runID
	chains []ChainState
	log    strings.Builder
	runID  string
}

// NewScheduler returns a scheduler for model with a private copy of cfg.
// Chain records are created, zeroed, for every chain in cfg.
func NewScheduler(model Model, cfg RunConfiguration, opts ...Option) *Scheduler {
	s := &Scheduler{
		model:  model,
		cfg:    cfg.clone(),
		logger: slog.Default(),
		rep:    NopReporter{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = rng.New(rng.DefaultSeed)
	}
	s.resetChains()

	return s
}

// Config returns a copy of the run configuration.
func (s *Scheduler) Config() RunConfiguration { return s.cfg.clone() }

// Cancel requests cooperative cancellation. The worker stops at the start of
// its next iteration. A request made before Run starts applies to that run;
// the request is cleared when Run returns.
func (s *Scheduler) Cancel() { s.cancel.Store(true) }

// Phase returns the current phase and whether a run is in progress.
// The phase is meaningless when active is false.
func (s *Scheduler) Phase() (phase RunPhase, active bool) {
	return RunPhase(s.phase.Load()), s.running.Load()
}

// Chains returns a snapshot of every chain record.
func (s *Scheduler) Chains() []ChainState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ChainState, len(s.chains))
	copy(out, s.chains)

	return out
}

// Log returns the run log accumulated so far.
func (s *Scheduler) Log() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.log.String()
}

// RunID returns the identifier of the current or last run ("" before any).
func (s *Scheduler) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.runID
}

// Run executes calibration, every chain, then finalization.
//
// Description:
//
//	Chains run strictly in index order. For each chain: pick the seed
//	(explicit or fresh), reseed the random source, call the init hooks,
//	then burn, adapt and acquire. Cancellation is checked at the start of
//	every iteration of every phase. Finalize runs once, after the last
//	chain; a cancelled run skips it.
//
// Outputs:
//
//	error - nil on completion; ErrCancelled (possibly wrapping ctx.Err())
//	        on cancellation; ErrAlreadyRunning or ErrNilModel otherwise.
//
// Thread Safety: see Scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.model == nil {
		return ErrNilModel
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)
	defer s.cancel.Store(false)
	defer s.setPhase(PhaseIdle)

	s.resetChains()
	runID := uuid.NewString()
	s.mu.Lock()
	s.log.Reset()
	s.runID = runID
	s.mu.Unlock()

	logger := s.logger.With(slog.String("run_id", runID))
	ctx, span := tracer.Start(ctx, "mcmc.Run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("chains", s.cfg.NumChains),
		attribute.Int("max_iterations_per_chain", s.cfg.MaxIterationsPerChain()),
	))
	defer span.End()

	start := s.now()
	s.logf("Run %s", runID)
	logger.Info("mcmc: run started",
		slog.Int("chains", s.cfg.NumChains),
		slog.Int("max_iterations_per_chain", s.cfg.MaxIterationsPerChain()),
		slog.Int("retained_per_chain", s.cfg.Retained()),
	)

	if err := s.stopRequested(ctx); err != nil {
		return s.abort(span, logger, -1, err)
	}

	s.rep.PhaseChanged("Calibrating", 0, 0)
	calStart := s.now()
	calText := s.model.Calibrate(ctx)
	calElapsed := s.now().Sub(calStart)
	s.logf("Calibration time: %s", calElapsed.Round(time.Millisecond))
	if calText = strings.TrimSpace(calText); calText != "" {
		s.logf("%s", calText)
	}
	logger.Info("mcmc: calibration done", slog.Duration("elapsed", calElapsed))

	for c := 0; c < s.cfg.NumChains; c++ {
		if err := s.runChain(ctx, c, logger); err != nil {
			return s.abort(span, logger, c, err)
		}
	}

	s.rep.PhaseChanged("Computing posterior distributions", 0, 0)
	s.model.Finalize(s.Chains())

	total := s.now().Sub(start)
	s.logf("Total run time: %s", total.Round(time.Millisecond))
	logger.Info("mcmc: run completed",
		slog.Int("chains", s.cfg.NumChains),
		slog.Duration("elapsed", total),
	)
	runsTotal.WithLabelValues(outcomeCompleted).Inc()

	return nil
}

// runChain drives chain c through seed, init, burn, adapt and acquire.
func (s *Scheduler) runChain(ctx context.Context, c int, logger *slog.Logger) error {
	cfg := s.cfg
	cs := ChainState{
		Index:            c,
		ThinningInterval: cfg.ThinningInterval,
		Status:           ChainRunning,
	}
	if c < len(cfg.Seeds) {
		cs.Seed = cfg.Seeds[c]
	} else {
		cs.Seed = rng.CreateSeed()
	}
	s.src.Init(cs.Seed)
	s.publish(c, cs)

	ctx, span := tracer.Start(ctx, "mcmc.Chain", trace.WithAttributes(
		attribute.Int("chain", c),
		attribute.Int64("seed", cs.Seed),
	))
	defer span.End()

	logger = logger.With(slog.Int("chain", c))
	s.logf("Chain %d: seed %d", c+1, cs.Seed)

	cc := ChainContext{Index: c, Seed: cs.Seed, Rand: s.src, Config: cfg}
	s.model.InitVariablesForChain(cc)
	s.model.InitMCMC(cc)

	label := func(what string) string {
		return fmt.Sprintf("Chain %d/%d: %s", c+1, cfg.NumChains, what)
	}
	step := Step{Chain: c, Thinning: cfg.ThinningInterval, Rand: s.src}

	// Burn-in.
	s.setPhase(PhaseBurning)
	s.rep.PhaseChanged(label("Burn"), 0, cfg.NumBurnIter)
	counter := iterationsTotal.WithLabelValues(PhaseBurning.String())
	phaseStart := s.now()
	step.Phase = PhaseBurning
	for cs.BurnIterIndex < cfg.NumBurnIter {
		if err := s.stopRequested(ctx); err != nil {
			return s.stopChain(c, cs, err)
		}
		step.Iter = cs.BurnIterIndex
		s.model.Update(step)
		cs.BurnIterIndex++
		cs.TotalIter++
		counter.Inc()
		s.publish(c, cs)
		s.rep.Progress(cs.BurnIterIndex)
	}
	s.endPhase(c, PhaseBurning, phaseStart, logger)

	// Adaptation.
	s.setPhase(PhaseAdapting)
	s.rep.PhaseChanged(label("Adapt"), 0, cfg.MaxBatches*cfg.NumBatchIter)
	counter = iterationsTotal.WithLabelValues(PhaseAdapting.String())
	phaseStart = s.now()
	step.Phase = PhaseAdapting
	for cs.BatchIndex < cfg.MaxBatches {
		cs.BatchIterIndex = 0
		step.Batch = cs.BatchIndex
		for cs.BatchIterIndex < cfg.NumBatchIter {
			if err := s.stopRequested(ctx); err != nil {
				return s.stopChain(c, cs, err)
			}
			step.Iter = cs.BatchIterIndex
			s.model.Update(step)
			cs.BatchIterIndex++
			cs.TotalIter++
			counter.Inc()
			s.publish(c, cs)
			s.rep.Progress(cs.BatchIndex*cfg.NumBatchIter + cs.BatchIterIndex)
		}
		cs.BatchIndex++
		s.publish(c, cs)
		if s.model.Adapt(cs.BatchIndex) {
			cs.AdaptConverged = true
			break
		}
	}
	s.publish(c, cs)
	adaptBatches.Observe(float64(cs.BatchIndex))
	elapsed := s.endPhase(c, PhaseAdapting, phaseStart, logger)
	if cs.AdaptConverged {
		s.logf("Chain %d: adapt converged at batch %d", c+1, cs.BatchIndex)
	} else {
		s.logf("Chain %d: adapt not converged after %d batches", c+1, cs.BatchIndex)
		adaptNotConvergedTotal.Inc()
		logger.Warn("mcmc: adaptation did not converge",
			slog.Int("batches", cs.BatchIndex),
			slog.Duration("elapsed", elapsed),
		)
	}

	// Acquisition.
	s.setPhase(PhaseRunning)
	s.rep.PhaseChanged(label("Acquire"), 0, cfg.NumRunIter)
	counter = iterationsTotal.WithLabelValues(PhaseRunning.String())
	phaseStart = s.now()
	step.Phase = PhaseRunning
	step.Batch = 0
	for cs.RunIterIndex < cfg.NumRunIter {
		if err := s.stopRequested(ctx); err != nil {
			return s.stopChain(c, cs, err)
		}
		step.Iter = cs.RunIterIndex
		s.model.Update(step)
		cs.RunIterIndex++
		cs.TotalIter++
		counter.Inc()
		s.publish(c, cs)
		s.rep.Progress(cs.RunIterIndex)
	}
	s.endPhase(c, PhaseRunning, phaseStart, logger)

	cs.Status = ChainDone
	s.publish(c, cs)

	return nil
}

// stopRequested returns a non-nil error when the run must stop.
func (s *Scheduler) stopRequested(ctx context.Context) error {
	if s.cancel.Load() {
		return ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	return nil
}

// stopChain marks chain c cancelled with its counters as they are.
func (s *Scheduler) stopChain(c int, cs ChainState, err error) error {
	cs.Status = ChainCancelled
	s.publish(c, cs)

	return err
}

// abort records a cancelled run. chain is -1 when no chain had started.
func (s *Scheduler) abort(span trace.Span, logger *slog.Logger, chain int, err error) error {
	phase := RunPhase(s.phase.Load())
	if chain >= 0 {
		s.logf("Aborted during chain %d (%s)", chain+1, phase)
	} else {
		s.logf("Aborted before the first chain")
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "cancelled")
	runsTotal.WithLabelValues(outcomeCancelled).Inc()
	logger.Warn("mcmc: run cancelled",
		slog.Int("chain", chain),
		slog.String("phase", phase.String()),
	)

	return err
}

// endPhase writes the duration of a phase to the log and the metrics.
func (s *Scheduler) endPhase(c int, p RunPhase, start time.Time, logger *slog.Logger) time.Duration {
	elapsed := s.now().Sub(start)
	phaseDuration.WithLabelValues(p.String()).Observe(elapsed.Seconds())
	s.logf("Chain %d: %s time: %s", c+1, p, elapsed.Round(time.Millisecond))
	logger.Debug("mcmc: phase done",
		slog.String("phase", p.String()),
		slog.Duration("elapsed", elapsed),
	)

	return elapsed
}

func (s *Scheduler) setPhase(p RunPhase) { s.phase.Store(int32(p)) }

// publish stores a snapshot of chain c for readers on other goroutines.
func (s *Scheduler) publish(c int, cs ChainState) {
	s.mu.Lock()
	s.chains[c] = cs
	s.mu.Unlock()
}

// resetChains creates one zeroed record per chain.
func (s *Scheduler) resetChains() {
	chains := make([]ChainState, s.cfg.NumChains)
	for i := range chains {
		chains[i] = ChainState{Index: i, ThinningInterval: s.cfg.ThinningInterval}
	}
	s.mu.Lock()
	s.chains = chains
	s.mu.Unlock()
}

// logf appends one line to the run log.
func (s *Scheduler) logf(format string, args ...any) {
	s.mu.Lock()
	fmt.Fprintf(&s.log, format, args...)
	s.log.WriteByte('\n')
	s.mu.Unlock()
}
