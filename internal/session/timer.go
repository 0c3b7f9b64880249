package session

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/services"
	"github.com/desertthunder/pomo/internal/shared"
	"github.com/gammazero/workerpool"
	"github.com/jonboulle/clockwork"
)

const (
	defaultTickInterval    = time.Second
	defaultPlaybackTimeout = 10 * time.Second

	// maxMinutes keeps a duration in seconds within int.
	maxMinutes = math.MaxInt / 60
)

// Config contains the collaborators and runtime options for a [Timer].
//
// Zero values are replaced with defaults: no persistence, [services.NoopPlayback], a discarding
// logger, the real clock, a one second tick, and a ten second playback timeout.
type Config struct {
	Store           Store
	Playback        services.Playback
	Logger          *log.Logger
	Clock           clockwork.Clock
	TickInterval    time.Duration
	PlaybackTimeout time.Duration
}

// Timer is the session state machine. It is safe for concurrent use.
type Timer struct {
	mu       sync.Mutex
	store    Store
	playback services.Playback
	logger   *log.Logger
	clock    clockwork.Clock
	interval time.Duration
	timeout  time.Duration

	phase     models.Phase
	running   bool
	remaining int
	work      int
	brk       int

	// generation identifies the live tick registration; ticks carrying an older value are dropped.
	generation uint64
	stopLoop   func()
	events     []chan Event
	closed     bool
	// pool runs playback calls one at a time in submission order.
	pool *workerpool.WorkerPool
}

// New creates an idle timer in the work phase with durations loaded from cfg.Store.
func New(cfg Config) *Timer {
	if cfg.Playback == nil {
		cfg.Playback = services.NoopPlayback{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.PlaybackTimeout <= 0 {
		cfg.PlaybackTimeout = defaultPlaybackTimeout
	}

	work, brk := LoadDurations(cfg.Store, cfg.Logger)
	return &Timer{
		store:     cfg.Store,
		playback:  cfg.Playback,
		logger:    cfg.Logger,
		clock:     cfg.Clock,
		interval:  cfg.TickInterval,
		timeout:   cfg.PlaybackTimeout,
		phase:     models.Work,
		remaining: work,
		work:      work,
		brk:       brk,
		pool:      workerpool.New(1),
	}
}

// Subscribe registers a new observer channel. Tick, state and settings events are dropped when the
// channel is full; a phase change instead displaces the oldest buffered event.
//
// Channels are closed by [Timer.Close].
func (t *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		close(ch)
		return ch
	}
	t.events = append(t.events, ch)
	return ch
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Start begins counting down the current phase and resumes playback.
//
// Starting a running or closed timer does nothing.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running || t.closed {
		return
	}

	t.running = true
	t.startLoopLocked()
	t.emitLocked(EventStateChange, "")
	t.dispatchLocked("resume", t.playback.Resume)
}

// Pause stops the countdown and pauses playback. The remaining time is kept.
//
// Pausing an idle timer changes nothing but still asks the playback to pause.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		t.cancelLoopLocked()
		t.running = false
		t.emitLocked(EventStateChange, "")
	}
	t.dispatchLocked("pause", t.playback.Pause)
}

// Toggle starts an idle timer or pauses a running one.
func (t *Timer) Toggle() {
	t.mu.Lock()
	running := t.running
	t.mu.Unlock()

	if running {
		t.Pause()
	} else {
		t.Start()
	}
}

// Reset stops the countdown, reloads the current phase's full duration, and pauses playback.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLoopLocked()
	t.running = false
	t.remaining = t.durationLocked(t.phase)
	t.emitLocked(EventStateChange, "")
	t.dispatchLocked("pause", t.playback.Pause)
}

// Tick advances a running timer by one second. Ticks on an idle timer are ignored.
//
// The scheduler calls this once per interval; it is exported for hosts that drive time themselves.
func (t *Timer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advanceLocked()
}

// SetWorkDuration sets the work phase length in minutes and persists it.
func (t *Timer) SetWorkDuration(minutes int) error {
	return t.setDuration(models.Work, minutes)
}

// SetBreakDuration sets the break phase length in minutes and persists it.
func (t *Timer) SetBreakDuration(minutes int) error {
	return t.setDuration(models.Break, minutes)
}

// setDuration rejects lengths under one minute, or too long to count in seconds, without touching state. An idle timer sitting in
// phase picks up the new length immediately; otherwise it applies the next time phase begins.
//
// A failed write leaves the new duration in effect for this session and returns the error.
func (t *Timer) setDuration(phase models.Phase, minutes int) error {
	if minutes < 1 || minutes > maxMinutes {
		return fmt.Errorf("%w: %d minutes", shared.ErrInvalidDuration, minutes)
	}
	seconds := minutes * 60

	t.mu.Lock()
	defer t.mu.Unlock()

	key := WorkTimeKey
	if phase == models.Work {
		t.work = seconds
	} else {
		t.brk = seconds
		key = BreakTimeKey
	}
	if !t.running && t.phase == phase {
		t.remaining = seconds
	}
	t.emitLocked(EventSettingsChange, "")

	if t.store == nil {
		return nil
	}
	if err := t.store.Set(key, strconv.Itoa(seconds)); err != nil {
		t.logger.Error("failed to persist duration", "key", key, "err", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Wait blocks until the playback calls queued so far have finished. It returns at once on a
// closed timer and must not race with [Timer.Close].
func (t *Timer) Wait() {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()

	if !closed {
		t.pool.SubmitWait(func() {})
	}
}

// Close cancels the tick registration, waits for playback calls, and closes subscriber channels.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.cancelLoopLocked()
	t.running = false
	events := t.events
	t.events = nil
	t.mu.Unlock()

	t.pool.StopWait()
	for _, ch := range events {
		close(ch)
	}
}

func (t *Timer) startLoopLocked() {
	t.cancelLoopLocked()

	gen := t.generation
	ticker := t.clock.NewTicker(t.interval)
	stopCh := make(chan struct{})
	t.stopLoop = func() {
		ticker.Stop()
		close(stopCh)
	}

	go t.run(gen, ticker, stopCh)
}

// cancelLoopLocked stops the live registration, if any, and invalidates ticks already in flight.
func (t *Timer) cancelLoopLocked() {
	if t.stopLoop != nil {
		t.stopLoop()
		t.stopLoop = nil
	}
	t.generation++
}

func (t *Timer) run(gen uint64, ticker clockwork.Ticker, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			t.tick(gen)
		}
	}
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		return
	}
	t.advanceLocked()
}

func (t *Timer) advanceLocked() {
	if !t.running {
		return
	}

	if next := t.remaining - 1; next > 0 {
		t.remaining = next
		t.emitLocked(EventTick, "")
		return
	}

	t.phase = t.phase.Next()
	t.remaining = t.durationLocked(t.phase)
	message := PhaseMessage(t.phase)
	t.logger.Info(message, "phase", t.phase, "remaining", shared.FormatClock(t.remaining))
	t.emitLocked(EventPhaseChange, message)
}

func (t *Timer) durationLocked(phase models.Phase) int {
	if phase == models.Break {
		return t.brk
	}
	return t.work
}

func (t *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:     t.phase,
		Running:   t.running,
		Remaining: t.remaining,
		Work:      t.work,
		Break:     t.brk,
	}
}

func (t *Timer) emitLocked(eventType EventType, message string) {
	event := Event{
		Type:     eventType,
		Snapshot: t.snapshotLocked(),
		Message:  message,
		At:       t.clock.Now(),
	}
	for _, ch := range t.events {
		if eventType == EventPhaseChange {
			deliver(ch, event)
			continue
		}
		select {
		case ch <- event:
		default:
		}
	}
}

// deliver sends event on ch, discarding the oldest buffered events until it fits.
func deliver(ch chan Event, event Event) {
	for {
		select {
		case ch <- event:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// dispatchLocked queues a playback call on the pool. Calls run in order, one at a time, each
// bounded by the playback timeout.
func (t *Timer) dispatchLocked(action string, call func(context.Context) error) {
	if t.closed {
		return
	}

	name, logger, timeout := t.playback.Name(), t.logger, t.timeout
	t.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := call(ctx); err != nil {
			logger.Warn("playback call failed", "action", action, "playback", name, "err", err)
			return
		}
		logger.Debug("playback call succeeded", "action", action, "playback", name)
	})
}
