// Package bridge runs the fusion pipeline: one acquisition loop per input
// source feeding latest-value slots, and an emission loop combining them
// into paced outbound reports.
package bridge

import (
	"log/slog"
	"time"

	"github.com/Originalimoc/compatctl/internal/imu"
	"github.com/Originalimoc/compatctl/internal/pad"
	"github.com/Originalimoc/compatctl/pkg/device/dualshock4"
)

// PadSource polls the physical gamepad.
type PadSource interface {
	Poll() (pad.State, error)
}

// Feedback receives rumble forwarded from the virtual device.
type Feedback interface {
	SetRumble(large, small uint8) error
}

// Sink delivers outbound reports to the virtual controller, best-effort, and
// surfaces rumble notifications coming back from it.
type Sink interface {
	Submit(dualshock4.Report) error
	OnRumble(func(large, small uint8))
}

// Config carries the tunables of the pipeline. Zero values select defaults.
type Config struct {
	// ReportInterval paces the emission loop (default 1.25ms, the protocol's
	// nominal report rate).
	ReportInterval time.Duration
	// PadPollInterval rate-limits the gamepad poll loop (default 3ms; the
	// poll is cheap and anything faster burns CPU for nothing).
	PadPollInterval time.Duration
	// ShareButton maps the physical share button into the report when set.
	ShareButton bool
	// WarnInterval rate-limits transient-failure warnings per loop
	// (default 5s).
	WarnInterval time.Duration
	// RumbleRetry bounds rumble delivery to the physical pad.
	RumbleRetry pad.RetryPolicy

	// SampleTap, when non-nil, receives every TapEvery-th fused motion
	// sample (diagnostics/telemetry). Must not block.
	SampleTap func(imu.MotionSample)
	TapEvery  int
}

func (c *Config) applyDefaults() {
	if c.ReportInterval <= 0 {
		c.ReportInterval = 1250 * time.Microsecond
	}
	if c.PadPollInterval <= 0 {
		c.PadPollInterval = 3 * time.Millisecond
	}
	if c.WarnInterval <= 0 {
		c.WarnInterval = 5 * time.Second
	}
	if c.RumbleRetry.Attempts == 0 {
		c.RumbleRetry = pad.DefaultRetry
	}
	if c.TapEvery <= 0 {
		c.TapEvery = 100
	}
}

// Bridge owns the acquisition loops and the emission loop.
type Bridge struct {
	log  *slog.Logger
	cfg  Config
	gyro imu.VectorSource
	acc  imu.VectorSource
	pad  PadSource
	fb   Feedback
	sink Sink

	// mount matrices are slots so a profile reload can swap them while the
	// acquisition loops keep running
	gyroMount  Slot[imu.MountMatrix]
	accelMount Slot[imu.MountMatrix]

	gyroSlot  Slot[imu.Vec3]
	accelSlot Slot[imu.Vec3]
	padSlot   Slot[pad.State]

	synth Synthesizer
	pacer *Pacer
}

// New wires a bridge. fb may be nil when the pad has no force-feedback
// support; rumble notifications are then dropped.
func New(logger *slog.Logger, cfg Config, gyro, accel imu.VectorSource, padSrc PadSource, fb Feedback, sink Sink) *Bridge {
	cfg.applyDefaults()
	b := &Bridge{
		log:   logger,
		cfg:   cfg,
		gyro:  gyro,
		acc:   accel,
		pad:   padSrc,
		fb:    fb,
		sink:  sink,
		synth: NewSynthesizer(cfg.ShareButton),
		pacer: NewPacer(),
	}
	b.gyroMount.Store(imu.LegionGoGyro)
	b.accelMount.Store(imu.LegionGoAccel)
	return b
}

// SetMounts swaps the mounting-orientation matrices (profile live-reload).
func (b *Bridge) SetMounts(gyro, accel imu.MountMatrix) {
	b.gyroMount.Store(gyro)
	b.accelMount.Store(accel)
}

// Run starts the three acquisition goroutines and runs the emission loop on
// the calling goroutine. It never returns; the process runs until externally
// terminated, and no component needs a shutdown handshake (there is no
// persisted state to flush).
func (b *Bridge) Run() {
	b.sink.OnRumble(b.forwardRumble)

	go b.gyroLoop()
	go b.accelLoop()
	if b.pad != nil {
		go b.padLoop()
	}

	b.emitLoop()
}

// gyroLoop owns the glitch compensator; no other component observes it.
func (b *Bridge) gyroLoop() {
	var comp imu.Compensator
	warn := newWarnLimiter(b.cfg.WarnInterval)
	for {
		raw, err := b.gyro.Read()
		if err != nil {
			// keep the previous published sample
			warn.warn(b.log, "gyro read failed", err)
			time.Sleep(time.Millisecond)
			continue
		}
		mount, _ := b.gyroMount.Load()
		b.gyroSlot.Store(mount.Apply(comp.Apply(raw)))
	}
}

func (b *Bridge) accelLoop() {
	warn := newWarnLimiter(b.cfg.WarnInterval)
	for {
		raw, err := b.acc.Read()
		if err != nil {
			warn.warn(b.log, "accel read failed", err)
			time.Sleep(time.Millisecond)
			continue
		}
		mount, _ := b.accelMount.Load()
		b.accelSlot.Store(mount.Apply(raw))
	}
}

func (b *Bridge) padLoop() {
	warn := newWarnLimiter(b.cfg.WarnInterval)
	ticker := time.NewTicker(b.cfg.PadPollInterval)
	defer ticker.Stop()
	for range ticker.C {
		st, err := b.pad.Poll()
		if err != nil {
			// absent, not all-released
			b.padSlot.Clear()
			warn.warn(b.log, "pad poll failed", err)
			continue
		}
		b.padSlot.Store(st)
	}
}

// emitLoop reads the latest slot values without ever blocking on device I/O,
// synthesizes one report per tick and submits it. A failed submit drops that
// single report; the next cycle's report supersedes it.
func (b *Bridge) emitLoop() {
	warn := newWarnLimiter(b.cfg.WarnInterval)
	ticker := time.NewTicker(b.cfg.ReportInterval)
	defer ticker.Stop()

	cycle := 0
	for range ticker.C {
		gyro, _ := b.gyroSlot.Load()
		accel, _ := b.accelSlot.Load()
		st, ok := b.padSlot.Load()
		if !ok {
			st = pad.Rest()
		}

		report := b.synth.Synthesize(gyro, accel, st, b.pacer.Next())
		if err := b.sink.Submit(report); err != nil {
			warn.warn(b.log, "report submit failed", err)
		}

		cycle++
		if b.cfg.SampleTap != nil && cycle%b.cfg.TapEvery == 0 {
			b.cfg.SampleTap(imu.MotionSample{Gyro: gyro, Accel: accel})
		}
	}
}

func (b *Bridge) forwardRumble(large, small uint8) {
	if b.fb == nil {
		return
	}
	err := b.cfg.RumbleRetry.Do(func() error {
		return b.fb.SetRumble(large, small)
	})
	if err != nil {
		b.log.Warn("rumble delivery failed", "error", err)
	}
}

// warnLimiter rate-limits transient-failure logging so a dead sensor does
// not flood the log at poll rate.
type warnLimiter struct {
	every time.Duration
	last  time.Time
}

func newWarnLimiter(every time.Duration) *warnLimiter {
	return &warnLimiter{every: every}
}

func (w *warnLimiter) warn(logger *slog.Logger, msg string, err error) {
	if time.Since(w.last) < w.every {
		return
	}
	w.last = time.Now()
	logger.Warn(msg, "error", err)
}
