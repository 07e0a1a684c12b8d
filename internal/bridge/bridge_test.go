package bridge

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Originalimoc/compatctl/internal/imu"
	"github.com/Originalimoc/compatctl/internal/pad"
	"github.com/Originalimoc/compatctl/pkg/device/dualshock4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVector struct {
	mu  sync.Mutex
	v   imu.Vec3
	err error
}

func (f *fakeVector) Read() (imu.Vec3, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	time.Sleep(100 * time.Microsecond)
	return f.v, f.err
}

func (f *fakeVector) Close() error { return nil }

type fakePad struct {
	mu  sync.Mutex
	st  pad.State
	err error
}

func (f *fakePad) Poll() (pad.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st, f.err
}

type fakeSink struct {
	reports  chan dualshock4.Report
	onRumble func(large, small uint8)
}

func (f *fakeSink) Submit(r dualshock4.Report) error {
	select {
	case f.reports <- r:
	default:
	}
	return nil
}

func (f *fakeSink) OnRumble(fn func(large, small uint8)) { f.onRumble = fn }

type fakeFeedback struct {
	mu    sync.Mutex
	calls [][2]uint8
	fail  int
}

func (f *fakeFeedback) SetRumble(large, small uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		return errors.New("pad gone")
	}
	f.calls = append(f.calls, [2]uint8{large, small})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBridgeEmitsWithAbsentPad(t *testing.T) {
	sink := &fakeSink{reports: make(chan dualshock4.Report, 16)}
	gyro := &fakeVector{}
	accel := &fakeVector{v: imu.Vec3{Y: -1}} // gravity on the source Y axis
	padSrc := &fakePad{err: errors.New("unplugged")}

	b := New(testLogger(), Config{ReportInterval: time.Millisecond}, gyro, accel, padSrc, nil, sink)
	go b.Run()

	var got dualshock4.Report
	select {
	case got = <-sink.reports:
	case <-time.After(2 * time.Second):
		t.Fatal("no report emitted")
	}

	assert.Zero(t, got.Buttons)
	assert.Equal(t, dualshock4.DirNone, got.Dpad)
	assert.Equal(t, uint8(128), got.LeftStickX)

	// wait for the accel loop to have published at least once
	deadline := time.After(2 * time.Second)
	for got.AccelZ == 0 {
		select {
		case got = <-sink.reports:
		case <-deadline:
			t.Fatal("motion fields never populated")
		}
	}
	// source -Y gravity lands on target +Z via the accel mount matrix
	assert.Positive(t, got.AccelZ)
}

func TestBridgeTimestampAdvances(t *testing.T) {
	sink := &fakeSink{reports: make(chan dualshock4.Report, 64)}
	b := New(testLogger(), Config{ReportInterval: time.Millisecond},
		&fakeVector{}, &fakeVector{}, &fakePad{}, nil, sink)
	go b.Run()

	var prev *dualshock4.Report
	distinct := 0
	deadline := time.After(2 * time.Second)
	for distinct < 3 {
		select {
		case r := <-sink.reports:
			if prev != nil && r.Timestamp != prev.Timestamp {
				distinct++
			}
			prev = &r
		case <-deadline:
			t.Fatal("timestamps never advanced")
		}
	}
}

func TestBridgeForwardsRumbleWithRetry(t *testing.T) {
	sink := &fakeSink{reports: make(chan dualshock4.Report, 1)}
	fb := &fakeFeedback{fail: 1}
	b := New(testLogger(), Config{
		ReportInterval: time.Millisecond,
		RumbleRetry:    pad.RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
	}, &fakeVector{}, &fakeVector{}, &fakePad{}, fb, sink)
	go b.Run()

	require.Eventually(t, func() bool { return sink.onRumble != nil }, time.Second, time.Millisecond)
	sink.onRumble(200, 10)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.calls, 1, "first attempt failed, second delivered")
	assert.Equal(t, [2]uint8{200, 10}, fb.calls[0])
}
