// Package sink delivers synthesized reports to a virtual DualShock 4 on the
// device bus, and surfaces the rumble notifications the bus sends back.
package sink

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Originalimoc/compatctl/pkg/busclient"
	"github.com/Originalimoc/compatctl/pkg/device/dualshock4"
)

const deviceType = "dualshock4"

// submitDeadline bounds one report write. The emission loop must never stall
// on the sink; a report that cannot be written in time is dropped and the
// next cycle's report supersedes it.
const submitDeadline = 5 * time.Millisecond

// BusSink owns one virtual pad on the bus: the API objects (bus + device)
// and the activated binary stream.
type BusSink struct {
	log    *slog.Logger
	client *busclient.Client
	conn   net.Conn

	busID      uint32
	devID      string
	createdBus bool

	mu       sync.Mutex
	onRumble func(large, small uint8)
}

// Connect dials the bus daemon, ensures a bus exists, attaches a dualshock4
// device and activates its stream. Failure here is fatal to the caller: a
// missing bus daemon is missing infrastructure, not a transient condition.
func Connect(logger *slog.Logger, addr string) (*BusSink, error) {
	api := busclient.New(addr)

	buses, err := api.BusList()
	if err != nil {
		return nil, fmt.Errorf("bus list: %w", err)
	}
	s := &BusSink{log: logger, client: api}
	if len(buses.Buses) == 0 {
		var createErr error
		for try := uint32(1); try <= 100; try++ {
			if r, err := api.BusCreate(try); err == nil {
				s.busID = r.BusID
				s.createdBus = true
				break
			} else {
				createErr = err
			}
		}
		if s.busID == 0 {
			return nil, fmt.Errorf("bus create: %w", createErr)
		}
	} else {
		s.busID = buses.Buses[0]
		for _, b := range buses.Buses[1:] {
			if b < s.busID {
				s.busID = b
			}
		}
	}

	added, err := api.DeviceAdd(s.busID, deviceType)
	if err != nil {
		s.cleanupBus()
		return nil, fmt.Errorf("device add: %w", err)
	}
	s.devID = added.ID
	if i := strings.Index(added.ID, "-"); i >= 0 && i+1 < len(added.ID) {
		s.devID = added.ID[i+1:]
	}

	conn, err := api.DialStream(context.Background(), s.busID, s.devID)
	if err != nil {
		s.cleanupDevice()
		return nil, err
	}
	s.conn = conn
	logger.Info("virtual pad attached", "bus", s.busID, "device", s.devID)

	go s.readRumble()
	return s, nil
}

// Submit writes one report frame, best-effort. Errors are returned for the
// caller to log and drop; the sink itself performs no retry.
func (s *BusSink) Submit(r dualshock4.Report) error {
	b, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(submitDeadline))
	if _, err := s.conn.Write(b); err != nil {
		return fmt.Errorf("stream write: %w", err)
	}
	return nil
}

// OnRumble registers the callback invoked with (low-frequency,
// high-frequency) motor intensities whenever the bus requests feedback.
func (s *BusSink) OnRumble(fn func(large, small uint8)) {
	s.mu.Lock()
	s.onRumble = fn
	s.mu.Unlock()
}

// readRumble is the inbound notification path. It runs for the lifetime of
// the stream connection, independent of the emission loop.
func (s *BusSink) readRumble() {
	r := bufio.NewReader(s.conn)
	for {
		frame, err := busclient.ReadStreamFrame(r, dualshock4.RumbleSize)
		if err != nil {
			s.log.Debug("rumble stream closed", "error", err)
			return
		}
		var rum dualshock4.Rumble
		if err := rum.UnmarshalBinary(frame); err != nil {
			continue
		}
		s.mu.Lock()
		cb := s.onRumble
		s.mu.Unlock()
		if cb != nil {
			cb(rum.Large, rum.Small)
		}
	}
}

// Close detaches the virtual pad, removing the device and, when this process
// created it, the bus.
func (s *BusSink) Close() error {
	var err error
	if s.conn != nil {
		err = s.conn.Close()
	}
	s.cleanupDevice()
	return err
}

func (s *BusSink) cleanupDevice() {
	if s.devID != "" {
		if _, err := s.client.DeviceRemove(s.busID, s.devID); err != nil {
			s.log.Warn("device remove failed", "error", err)
		}
	}
	s.cleanupBus()
}

func (s *BusSink) cleanupBus() {
	if s.createdBus {
		if _, err := s.client.BusRemove(s.busID); err != nil {
			s.log.Warn("bus remove failed", "error", err)
		}
	}
}
