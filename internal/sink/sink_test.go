package sink

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Originalimoc/compatctl/pkg/device/dualshock4"
)

// fakeBus speaks just enough of the bus line protocol for Connect, Submit
// and the rumble backchannel. Each API command arrives on its own
// connection; the stream connection stays open until done is closed.
type fakeBus struct {
	ln      net.Listener
	buses   string
	reports chan []byte
	removed chan string
	done    chan struct{}
}

func startFakeBus(t *testing.T, buses string) *fakeBus {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	fb := &fakeBus{
		ln:      ln,
		buses:   buses,
		reports: make(chan []byte, 16),
		removed: make(chan string, 4),
		done:    make(chan struct{}),
	}
	go fb.acceptLoop()
	t.Cleanup(func() {
		close(fb.done)
		ln.Close()
	})
	return fb
}

func (fb *fakeBus) acceptLoop() {
	for {
		conn, err := fb.ln.Accept()
		if err != nil {
			return
		}
		go fb.handle(conn)
	}
}

func (fb *fakeBus) handle(conn net.Conn) {
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil {
		conn.Close()
		return
	}
	line = strings.TrimSuffix(line, "\n")

	switch {
	case line == "bus/list":
		fmt.Fprintf(conn, "{\"buses\":%s}\n", fb.buses)
		conn.Close()
	case strings.HasPrefix(line, "bus/create "):
		id := strings.TrimPrefix(line, "bus/create ")
		fmt.Fprintf(conn, "{\"busId\":%s}\n", id)
		conn.Close()
	case strings.HasSuffix(line, "/add dualshock4"):
		busID := strings.Split(line, "/")[1]
		fmt.Fprintf(conn, "{\"id\":\"%s-dev42\"}\n", busID)
		conn.Close()
	case strings.Contains(line, "/remove "):
		fb.removed <- line
		busID := strings.Split(line, "/")[1]
		fmt.Fprintf(conn, "{\"busId\":%s,\"devId\":\"dev42\"}\n", busID)
		conn.Close()
	case strings.HasSuffix(line, "/dev42"):
		// activated stream: collect one report, answer with a rumble frame
		frame := make([]byte, dualshock4.ReportSize)
		if _, err := io.ReadFull(r, frame); err == nil {
			fb.reports <- frame
			conn.Write([]byte{0x40, 0x80})
		}
		<-fb.done
		conn.Close()
	default:
		fmt.Fprintf(conn, "{\"error\":\"unknown command %s\"}\n", line)
		conn.Close()
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConnectExistingBus(t *testing.T) {
	fb := startFakeBus(t, "[7,3]")

	s, err := Connect(testLogger(), fb.ln.Addr().String())
	require.NoError(t, err)
	defer s.Close()

	// lowest existing bus wins and is not removed on close
	assert.Equal(t, uint32(3), s.busID)
	assert.False(t, s.createdBus)
	assert.Equal(t, "dev42", s.devID)
}

func TestConnectCreatesBusWhenNoneExist(t *testing.T) {
	fb := startFakeBus(t, "[]")

	s, err := Connect(testLogger(), fb.ln.Addr().String())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, uint32(1), s.busID)
	assert.True(t, s.createdBus)
}

func TestSubmitAndRumbleRoundTrip(t *testing.T) {
	fb := startFakeBus(t, "[7]")

	s, err := Connect(testLogger(), fb.ln.Addr().String())
	require.NoError(t, err)
	defer s.Close()

	rumbles := make(chan dualshock4.Rumble, 1)
	s.OnRumble(func(large, small uint8) {
		rumbles <- dualshock4.Rumble{Large: large, Small: small}
	})

	report := dualshock4.NewReport()
	report.Buttons = dualshock4.ButtonCross
	require.NoError(t, s.Submit(report))

	select {
	case frame := <-fb.reports:
		var got dualshock4.Report
		require.NoError(t, got.UnmarshalBinary(frame))
		assert.Equal(t, dualshock4.ButtonCross, got.Buttons)
	case <-time.After(time.Second):
		t.Fatal("report never reached the bus")
	}

	select {
	case rum := <-rumbles:
		assert.Equal(t, uint8(0x40), rum.Large)
		assert.Equal(t, uint8(0x80), rum.Small)
	case <-time.After(time.Second):
		t.Fatal("rumble never reached the callback")
	}
}

func TestCloseRemovesDevice(t *testing.T) {
	fb := startFakeBus(t, "[7]")

	s, err := Connect(testLogger(), fb.ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	select {
	case line := <-fb.removed:
		assert.Equal(t, "bus/7/remove dev42", line)
	case <-time.After(time.Second):
		t.Fatal("device was never removed")
	}
}
