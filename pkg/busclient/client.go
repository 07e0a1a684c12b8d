// Package busclient is a client for the virtual game-controller bus daemon.
// The bus speaks a newline-delimited command protocol on its TCP port; the
// same port also carries per-device binary streams once activated (see
// DialStream).
package busclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/Originalimoc/compatctl/pkg/bustypes"
)

// Client provides a high-level interface to the bus API, handling request
// formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client. The addr parameter specifies the
// TCP address (host:port) of the bus daemon.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// WithTransport constructs a Client using a custom Transport. This is
// primarily useful for testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// BusCreate creates a new virtual bus with the specified bus number.
func (c *Client) BusCreate(busID uint32) (*bustypes.BusCreateResponse, error) {
	line, err := c.transport.Do("bus/create", fmt.Sprintf("%d", busID), nil)
	if err != nil {
		return nil, err
	}
	return parse[bustypes.BusCreateResponse](line)
}

// BusRemove removes an existing virtual bus and all devices attached to it.
func (c *Client) BusRemove(busID uint32) (*bustypes.BusRemoveResponse, error) {
	line, err := c.transport.Do("bus/remove", fmt.Sprintf("%d", busID), nil)
	if err != nil {
		return nil, err
	}
	return parse[bustypes.BusRemoveResponse](line)
}

// BusList retrieves all active virtual bus numbers.
func (c *Client) BusList() (*bustypes.BusListResponse, error) {
	line, err := c.transport.Do("bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[bustypes.BusListResponse](line)
}

// DeviceAdd adds a new device of the specified type (e.g. "dualshock4") to
// the given bus. Returns the assigned ID in "<busId>-<devId>" form.
func (c *Client) DeviceAdd(busID uint32, devType string) (*bustypes.DeviceAddResponse, error) {
	pathParams := map[string]string{"id": fmt.Sprintf("%d", busID)}
	line, err := c.transport.Do("bus/{id}/add", devType, pathParams)
	if err != nil {
		return nil, err
	}
	return parse[bustypes.DeviceAddResponse](line)
}

// DeviceRemove removes a device from the specified bus by its device ID.
func (c *Client) DeviceRemove(busID uint32, devID string) (*bustypes.DeviceRemoveResponse, error) {
	pathParams := map[string]string{"id": fmt.Sprintf("%d", busID)}
	line, err := c.transport.Do("bus/{id}/remove", devID, pathParams)
	if err != nil {
		return nil, err
	}
	return parse[bustypes.DeviceRemoveResponse](line)
}

// DevicesList retrieves all devices attached to the specified bus.
func (c *Client) DevicesList(busID uint32) (*bustypes.DevicesListResponse, error) {
	pathParams := map[string]string{"id": fmt.Sprintf("%d", busID)}
	line, err := c.transport.Do("bus/{id}/list", nil, pathParams)
	if err != nil {
		return nil, err
	}
	return parse[bustypes.DevicesListResponse](line)
}

// DialStream opens the binary stream connection for a device previously added
// with DeviceAdd. The caller owns the returned connection; input frames are
// written to it and feedback frames are read from it.
func (c *Client) DialStream(ctx context.Context, busID uint32, devID string) (net.Conn, error) {
	d := &net.Dialer{Timeout: c.transport.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.transport.addr)
	if err != nil {
		return nil, fmt.Errorf("stream dial: %w", err)
	}
	if _, err := fmt.Fprintf(conn, "bus/%d/%s\n", busID, devID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("stream activate: %w", err)
	}
	return conn, nil
}

// ReadStreamFrame reads exactly n bytes of a device feedback frame.
func ReadStreamFrame(r *bufio.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	for off := 0; off < n; {
		m, err := r.Read(buf[off:])
		if err != nil {
			return nil, err
		}
		off += m
	}
	return buf, nil
}

func parse[T any](line string) (*T, error) {
	if line == "" {
		return nil, errors.New("empty response")
	}
	var ae bustypes.ApiError
	if err := json.Unmarshal([]byte(line), &ae); err == nil && ae.Error != "" {
		return nil, errors.New(ae.Error)
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
