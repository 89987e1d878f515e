package memuc

import (
	"context"
	"fmt"
	"strconv"
)

// SendKey presses a hardware key on a VM.
func (c *Client) SendKey(ctx context.Context, sel Selector, key Key) error {
	k, err := ParseKey(string(key))
	if err != nil {
		return fmt.Errorf("send key: %w", err)
	}
	return c.simple(ctx, sel, "send key", "sendkey", string(k))
}

// Shake shakes a VM.
func (c *Client) Shake(ctx context.Context, sel Selector) error {
	return c.simple(ctx, sel, "shake vm", "shake")
}

// InputText types text into the focused field of a VM.
func (c *Client) InputText(ctx context.Context, sel Selector, text string) error {
	if text == "" {
		return fmt.Errorf("input text: %w: text", ErrEmptyArgument)
	}
	return c.simple(ctx, sel, "input text", "input", text)
}

// Rotate toggles a VM's screen orientation.
func (c *Client) Rotate(ctx context.Context, sel Selector) error {
	return c.simple(ctx, sel, "rotate vm", "rotate")
}

// ZoomIn zooms in on a VM's display.
func (c *Client) ZoomIn(ctx context.Context, sel Selector) error {
	return c.simple(ctx, sel, "zoom in", "zoomin")
}

// ZoomOut zooms out of a VM's display.
func (c *Client) ZoomOut(ctx context.Context, sel Selector) error {
	return c.simple(ctx, sel, "zoom out", "zoomout")
}

// SetAccelerometer sets the accelerometer reading of a VM.
func (c *Client) SetAccelerometer(ctx context.Context, sel Selector, x, y, z float64) error {
	_, err := c.do(ctx, command{
		op:     "set accelerometer",
		target: &sel,
		verb:   "accelerometer",
		args:   []string{formatFloat(x), formatFloat(y), formatFloat(z)},
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// SetGPS sets a VM's GPS location.
func (c *Client) SetGPS(ctx context.Context, sel Selector, latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return fmt.Errorf("set gps: %w: coordinates %v,%v out of range", ErrInvalidArgument, latitude, longitude)
	}
	_, err := c.do(ctx, command{
		op:     "set gps",
		target: &sel,
		verb:   "setgps",
		args:   []string{formatFloat(latitude), formatFloat(longitude)},
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// simple runs a VM-scoped, blocking, non-retried command that prints SUCCESS.
func (c *Client) simple(ctx context.Context, sel Selector, op, verb string, args ...string) error {
	_, err := c.do(ctx, command{
		op:     op,
		target: &sel,
		verb:   verb,
		args:   args,
		rule:   MarkerSuccess,
	})
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
