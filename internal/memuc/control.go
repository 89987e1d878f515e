package memuc

import (
	"context"
	"fmt"
	"strings"
)

// Start boots a VM. Headless starts it without a window.
func (c *Client) Start(ctx context.Context, sel Selector, opts StartOptions) (TaskID, error) {
	return c.doTask(ctx, command{
		op:     "start vm",
		target: &sel,
		verb:   "start",
		args:   flag("-b", opts.Headless),
		mode:   Mode{NonBlocking: opts.NonBlocking, Timeout: opts.Timeout},
		rule:   MarkerSuccess,
		retry:  true,
	})
}

// Stop shuts a VM down.
func (c *Client) Stop(ctx context.Context, sel Selector, opts StopOptions) (TaskID, error) {
	return c.doTask(ctx, command{
		op:     "stop vm",
		target: &sel,
		verb:   "stop",
		mode:   Mode{NonBlocking: opts.NonBlocking, Timeout: opts.Timeout},
		rule:   MarkerSuccess,
		retry:  true,
	})
}

// StopAll shuts every VM down.
func (c *Client) StopAll(ctx context.Context, opts StopOptions) (TaskID, error) {
	return c.doTask(ctx, command{
		op:    "stop all vms",
		verb:  "stopall",
		mode:  Mode{NonBlocking: opts.NonBlocking, Timeout: opts.Timeout},
		rule:  MarkerSuccess,
		retry: true,
	})
}

// Reboot restarts a VM.
func (c *Client) Reboot(ctx context.Context, sel Selector, opts AsyncOptions) (TaskID, error) {
	return c.doTask(ctx, command{
		op:     "reboot vm",
		target: &sel,
		verb:   "reboot",
		mode:   Mode{NonBlocking: opts.NonBlocking},
		rule:   MarkerSuccess,
	})
}

// SortWindows arranges the windows of all running VMs.
func (c *Client) SortWindows(ctx context.Context) error {
	_, err := c.do(ctx, command{
		op:    "sort windows",
		verb:  "sortwin",
		rule:  MarkerSuccess,
		retry: true,
	})
	return err
}

// TaskStatus returns memuc's raw report on a background task.
func (c *Client) TaskStatus(ctx context.Context, id TaskID) (string, error) {
	if err := required("task id", string(id)); err != nil {
		return "", fmt.Errorf("task status: %w", err)
	}
	out, err := c.do(ctx, command{
		op:    "task status",
		verb:  "taskstatus",
		args:  []string{string(id)},
		rule:  MarkerOutput,
		retry: true,
	})
	if err != nil {
		return "", err
	}
	return out.Output, nil
}

// Version returns memuc's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.do(ctx, command{
		op:    "memuc version",
		verb:  "version",
		rule:  MarkerOutput,
		retry: true,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Output), nil
}
