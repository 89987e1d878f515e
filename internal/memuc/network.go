package memuc

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/kballard/go-shellquote"
)

// publicIPCommand asks a well-known echo service for the caller's address.
const publicIPCommand = "wget -O- whatismyip.akamai.com"

// ConnectInternet enables a VM's network.
func (c *Client) ConnectInternet(ctx context.Context, sel Selector) error {
	_, err := c.do(ctx, command{
		op:     "connect internet",
		target: &sel,
		verb:   "connect",
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// DisconnectInternet disables a VM's network.
func (c *Client) DisconnectInternet(ctx context.Context, sel Selector) error {
	_, err := c.do(ctx, command{
		op:     "disconnect internet",
		target: &sel,
		verb:   "disconnect",
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// ExecCommand runs a shell command inside a VM and returns its output.
func (c *Client) ExecCommand(ctx context.Context, sel Selector, cmdline string) (string, error) {
	if err := required("command", cmdline); err != nil {
		return "", fmt.Errorf("exec command: %w", err)
	}
	out, err := c.do(ctx, command{
		op:     "exec command",
		target: &sel,
		verb:   "execcmd",
		args:   []string{cmdline},
		rule:   MarkerAny,
	})
	if err != nil {
		return "", err
	}
	return out.Output, nil
}

// PublicIP returns the public address a VM reaches the internet from.
func (c *Client) PublicIP(ctx context.Context, sel Selector) (netip.Addr, error) {
	const op = "public ip"
	out, err := c.do(ctx, command{
		op:     op,
		target: &sel,
		verb:   "execcmd",
		args:   []string{publicIPCommand},
		rule:   MarkerOutput,
		retry:  true,
	})
	if err != nil {
		return netip.Addr{}, err
	}
	return parsePublicIP(op, out.Output)
}

// SendADB runs adb against a VM with the given arguments and returns its
// output. memuc's exit status for adb is not meaningful, so only a timeout
// is treated as failure. A positive timeout bounds the call.
func (c *Client) SendADB(ctx context.Context, sel Selector, args []string, timeout time.Duration) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("send adb: %w: adb arguments", ErrEmptyArgument)
	}
	out, err := c.do(ctx, command{
		op:     "send adb",
		target: &sel,
		verb:   "adb",
		args:   args,
		mode:   Mode{Timeout: timeout},
		answer: MarkerAny,
	})
	if err != nil {
		return "", err
	}
	return out.Output, nil
}

// SendADBString is SendADB with a single command line split by shell rules.
func (c *Client) SendADBString(ctx context.Context, sel Selector, cmdline string, timeout time.Duration) (string, error) {
	args, err := shellquote.Split(cmdline)
	if err != nil {
		return "", fmt.Errorf("send adb: %w: %w", ErrInvalidArgument, err)
	}
	return c.SendADB(ctx, sel, args, timeout)
}

// ADBConnection returns the host and port adb uses to reach a VM.
func (c *Client) ADBConnection(ctx context.Context, sel Selector, timeout time.Duration) (string, int, error) {
	out, err := c.SendADB(ctx, sel, []string{"shell", "ifconfig"}, timeout)
	if err != nil {
		return "", 0, err
	}
	return parseADBConnection("adb connection", out)
}
