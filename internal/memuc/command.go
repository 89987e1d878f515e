package memuc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// command describes one catalog operation.
type command struct {
	op     string    // human-readable name used in errors and logs
	target *Selector // nil for commands that are not VM scoped
	verb   string
	args   []string
	mode   Mode
	rule   SuccessRule
	// answer accepts output that memuc prints with a non-zero exit status
	// but that is still a reply, such as "Not Running".
	answer SuccessRule
	retry  bool
}

func (cmd command) argv() ([]string, error) {
	var argv []string
	if cmd.target != nil {
		sel, err := cmd.target.Args()
		if err != nil {
			return nil, err
		}
		argv = append(argv, sel...)
	}
	argv = append(argv, cmd.verb)
	return append(argv, cmd.args...), nil
}

// do runs cmd and interprets the outcome, retrying when cmd is eligible.
// On failure the returned error names the operation.
func (c *Client) do(ctx context.Context, cmd command) (*Outcome, error) {
	argv, err := cmd.argv()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.op, err)
	}

	attempt := func(ctx context.Context) (*Outcome, error) {
		out, err := c.Invoke(ctx, argv, cmd.mode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.op, err)
		}
		if cmd.answer != nil && !out.TimedOut && cmd.answer(out.Output) {
			return out, nil
		}
		if err := Interpret(cmd.op, out, cmd.rule); err != nil {
			return nil, err
		}
		return out, nil
	}

	if !cmd.retry {
		return attempt(ctx)
	}
	return Retry(ctx, c.retry, cmd.op, attempt)
}

// doTask runs a command that may be sent to the background and returns the
// task id memuc acknowledged, if any.
func (c *Client) doTask(ctx context.Context, cmd command) (TaskID, error) {
	out, err := c.do(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !cmd.mode.NonBlocking {
		return "", nil
	}
	return parseTaskID(out.Output), nil
}

// flag returns []string{name} when set and nothing otherwise, so optional
// flags are omitted rather than passed empty.
func flag(name string, set bool) []string {
	if set {
		return []string{name}
	}
	return nil
}

// expandPath resolves ~ and environment variables and makes p absolute.
func expandPath(p string) (string, error) {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", p, err)
		}
		p = filepath.Join(home, p[1:])
	}
	return filepath.Abs(p)
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyArgument, name)
	}
	return nil
}
