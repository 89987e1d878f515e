package memuc

import (
	"context"
	"fmt"
)

// DefaultImageFile is the file Export writes and Import reads when no path
// is given.
const DefaultImageFile = "vm.ova"

// Create creates a new VM from the given Android image version (empty means
// DefaultVersion) and returns its index, or -1 if memuc did not report one.
func (c *Client) Create(ctx context.Context, version string) (int, error) {
	if version == "" {
		version = DefaultVersion
	}
	out, err := c.do(ctx, command{
		op:   "create vm",
		verb: "create",
		args: []string{version},
		rule: MarkerSuccess,
	})
	if err != nil {
		return 0, err
	}
	return parseCreatedIndex(out.Output), nil
}

// Remove deletes a VM.
func (c *Client) Remove(ctx context.Context, sel Selector) error {
	_, err := c.do(ctx, command{
		op:     "remove vm",
		target: &sel,
		verb:   "remove",
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// Clone copies a VM, optionally naming the copy.
func (c *Client) Clone(ctx context.Context, sel Selector, opts CloneOptions) (TaskID, error) {
	var args []string
	if opts.NewName != "" {
		args = []string{"-r", opts.NewName}
	}
	return c.doTask(ctx, command{
		op:     "clone vm",
		target: &sel,
		verb:   "clone",
		args:   args,
		mode:   Mode{NonBlocking: opts.NonBlocking},
		rule:   MarkerSuccess,
	})
}

// Export writes a VM image to path (empty means DefaultImageFile). The path
// is expanded and made absolute before memuc sees it.
func (c *Client) Export(ctx context.Context, sel Selector, path string, opts AsyncOptions) (TaskID, error) {
	if path == "" {
		path = DefaultImageFile
	}
	abs, err := expandPath(path)
	if err != nil {
		return "", fmt.Errorf("export vm: %w", err)
	}
	return c.doTask(ctx, command{
		op:     "export vm",
		target: &sel,
		verb:   "export",
		args:   []string{abs},
		mode:   Mode{NonBlocking: opts.NonBlocking},
		rule:   MarkerSuccess,
	})
}

// Import creates a VM from an image file (empty means DefaultImageFile).
func (c *Client) Import(ctx context.Context, path string, opts AsyncOptions) (TaskID, error) {
	if path == "" {
		path = DefaultImageFile
	}
	return c.doTask(ctx, command{
		op:   "import vm",
		verb: "import",
		args: []string{path},
		mode: Mode{NonBlocking: opts.NonBlocking},
		rule: MarkerSuccess,
	})
}

// Rename changes a VM's title. memuc tends to hang here, so the call is
// bounded by the client's rename timeout.
func (c *Client) Rename(ctx context.Context, sel Selector, newName string) error {
	if err := required("new name", newName); err != nil {
		return fmt.Errorf("rename vm: %w", err)
	}
	_, err := c.do(ctx, command{
		op:     "rename vm",
		target: &sel,
		verb:   "rename",
		args:   []string{newName},
		mode:   Mode{Timeout: c.timeouts.Rename},
		rule:   MarkerSuccess,
	})
	return err
}

// Compress compacts a VM's disk image.
func (c *Client) Compress(ctx context.Context, sel Selector, opts AsyncOptions) (TaskID, error) {
	return c.doTask(ctx, command{
		op:     "compress vm",
		target: &sel,
		verb:   "compress",
		mode:   Mode{NonBlocking: opts.NonBlocking},
		rule:   MarkerSuccess,
	})
}

// List returns VM information. A zero opts.Selector lists every VM. When no
// VM exists the result is empty, not an error.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]VMInfo, error) {
	cmd := command{
		op:     "list vms",
		verb:   "listvms",
		args:   append(flag("-r", opts.Running), flag("-s", opts.DiskInfo)...),
		rule:   MarkerOutput,
		answer: Contains(noVMsMarker),
		retry:  true,
	}
	if !opts.Selector.IsZero() {
		cmd.target = &opts.Selector
	}
	out, err := c.do(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return parseVMList(cmd.op, out.Output, opts.DiskInfo)
}

// IsRunning reports whether a VM is running.
func (c *Client) IsRunning(ctx context.Context, sel Selector) (bool, error) {
	out, err := c.do(ctx, command{
		op:     "check vm running",
		target: &sel,
		verb:   "isrunning",
		rule:   Contains(runningMarker),
		answer: Contains(notRunningMarker),
		retry:  true,
	})
	if err != nil {
		return false, err
	}
	return parseRunning(out.Output), nil
}

// GetConfig reads one configuration value of a VM. See ConfigKeys.
func (c *Client) GetConfig(ctx context.Context, sel Selector, key string) (string, error) {
	if err := required("config key", key); err != nil {
		return "", fmt.Errorf("get vm config: %w", err)
	}
	const op = "get vm config"
	out, err := c.do(ctx, command{
		op:     op,
		target: &sel,
		verb:   "getconfigex",
		args:   []string{key},
		rule:   MarkerValue,
		retry:  true,
	})
	if err != nil {
		return "", err
	}
	return parseConfigValue(op, out.Output)
}

// SetConfig writes one configuration value of a VM. See ConfigKeys.
func (c *Client) SetConfig(ctx context.Context, sel Selector, key, value string) error {
	if err := required("config key", key); err != nil {
		return fmt.Errorf("set vm config: %w", err)
	}
	if err := required("config value", value); err != nil {
		return fmt.Errorf("set vm config: %w", err)
	}
	_, err := c.do(ctx, command{
		op:     "set vm config",
		target: &sel,
		verb:   "setconfigex",
		args:   []string{key, value},
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// Randomize gives a VM a new random device identity.
func (c *Client) Randomize(ctx context.Context, sel Selector) error {
	_, err := c.do(ctx, command{
		op:     "randomize vm",
		target: &sel,
		verb:   "randomize",
		rule:   MarkerSuccess,
	})
	return err
}
