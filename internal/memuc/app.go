package memuc

import (
	"context"
	"fmt"
	"time"
)

// InstallAPK installs an APK file on a VM.
func (c *Client) InstallAPK(ctx context.Context, sel Selector, apkPath string, opts InstallOptions) error {
	if err := required("apk path", apkPath); err != nil {
		return fmt.Errorf("install apk: %w", err)
	}
	_, err := c.do(ctx, command{
		op:     "install apk",
		target: &sel,
		verb:   "installapp",
		args:   append([]string{apkPath}, flag("-s", opts.CreateShortcut)...),
		rule:   MarkerSuccess,
	})
	return err
}

// UninstallAPK removes an app from a VM.
func (c *Client) UninstallAPK(ctx context.Context, sel Selector, pkg string) error {
	if err := required("package name", pkg); err != nil {
		return fmt.Errorf("uninstall apk: %w", err)
	}
	_, err := c.do(ctx, command{
		op:     "uninstall apk",
		target: &sel,
		verb:   "uninstallapp",
		args:   []string{pkg},
		rule:   MarkerSuccess,
	})
	return err
}

// StartApp launches an app. A positive timeout bounds the call.
func (c *Client) StartApp(ctx context.Context, sel Selector, pkg string, timeout time.Duration) error {
	if err := required("package name", pkg); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	_, err := c.do(ctx, command{
		op:     "start app",
		target: &sel,
		verb:   "startapp",
		args:   []string{pkg},
		mode:   Mode{Timeout: timeout},
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// StopApp stops a running app.
func (c *Client) StopApp(ctx context.Context, sel Selector, pkg string) error {
	if err := required("package name", pkg); err != nil {
		return fmt.Errorf("stop app: %w", err)
	}
	_, err := c.do(ctx, command{
		op:     "stop app",
		target: &sel,
		verb:   "stopapp",
		args:   []string{pkg},
		rule:   MarkerSuccess,
		retry:  true,
	})
	return err
}

// AppList returns the packages installed on a running VM. A zero timeout
// uses the client's app list timeout. ErrVMNotRunning is returned when the
// VM is not up.
func (c *Client) AppList(ctx context.Context, sel Selector, timeout time.Duration) ([]string, error) {
	if timeout <= 0 {
		timeout = c.timeouts.AppList
	}
	out, err := c.do(ctx, command{
		op:     "list apps",
		target: &sel,
		verb:   "getappinfolist",
		mode:   Mode{Timeout: timeout},
		rule:   MarkerOutput,
		answer: Contains(vmNotRunningMarker),
		retry:  true,
	})
	if err != nil {
		return nil, err
	}
	pkgs, err := parseAppList(out.Output)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	return pkgs, nil
}

// CreateShortcut puts an app shortcut on the VM's desktop. The call is
// bounded by the client's shortcut timeout.
func (c *Client) CreateShortcut(ctx context.Context, sel Selector, pkg string) error {
	if err := required("package name", pkg); err != nil {
		return fmt.Errorf("create shortcut: %w", err)
	}
	_, err := c.do(ctx, command{
		op:     "create shortcut",
		target: &sel,
		verb:   "createshortcut",
		args:   []string{pkg},
		mode:   Mode{Timeout: c.timeouts.Shortcut},
		rule:   MarkerSuccess,
	})
	return err
}
