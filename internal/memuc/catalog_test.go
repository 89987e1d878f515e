package memuc

import (
	"context"
	"net/netip"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Argv(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		output   string
		call     func(c *Client) error
		wantArgs []string
		wantMode Mode
	}{
		{
			name:     "create default version",
			output:   "SUCCESS index:1",
			call:     func(c *Client) error { _, err := c.Create(ctx, ""); return err },
			wantArgs: []string{"create", "96"},
		},
		{
			name:     "remove by name",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.Remove(ctx, Name("old")) },
			wantArgs: []string{"-n", "old", "remove"},
		},
		{
			name:   "clone with new name in background",
			output: "SUCCESS taskid:9",
			call: func(c *Client) error {
				_, err := c.Clone(ctx, Index(0), CloneOptions{NewName: "copy", NonBlocking: true})
				return err
			},
			wantArgs: []string{"-i", "0", "clone", "-r", "copy", "-t"},
			wantMode: Mode{NonBlocking: true},
		},
		{
			name:     "clone without name",
			output:   "SUCCESS",
			call:     func(c *Client) error { _, err := c.Clone(ctx, Index(0), CloneOptions{}); return err },
			wantArgs: []string{"-i", "0", "clone"},
		},
		{
			name:     "import",
			output:   "SUCCESS",
			call:     func(c *Client) error { _, err := c.Import(ctx, "a.ova", AsyncOptions{}); return err },
			wantArgs: []string{"import", "a.ova"},
		},
		{
			name:     "rename is bounded",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.Rename(ctx, Index(2), "new title") },
			wantArgs: []string{"-i", "2", "rename", "new title"},
			wantMode: Mode{Timeout: DefaultRenameTimeout},
		},
		{
			name:     "compress",
			output:   "SUCCESS",
			call:     func(c *Client) error { _, err := c.Compress(ctx, Index(1), AsyncOptions{}); return err },
			wantArgs: []string{"-i", "1", "compress"},
		},
		{
			name:     "list all omits false flags",
			output:   "0,MEmu,0,0,0",
			call:     func(c *Client) error { _, err := c.List(ctx, ListOptions{}); return err },
			wantArgs: []string{"listvms"},
		},
		{
			name:   "list one with flags",
			output: "0,MEmu,0,1,44,100",
			call: func(c *Client) error {
				_, err := c.List(ctx, ListOptions{Selector: Index(0), Running: true, DiskInfo: true})
				return err
			},
			wantArgs: []string{"-i", "0", "listvms", "-r", "-s"},
		},
		{
			name:     "set config",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.SetConfig(ctx, Index(0), "cpus", "4") },
			wantArgs: []string{"-i", "0", "setconfigex", "cpus", "4"},
		},
		{
			name:     "randomize",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.Randomize(ctx, Index(0)) },
			wantArgs: []string{"-i", "0", "randomize"},
		},
		{
			name:   "start headless with timeout",
			output: "SUCCESS",
			call: func(c *Client) error {
				_, err := c.Start(ctx, Index(3), StartOptions{Headless: true, Timeout: time.Minute})
				return err
			},
			wantArgs: []string{"-i", "3", "start", "-b"},
			wantMode: Mode{Timeout: time.Minute},
		},
		{
			name:     "stop",
			output:   "SUCCESS",
			call:     func(c *Client) error { _, err := c.Stop(ctx, Name("a"), StopOptions{}); return err },
			wantArgs: []string{"-n", "a", "stop"},
		},
		{
			name:     "stop all",
			output:   "SUCCESS",
			call:     func(c *Client) error { _, err := c.StopAll(ctx, StopOptions{}); return err },
			wantArgs: []string{"stopall"},
		},
		{
			name:     "reboot",
			output:   "SUCCESS",
			call:     func(c *Client) error { _, err := c.Reboot(ctx, Index(0), AsyncOptions{}); return err },
			wantArgs: []string{"-i", "0", "reboot"},
		},
		{
			name:     "sort windows",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.SortWindows(ctx) },
			wantArgs: []string{"sortwin"},
		},
		{
			name:   "install with shortcut",
			output: "SUCCESS",
			call: func(c *Client) error {
				return c.InstallAPK(ctx, Index(0), "app.apk", InstallOptions{CreateShortcut: true})
			},
			wantArgs: []string{"-i", "0", "installapp", "app.apk", "-s"},
		},
		{
			name:     "install without shortcut",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.InstallAPK(ctx, Index(0), "app.apk", InstallOptions{}) },
			wantArgs: []string{"-i", "0", "installapp", "app.apk"},
		},
		{
			name:     "uninstall",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.UninstallAPK(ctx, Index(0), "com.x") },
			wantArgs: []string{"-i", "0", "uninstallapp", "com.x"},
		},
		{
			name:     "start app",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.StartApp(ctx, Index(0), "com.x", 0) },
			wantArgs: []string{"-i", "0", "startapp", "com.x"},
		},
		{
			name:     "stop app",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.StopApp(ctx, Index(0), "com.x") },
			wantArgs: []string{"-i", "0", "stopapp", "com.x"},
		},
		{
			name:     "send key",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.SendKey(ctx, Index(0), KeyBack) },
			wantArgs: []string{"-i", "0", "sendkey", "back"},
		},
		{
			name:     "shake",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.Shake(ctx, Index(0)) },
			wantArgs: []string{"-i", "0", "shake"},
		},
		{
			name:     "connect",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.ConnectInternet(ctx, Index(0)) },
			wantArgs: []string{"-i", "0", "connect"},
		},
		{
			name:     "disconnect",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.DisconnectInternet(ctx, Index(0)) },
			wantArgs: []string{"-i", "0", "disconnect"},
		},
		{
			name:     "input text",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.InputText(ctx, Index(0), "hello world") },
			wantArgs: []string{"-i", "0", "input", "hello world"},
		},
		{
			name:     "rotate",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.Rotate(ctx, Index(0)) },
			wantArgs: []string{"-i", "0", "rotate"},
		},
		{
			name:     "exec command",
			output:   "uid=0(root)",
			call:     func(c *Client) error { _, err := c.ExecCommand(ctx, Index(0), "id"); return err },
			wantArgs: []string{"-i", "0", "execcmd", "id"},
		},
		{
			name:     "set gps",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.SetGPS(ctx, Index(0), 48.8584, 2.2945) },
			wantArgs: []string{"-i", "0", "setgps", "48.8584", "2.2945"},
		},
		{
			name:     "zoom in",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.ZoomIn(ctx, Index(0)) },
			wantArgs: []string{"-i", "0", "zoomin"},
		},
		{
			name:     "zoom out",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.ZoomOut(ctx, Index(0)) },
			wantArgs: []string{"-i", "0", "zoomout"},
		},
		{
			name:     "app list uses default bound",
			output:   "package:com.x",
			call:     func(c *Client) error { _, err := c.AppList(ctx, Index(0), 0); return err },
			wantArgs: []string{"-i", "0", "getappinfolist"},
			wantMode: Mode{Timeout: DefaultAppListTimeout},
		},
		{
			name:     "accelerometer",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.SetAccelerometer(ctx, Index(0), 0, 9.8, -1.5) },
			wantArgs: []string{"-i", "0", "accelerometer", "0", "9.8", "-1.5"},
		},
		{
			name:     "create shortcut",
			output:   "SUCCESS",
			call:     func(c *Client) error { return c.CreateShortcut(ctx, Index(0), "com.x") },
			wantArgs: []string{"-i", "0", "createshortcut", "com.x"},
			wantMode: Mode{Timeout: DefaultShortcutTimeout},
		},
		{
			name:   "adb string is shell split",
			output: "ok",
			call: func(c *Client) error {
				_, err := c.SendADBString(ctx, Index(0), `shell input text "a b"`, 0)
				return err
			},
			wantArgs: []string{"-i", "0", "adb", "shell", "input", "text", "a b"},
		},
		{
			name:     "task status",
			output:   "running",
			call:     func(c *Client) error { _, err := c.TaskStatus(ctx, "9"); return err },
			wantArgs: []string{"taskstatus", "9"},
		},
		{
			name:     "version",
			output:   "9.1.1",
			call:     func(c *Client) error { _, err := c.Version(ctx); return err },
			wantArgs: []string{"version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockExec := replies(tt.output)
			c := newTestClient(t, mockExec)

			require.NoError(t, tt.call(c))

			require.Len(t, mockExec.RunCalls(), 1)
			opts := mockExec.RunCalls()[0].Opts
			assert.Equal(t, testPath, opts.Name)
			assert.Equal(t, tt.wantArgs, opts.Args)
			assert.Equal(t, tt.wantMode.Timeout, opts.Timeout)
		})
	}
}

func TestCatalog_RequiresSelector(t *testing.T) {
	ctx := context.Background()
	none := Selector{}

	calls := map[string]func(c *Client) error{
		"remove":     func(c *Client) error { return c.Remove(ctx, none) },
		"clone":      func(c *Client) error { _, err := c.Clone(ctx, none, CloneOptions{}); return err },
		"export":     func(c *Client) error { _, err := c.Export(ctx, none, "", AsyncOptions{}); return err },
		"rename":     func(c *Client) error { return c.Rename(ctx, none, "x") },
		"compress":   func(c *Client) error { _, err := c.Compress(ctx, none, AsyncOptions{}); return err },
		"is running": func(c *Client) error { _, err := c.IsRunning(ctx, none); return err },
		"get config": func(c *Client) error { _, err := c.GetConfig(ctx, none, "cpus"); return err },
		"set config": func(c *Client) error { return c.SetConfig(ctx, none, "cpus", "2") },
		"randomize":  func(c *Client) error { return c.Randomize(ctx, none) },
		"start":      func(c *Client) error { _, err := c.Start(ctx, none, StartOptions{}); return err },
		"stop":       func(c *Client) error { _, err := c.Stop(ctx, none, StopOptions{}); return err },
		"reboot":     func(c *Client) error { _, err := c.Reboot(ctx, none, AsyncOptions{}); return err },
		"install":    func(c *Client) error { return c.InstallAPK(ctx, none, "a.apk", InstallOptions{}) },
		"uninstall":  func(c *Client) error { return c.UninstallAPK(ctx, none, "com.x") },
		"start app":  func(c *Client) error { return c.StartApp(ctx, none, "com.x", 0) },
		"stop app":   func(c *Client) error { return c.StopApp(ctx, none, "com.x") },
		"send key":   func(c *Client) error { return c.SendKey(ctx, none, KeyHome) },
		"shake":      func(c *Client) error { return c.Shake(ctx, none) },
		"connect":    func(c *Client) error { return c.ConnectInternet(ctx, none) },
		"disconnect": func(c *Client) error { return c.DisconnectInternet(ctx, none) },
		"input":      func(c *Client) error { return c.InputText(ctx, none, "x") },
		"rotate":     func(c *Client) error { return c.Rotate(ctx, none) },
		"exec":       func(c *Client) error { _, err := c.ExecCommand(ctx, none, "ls"); return err },
		"set gps":    func(c *Client) error { return c.SetGPS(ctx, none, 1, 1) },
		"public ip":  func(c *Client) error { _, err := c.PublicIP(ctx, none); return err },
		"zoom in":    func(c *Client) error { return c.ZoomIn(ctx, none) },
		"zoom out":   func(c *Client) error { return c.ZoomOut(ctx, none) },
		"app list":   func(c *Client) error { _, err := c.AppList(ctx, none, 0); return err },
		"accel":      func(c *Client) error { return c.SetAccelerometer(ctx, none, 0, 0, 0) },
		"shortcut":   func(c *Client) error { return c.CreateShortcut(ctx, none, "com.x") },
		"adb":        func(c *Client) error { _, err := c.SendADB(ctx, none, []string{"devices"}, 0); return err },
		"adb conn":   func(c *Client) error { _, _, err := c.ADBConnection(ctx, none, 0); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			mockExec := replies("SUCCESS")
			c := newTestClient(t, mockExec)

			err := call(c)

			require.ErrorIs(t, err, ErrNoSelector)
			assert.True(t, IsConfigError(err))
			assert.Empty(t, mockExec.RunCalls(), "no process may be spawned")
		})
	}
}

func TestClient_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("returns reported index", func(t *testing.T) {
		c := newTestClient(t, replies("SUCCESS: create vm finished, index:7"))
		idx, err := c.Create(ctx, "76")
		require.NoError(t, err)
		assert.Equal(t, 7, idx)
	})

	t.Run("no index in acknowledgement", func(t *testing.T) {
		c := newTestClient(t, replies("SUCCESS"))
		idx, err := c.Create(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, -1, idx)
	})

	t.Run("failure is not retried", func(t *testing.T) {
		mockExec := replies("!ERROR: disk full")
		c := newTestClient(t, mockExec)

		_, err := c.Create(ctx, "")

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "ERROR: disk full", toolErr.Output)
		assert.Len(t, mockExec.RunCalls(), 1)
	})
}

func TestClient_Retries(t *testing.T) {
	ctx := context.Background()

	t.Run("start fails three times", func(t *testing.T) {
		mockExec := replies("!ERROR: busy")
		c := newTestClient(t, mockExec)

		_, err := c.Start(ctx, Index(0), StartOptions{})

		require.ErrorIs(t, err, ErrRetriesExhausted)
		assert.ErrorIs(t, err, ErrToolFailure)
		assert.Contains(t, err.Error(), "ERROR: busy")
		assert.Len(t, mockExec.RunCalls(), 3)
	})

	t.Run("stop succeeds on second try", func(t *testing.T) {
		mockExec := replies("!ERROR: busy", "SUCCESS")
		c := newTestClient(t, mockExec)

		_, err := c.Stop(ctx, Index(0), StopOptions{})

		require.NoError(t, err)
		assert.Len(t, mockExec.RunCalls(), 2)
	})

	t.Run("timeouts are retried", func(t *testing.T) {
		mockExec := timesOut("")
		c := newTestClient(t, mockExec)

		_, err := c.Start(ctx, Index(0), StartOptions{Timeout: time.Second})

		require.ErrorIs(t, err, ErrRetriesExhausted)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Len(t, mockExec.RunCalls(), 3)
	})

	t.Run("mode conflict spawns nothing", func(t *testing.T) {
		mockExec := replies("SUCCESS")
		c := newTestClient(t, mockExec)

		_, err := c.Start(ctx, Index(0), StartOptions{NonBlocking: true, Timeout: time.Second})

		require.ErrorIs(t, err, ErrModeConflict)
		assert.NotErrorIs(t, err, ErrRetriesExhausted)
		assert.Empty(t, mockExec.RunCalls())
	})

	t.Run("rename timeout is not retried", func(t *testing.T) {
		mockExec := timesOut("")
		c := newTestClient(t, mockExec)

		err := c.Rename(ctx, Index(0), "x")

		require.ErrorIs(t, err, ErrTimeout)
		assert.NotErrorIs(t, err, ErrRetriesExhausted)
		assert.Len(t, mockExec.RunCalls(), 1)
	})
}

func TestClient_NonBlockingTaskID(t *testing.T) {
	mockExec := replies("SUCCESS: start vm task queued, taskid:4711")
	c := newTestClient(t, mockExec)

	id, err := c.Start(context.Background(), Index(0), StartOptions{NonBlocking: true})

	require.NoError(t, err)
	assert.Equal(t, TaskID("4711"), id)
	assert.Equal(t, []string{"-i", "0", "start", "-t"}, lastArgs(mockExec))
}

func TestClient_List(t *testing.T) {
	ctx := context.Background()

	t.Run("parses rows", func(t *testing.T) {
		c := newTestClient(t, replies("0,Device1,0x1234,1,5555,1024\r\n"))

		vms, err := c.List(ctx, ListOptions{DiskInfo: true})

		require.NoError(t, err)
		require.Len(t, vms, 1)
		assert.Equal(t, "Device1", vms[0].Title)
		assert.Equal(t, int64(1024), vms[0].DiskUsage)
	})

	t.Run("no vms ignores exit status", func(t *testing.T) {
		mockExec := replies("!ERROR: read failed")
		c := newTestClient(t, mockExec)

		vms, err := c.List(ctx, ListOptions{})

		require.NoError(t, err)
		assert.Empty(t, vms)
		assert.Len(t, mockExec.RunCalls(), 1)
	})

	failures := map[string]string{
		"empty output with failure exit": "!",
		"error text with failure exit":   "!Error: service unavailable",
		"empty output":                   "",
	}
	for name, output := range failures {
		t.Run(name, func(t *testing.T) {
			mockExec := replies(output)
			c := newTestClient(t, mockExec)

			vms, err := c.List(ctx, ListOptions{})

			assert.Nil(t, vms)
			require.ErrorIs(t, err, ErrRetriesExhausted)
			assert.ErrorIs(t, err, ErrToolFailure)
			assert.Len(t, mockExec.RunCalls(), DefaultAttempts)
		})
	}

	t.Run("recovers after a failed run", func(t *testing.T) {
		mockExec := replies("!Error: service unavailable", "0,MEmu,0,1,10\r\n")
		c := newTestClient(t, mockExec)

		vms, err := c.List(ctx, ListOptions{})

		require.NoError(t, err)
		require.Len(t, vms, 1)
		assert.Len(t, mockExec.RunCalls(), 2)
	})
}

func TestClient_IsRunning(t *testing.T) {
	ctx := context.Background()

	t.Run("running", func(t *testing.T) {
		c := newTestClient(t, replies("Running\r\n"))

		running, err := c.IsRunning(ctx, Index(0))

		require.NoError(t, err)
		assert.True(t, running)
	})

	t.Run("not running with failure exit", func(t *testing.T) {
		mockExec := replies("!Not Running")
		c := newTestClient(t, mockExec)

		running, err := c.IsRunning(ctx, Index(0))

		require.NoError(t, err)
		assert.False(t, running)
		assert.Len(t, mockExec.RunCalls(), 1)
	})

	failures := map[string]string{
		"empty output with failure exit": "!",
		"crash message":                  "!Error: memuc crashed",
		"empty output":                   "",
		"unrelated output":               "SUCCESS",
	}
	for name, output := range failures {
		t.Run(name, func(t *testing.T) {
			mockExec := replies(output)
			c := newTestClient(t, mockExec)

			running, err := c.IsRunning(ctx, Index(0))

			assert.False(t, running)
			require.ErrorIs(t, err, ErrToolFailure)
			assert.ErrorIs(t, err, ErrRetriesExhausted)
			assert.Len(t, mockExec.RunCalls(), DefaultAttempts)

			var toolErr *ToolError
			require.ErrorAs(t, err, &toolErr)
			assert.Equal(t, strings.TrimPrefix(output, "!"), toolErr.Output)
		})
	}
}

func TestClient_GetConfig(t *testing.T) {
	ctx := context.Background()

	mockExec := replies("Value: 1080\r\n")
	c := newTestClient(t, mockExec)
	v, err := c.GetConfig(ctx, Name("Device1"), "resolution_height")
	require.NoError(t, err)
	assert.Equal(t, "1080", v)
	assert.Equal(t, []string{"-n", "Device1", "getconfigex", "resolution_height"}, lastArgs(mockExec))

	c = newTestClient(t, replies("ERROR: unknown key"))
	_, err = c.GetConfig(ctx, Index(0), "bogus")
	assert.ErrorIs(t, err, ErrRetriesExhausted)
}

func TestClient_Export(t *testing.T) {
	mockExec := replies("SUCCESS")
	c := newTestClient(t, mockExec)

	_, err := c.Export(context.Background(), Index(0), "images/vm.ova", AsyncOptions{})

	require.NoError(t, err)
	args := lastArgs(mockExec)
	require.Len(t, args, 4)
	assert.True(t, filepath.IsAbs(args[3]))
	assert.Equal(t, "vm.ova", filepath.Base(args[3]))
}

func TestClient_AppList(t *testing.T) {
	ctx := context.Background()

	t.Run("lists packages", func(t *testing.T) {
		c := newTestClient(t, replies("package:com.a\npackage:com.b\n"))
		pkgs, err := c.AppList(ctx, Index(0), 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"com.a", "com.b"}, pkgs)
	})

	t.Run("vm not running", func(t *testing.T) {
		c := newTestClient(t, replies("cmd: Can't find service: package\n"))
		_, err := c.AppList(ctx, Index(0), 0)
		assert.ErrorIs(t, err, ErrVMNotRunning)
	})

	t.Run("vm not running with failure exit is not retried", func(t *testing.T) {
		mockExec := replies("!cmd: Can't find service: package\n")
		c := newTestClient(t, mockExec)

		_, err := c.AppList(ctx, Index(0), 0)

		require.ErrorIs(t, err, ErrVMNotRunning)
		assert.NotErrorIs(t, err, ErrRetriesExhausted)
		assert.Len(t, mockExec.RunCalls(), 1)
	})

	t.Run("empty output is a failure", func(t *testing.T) {
		c := newTestClient(t, replies(""))
		_, err := c.AppList(ctx, Index(0), 0)
		assert.ErrorIs(t, err, ErrToolFailure)
	})

	t.Run("timeout surfaces as error", func(t *testing.T) {
		c := newTestClient(t, timesOut(""))
		_, err := c.AppList(ctx, Index(0), time.Second)
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestClient_PublicIP(t *testing.T) {
	mockExec := replies("203.0.113.5\n")
	c := newTestClient(t, mockExec)

	addr, err := c.PublicIP(context.Background(), Index(0))

	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("203.0.113.5"), addr)
	assert.Equal(t, []string{"-i", "0", "execcmd", "wget -O- whatismyip.akamai.com"}, lastArgs(mockExec))
}

func TestClient_ADBConnection(t *testing.T) {
	mockExec := replies("!connected to 127.0.0.1:21503\nlo: flags=73\n")
	c := newTestClient(t, mockExec)

	host, port, err := c.ADBConnection(context.Background(), Index(1), 0)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	assert.Equal(t, 21503, port)
	assert.Equal(t, []string{"-i", "1", "adb", "shell", "ifconfig"}, lastArgs(mockExec))
}

func TestClient_ArgumentValidation(t *testing.T) {
	ctx := context.Background()
	mockExec := replies("SUCCESS")
	c := newTestClient(t, mockExec)

	assert.ErrorIs(t, c.SendKey(ctx, Index(0), Key("power")), ErrInvalidKey)
	assert.ErrorIs(t, c.InputText(ctx, Index(0), ""), ErrEmptyArgument)
	assert.ErrorIs(t, c.SetGPS(ctx, Index(0), 91, 0), ErrInvalidArgument)
	_, err := c.SendADBString(ctx, Index(0), `shell "unterminated`, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c.SendADB(ctx, Index(0), nil, 0)
	assert.ErrorIs(t, err, ErrEmptyArgument)

	assert.Empty(t, mockExec.RunCalls())
}
