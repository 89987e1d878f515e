package memuc

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// VMInfo is one row of memuc's VM listing.
type VMInfo struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	TopLevel  string `json:"top_level_handle"`
	Running   bool   `json:"running"`
	PID       int    `json:"pid"`
	DiskUsage int64  `json:"disk_usage"` // -1 unless disk info was requested
}

// TaskID identifies a background task started in non-blocking mode.
// It is empty when memuc did not report one.
type TaskID string

// Key is a hardware key that can be sent to a VM.
type Key string

// Keys accepted by SendKey.
const (
	KeyBack       Key = "back"
	KeyHome       Key = "home"
	KeyMenu       Key = "menu"
	KeyVolumeUp   Key = "volumeup"
	KeyVolumeDown Key = "volumedown"
)

// Keys lists every valid Key.
var Keys = []Key{KeyBack, KeyHome, KeyMenu, KeyVolumeUp, KeyVolumeDown}

// ParseKey validates a key name.
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Keys, k) {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidKey, s, joinKeys())
	}
	return k, nil
}

func joinKeys() string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// ConfigKeys lists the VM configuration keys memuc understands, for
// GetConfig and SetConfig. Boolean-like keys take "1" or "0".
var ConfigKeys = []string{
	"name", "cpus", "cpucap", "memory", "is_full_screen", "is_hide_toolbar",
	"turbo_mode", "graphics_render_mode", "enable_su", "enable_audio", "fps",
	"virtual_keyboard_mode", "sync_time", "phone_layout", "start_window_mode",
	"win_x", "win_y", "win_scaling_percent2", "is_custom_resolution",
	"resolution_width", "resolution_height", "vbox_dpi", "linenum", "imei",
	"imsi", "simserial", "microvirt_vm_brand", "microvirt_vm_model",
	"microvirt_vm_manufacturer", "selected_map", "latitude", "longitude",
	"picturepath", "musicpath", "moviepath", "downloadpath",
}

// IsConfigKey reports whether key is one of ConfigKeys.
func IsConfigKey(key string) bool {
	return slices.Contains(ConfigKeys, key)
}

// StartOptions configures Start.
type StartOptions struct {
	Headless    bool
	NonBlocking bool
	Timeout     time.Duration
}

// StopOptions configures Stop and StopAll.
type StopOptions struct {
	NonBlocking bool
	Timeout     time.Duration
}

// CloneOptions configures Clone.
type CloneOptions struct {
	NewName     string // optional name for the copy
	NonBlocking bool
}

// AsyncOptions configures the long-running operations that only offer a
// choice between blocking and non-blocking execution.
type AsyncOptions struct {
	NonBlocking bool
}

// ListOptions configures List. A zero Selector lists every VM.
type ListOptions struct {
	Selector Selector
	Running  bool
	DiskInfo bool
}

// InstallOptions configures InstallAPK.
type InstallOptions struct {
	CreateShortcut bool
}
