//go:build windows

package locate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows/registry"

	"github.com/pyclashbot/memuc/internal/exec"
)

// Uninstall keys the MEmu installer writes, native first.
var registryKeys = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\MEmu`,
	`SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall\MEmu`,
}

// knownDirs are the installer's default locations.
var knownDirs = []string{
	`C:\Program Files\Microvirt\MEmu`,
	`C:\Program Files (x86)\Microvirt\MEmu`,
	`D:\Program Files\Microvirt\MEmu`,
}

// RegistryBackend reads MEmu's InstallLocation from the registry.
type RegistryBackend struct{}

func (RegistryBackend) Name() string { return "registry" }

func (RegistryBackend) Locate(context.Context) (string, error) {
	var errs []error
	for _, path := range registryKeys {
		loc, err := installLocation(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return checkCandidate(filepath.Join(loc, "Memu", binaryNameExe))
	}
	return "", errors.Join(errs...)
}

func installLocation(path string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf(`HKLM\%s: %w`, path, err)
	}
	defer k.Close()

	loc, _, err := k.GetStringValue("InstallLocation")
	if err != nil {
		return "", fmt.Errorf(`HKLM\%s\InstallLocation: %w`, path, err)
	}
	return loc, nil
}

// Default returns the backends to search on Windows.
func Default(e exec.Executor) []Backend {
	return []Backend{
		RegistryBackend{},
		NewPathBackend(e),
		NewDirsBackend(knownDirs...),
	}
}
