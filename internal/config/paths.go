package config

import (
	"os"
	"path/filepath"
	"strings"
)

// RuntimeRoot is the directory relative runtime paths resolve against:
// $HW_HOME when set, otherwise the directory of the running binary.
func RuntimeRoot() string {
	if home := strings.TrimSpace(os.Getenv(EnvHome)); home != "" {
		return filepath.Clean(home)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolveRuntimePath returns raw, or fallback when raw is blank, as an
// absolute path under RuntimeRoot.
func ResolveRuntimePath(raw, fallback string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallback)
	}
	if target == "" {
		return RuntimeRoot()
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(RuntimeRoot(), target)
}
