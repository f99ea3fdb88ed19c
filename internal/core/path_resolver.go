package core

import (
	"os"
	"path/filepath"
	"strings"
)

// PathResolver turns relative or '~' prefixed target paths into absolute paths.
type PathResolver struct {
	configDir string // directory of the plan file, root for relative targets
}

func (pr PathResolver) Resolve(ip string) (string, error) {
	if ip == "~" || strings.HasPrefix(ip, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		ip = filepath.Join(homeDir, strings.TrimPrefix(ip, "~"))
	}

	if filepath.IsAbs(ip) {
		return filepath.Clean(ip), nil
	}

	if pr.configDir != "" {
		return filepath.Join(pr.configDir, ip), nil
	}

	return filepath.Abs(ip)
}
