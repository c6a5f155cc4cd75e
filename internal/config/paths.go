package config

import "path/filepath"

// joinUnder resolves p against root unless p is already absolute.
func joinUnder(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
