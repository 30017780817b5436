package libs

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultSFilePerm = 0o600
	DefaultDirPerm   = 0o700
)

func GetHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}

// ExpandPath replaces the leading `~` of `path` with the home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		return filepath.Join(GetHome(), strings.TrimPrefix(path, "~"))
	}
	return path
}
