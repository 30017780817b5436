package version

import (
	"fmt"
	"strings"
)

const (
	// LedgerVersion changes whenever the layout of the ledger keys or items changes.
	// A home written by another ledger version must be re-initialized.
	LedgerVersion uint32 = 1

	defaultVersion = "v0.1.0"
)

var (
	// it is changed using ldflags.
	//  ex) -ldflags "... -X 'github.com/beatoz/beatoz-factory/cmd/version.GitCommit=$(XXX)'"
	Version   string
	GitCommit string
)

// Info describes the running binary.
type Info struct {
	Version       string `json:"version"`
	GitCommit     string `json:"git_commit,omitempty"`
	LedgerVersion uint32 `json:"ledger_version"`
}

func Get() Info {
	return newInfo(Version, GitCommit)
}

func newInfo(ver, commit string) Info {
	ver = strings.TrimSpace(ver)
	if ver == "" {
		ver = defaultVersion
	} else if !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	commit = strings.TrimSpace(commit)
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return Info{
		Version:       ver,
		GitCommit:     commit,
		LedgerVersion: LedgerVersion,
	}
}

// String returns e.g. "beatoz-factory v0.1.0-1a2b3c4d (ledger 1)".
func (i Info) String() string {
	s := "beatoz-factory " + i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	return fmt.Sprintf("%s (ledger %d)", s, i.LedgerVersion)
}

func String() string {
	return Get().String()
}
