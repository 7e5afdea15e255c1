// Package source pulls skill packages from externally hosted git
// repositories into the warehouse. It supports partial (sparse) checkouts
// of a repository subpath, resolves symlink placeholder files that sparse
// checkouts materialize, imports discovered packages without disturbing
// local enabled/disabled placement, and tracks remote-vs-local revisions
// to report update availability.
package source

import "time"

// Status values for a source record
const (
	StatusPending = "pending"
	StatusSynced  = "synced"
	StatusError   = "error"
)

// WholeRepo is the subpath meaning "the entire repository"
const WholeRepo = "."

// Source is one registered external source, persisted in .sources.json
type Source struct {
	ID           string    `json:"id"` // deterministic: owner-repo
	Owner        string    `json:"owner"`
	Repo         string    `json:"repo"`
	RepoURL      string    `json:"repoUrl"`
	Branch       string    `json:"branch"`
	Subpath      string    `json:"subpath"` // "." means whole repo
	Enabled      bool      `json:"enabled"`
	Status       string    `json:"status"`
	LastRevision string    `json:"lastRevision,omitempty"`
	HasUpdate    bool      `json:"hasUpdate"`
	LastChecked  time.Time `json:"lastChecked,omitempty"`
	LastSynced   time.Time `json:"lastSynced,omitempty"`
	PackageCount int       `json:"packageCount"`
}

// SyncResult summarizes one sync of a source
type SyncResult struct {
	Added    int    // packages placed in disabled/, fresh or refreshed
	Updated  int    // enabled packages refreshed in place
	Revision string // checkout revision after sync
}
