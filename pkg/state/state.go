package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/loft-sh/log"
	"github.com/pkg/errors"
)

// StateFile is the name of the sync record inside the output directory
var StateFile = ".relsync-state.json"

// SyncState records the last release that was fully downloaded and unpacked
// for a repository. The tag always refers to a completely processed release,
// never to a partial download.
type SyncState struct {
	// Repository is the "owner/name" slug the record belongs to
	Repository string `json:"repository"`

	// LastSyncedTag is the tag of the last fully synced release
	LastSyncedTag string `json:"lastSyncedTag"`
}

// Load reads the sync record for the given output directory and repository.
// A missing file, a record for a different repository or an unreadable
// record all mean "no prior sync"; corruption is logged and degrades to a
// full re-sync instead of failing the run.
func Load(outputDir, repository string, logger log.Logger) (*SyncState, error) {
	stateBytes, err := os.ReadFile(filepath.Join(outputDir, StateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "read sync state")
	}

	syncState := &SyncState{}
	err = json.Unmarshal(stateBytes, syncState)
	if err != nil {
		logger.Warnf("Sync state in %s is unreadable, falling back to a full sync: %v", outputDir, err)
		return nil, nil
	}
	if syncState.Repository != repository {
		return nil, nil
	}

	return syncState, nil
}

// Save atomically replaces the sync record. The record is written to a
// temporary file in the same directory and renamed into place, so a crash
// mid-write leaves the previous record untouched.
func Save(outputDir string, syncState SyncState) error {
	out, err := json.MarshalIndent(syncState, "", "  ")
	if err != nil {
		return err
	}

	err = os.MkdirAll(outputDir, 0755)
	if err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(outputDir, StateFile+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp state file")
	}
	defer os.Remove(tempFile.Name())

	_, err = tempFile.Write(out)
	if err != nil {
		_ = tempFile.Close()
		return errors.Wrap(err, "write sync state")
	}
	err = tempFile.Close()
	if err != nil {
		return err
	}

	return os.Rename(tempFile.Name(), filepath.Join(outputDir, StateFile))
}
