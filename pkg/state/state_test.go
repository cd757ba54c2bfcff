package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loft-sh/log"
	"gotest.tools/assert"
)

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()

	syncState, err := Load(dir, "acme/widget", log.Discard)
	assert.NilError(t, err)
	assert.Assert(t, syncState == nil)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()

	err := Save(dir, SyncState{Repository: "acme/widget", LastSyncedTag: "v1.2.3"})
	assert.NilError(t, err)

	syncState, err := Load(dir, "acme/widget", log.Discard)
	assert.NilError(t, err)
	assert.Assert(t, syncState != nil)
	assert.Equal(t, syncState.LastSyncedTag, "v1.2.3")
}

func TestSaveReplacesPreviousRecord(t *testing.T) {
	dir := t.TempDir()

	assert.NilError(t, Save(dir, SyncState{Repository: "acme/widget", LastSyncedTag: "v1.0.0"}))
	assert.NilError(t, Save(dir, SyncState{Repository: "acme/widget", LastSyncedTag: "v1.1.0"}))

	syncState, err := Load(dir, "acme/widget", log.Discard)
	assert.NilError(t, err)
	assert.Equal(t, syncState.LastSyncedTag, "v1.1.0")

	// no temp leftovers from the atomic replace
	entries, err := os.ReadDir(dir)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 1)
}

func TestLoadCorruptRecordDegrades(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, StateFile), []byte("{not json"), 0644)
	assert.NilError(t, err)

	syncState, err := Load(dir, "acme/widget", log.Discard)
	assert.NilError(t, err)
	assert.Assert(t, syncState == nil)
}

func TestLoadOtherRepositoryIgnored(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, Save(dir, SyncState{Repository: "acme/widget", LastSyncedTag: "v1.0.0"}))

	syncState, err := Load(dir, "acme/gadget", log.Discard)
	assert.NilError(t, err)
	assert.Assert(t, syncState == nil)
}
