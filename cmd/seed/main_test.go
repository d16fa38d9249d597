package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const snapshotPath = "../../app/catalog/testdata/snapshot.json"

func useSQLite(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_NAME", dbPath)
	t.Setenv("LOG_LEVEL", "error")
	return dbPath
}

func TestRealMain(t *testing.T) {
	testCases := []struct {
		name         string
		args         []string
		snapshotEnv  string
		expectedCode int
	}{
		{name: "Snapshot from argument", args: []string{snapshotPath}, expectedCode: 0},
		{name: "Snapshot from environment", snapshotEnv: snapshotPath, expectedCode: 0},
		{name: "Missing snapshot file", args: []string{"does-not-exist.json"}, expectedCode: 1},
		{name: "Unknown flag", args: []string{"-bogus"}, expectedCode: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			useSQLite(t)
			if tc.snapshotEnv != "" {
				t.Setenv("SNAPSHOT_PATH", tc.snapshotEnv)
			}

			assert.Equal(t, tc.expectedCode, realMain(tc.args))
		})
	}
}

func TestRealMainInvalidLogLevel(t *testing.T) {
	useSQLite(t)
	t.Setenv("LOG_LEVEL", "loud")

	assert.Equal(t, 1, realMain([]string{snapshotPath}))
}
