package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setLookupFlags(t *testing.T, id int, lastActive string) *bytes.Buffer {
	t.Helper()
	oldID, oldActive, oldNow := lookupID, lookupLastActive, now
	lookupID, lookupLastActive = id, lastActive
	now = func() time.Time { return time.Date(2024, time.May, 31, 12, 0, 0, 0, time.UTC) }

	var out bytes.Buffer
	lookupCmd.SetOut(&out)
	t.Cleanup(func() {
		lookupID, lookupLastActive, now = oldID, oldActive, oldNow
		lookupCmd.SetOut(nil)
	})
	return &out
}

func TestLookupCmd_Metadata(t *testing.T) {
	assert.Equal(t, "lookup", lookupCmd.Use)
	require.NotNil(t, lookupCmd.Flags().Lookup("id"))
	require.NotNil(t, lookupCmd.Flags().Lookup("last-active"))
}

func TestLookupCmd_UsesCreatemapDate(t *testing.T) {
	c := testConfig(t, t.TempDir())
	writeInput(t, c.Files.Createmap, "7\t11/30/19\n")
	out := setLookupFlags(t, 7, "")

	require.NoError(t, lookupCmd.RunE(lookupCmd, nil))
	assert.Equal(t, "7\t2020-02-29\n", out.String())
}

func TestLookupCmd_LastActiveWins(t *testing.T) {
	c := testConfig(t, t.TempDir())
	writeInput(t, c.Files.Createmap, "7\t11/30/19\n")
	out := setLookupFlags(t, 7, "2023-06-15")

	require.NoError(t, lookupCmd.RunE(lookupCmd, nil))
	assert.Equal(t, "7\t2023-09-15\n", out.String())
}

func TestLookupCmd_UnknownIDUsesToday(t *testing.T) {
	c := testConfig(t, t.TempDir())
	c.Lookup.GraceMonths = 1
	writeInput(t, c.Files.Createmap, "7\t11/30/19\n")
	out := setLookupFlags(t, 8, "")

	require.NoError(t, lookupCmd.RunE(lookupCmd, nil))
	assert.Equal(t, "8\t2024-06-30\n", out.String())
}

func TestLookupCmd_BadLastActive(t *testing.T) {
	c := testConfig(t, t.TempDir())
	writeInput(t, c.Files.Createmap, "7\t11/30/19\n")
	setLookupFlags(t, 7, "06/15/23")

	err := lookupCmd.RunE(lookupCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --last-active")
}

func TestLookupCmd_MissingCreatemap(t *testing.T) {
	testConfig(t, t.TempDir())
	setLookupFlags(t, 7, "")

	err := lookupCmd.RunE(lookupCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup: load createmap")
}

func TestLookupCmd_UnpaddedLastActive(t *testing.T) {
	c := testConfig(t, t.TempDir())
	writeInput(t, c.Files.Createmap, "7\t11/30/19\n")
	out := setLookupFlags(t, 7, "2023-6-5")

	require.NoError(t, lookupCmd.RunE(lookupCmd, nil))
	assert.Equal(t, "7\t2023-09-05\n", out.String())
}
