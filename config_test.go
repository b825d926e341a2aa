// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/vaultcreds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	custom := vaultcreds.DefaultProfile()
	custom.SchemaVersion = "2.1"
	custom.AgentLinks = []string{"https://agents.example.com/backup"}

	testCases := []struct {
		desc     string
		filename string
		profile  vaultcreds.Profile
		err      bool
	}{
		{
			desc:     "no file uses defaults",
			filename: "",
			profile:  vaultcreds.DefaultProfile(),
		},
		{
			desc:     "empty file uses defaults",
			filename: write("empty.yaml", ""),
			profile:  vaultcreds.DefaultProfile(),
		},
		{
			desc:     "partial file overrides named keys",
			filename: write("partial.yaml", "schema_version: \"2.1\"\nagent_links:\n  - https://agents.example.com/backup\n"),
			profile:  custom,
		},
		{
			desc:     "blank required value",
			filename: write("blank.yaml", "file_extension: \"\"\n"),
			err:      true,
		},
		{
			desc:     "malformed yaml",
			filename: write("malformed.yaml", "schema_version: [\n"),
			err:      true,
		},
		{
			desc:     "missing file",
			filename: filepath.Join(dir, "missing.yaml"),
			err:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			profile, err := vaultcreds.LoadProfile(tc.filename)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.profile, profile)
		})
	}
}

func TestDefaultProfileIsolation(t *testing.T) {
	first := vaultcreds.DefaultProfile()
	first.AgentLinks[0] = "changed"

	second := vaultcreds.DefaultProfile()
	assert.NotEqual(t, "changed", second.AgentLinks[0])
	assert.NoError(t, second.Validate())
}
