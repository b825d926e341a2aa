// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds_test

import (
	"encoding/json"
	"testing"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVaultType(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		vt   vaultcreds.VaultType
		err  error
	}{
		{desc: "backup", in: "Backup", vt: vaultcreds.Backup},
		{desc: "site recovery", in: "SiteRecovery", vt: vaultcreds.SiteRecovery},
		{desc: "site recovery short name", in: "asr", vt: vaultcreds.SiteRecovery},
		{desc: "unknown", in: "archive", err: vaultcreds.ErrInvalidVault},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			vt, err := vaultcreds.ParseVaultType(tc.in)
			assert.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
			assert.Equal(t, tc.vt, vt)
		})
	}
}

func TestParseAuthMode(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		mode vaultcreds.AuthMode
		err  error
	}{
		{desc: "legacy", in: "Legacy", mode: vaultcreds.Legacy},
		{desc: "access control service", in: "AccessControlService", mode: vaultcreds.Legacy},
		{desc: "aad", in: "AAD", mode: vaultcreds.AzureActiveDirectory},
		{desc: "azure active directory", in: "AzureActiveDirectory", mode: vaultcreds.AzureActiveDirectory},
		{desc: "unknown", in: "kerberos", err: vaultcreds.ErrAuthModeUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			mode, err := vaultcreds.ParseAuthMode(tc.in)
			assert.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
			assert.Equal(t, tc.mode, mode)
		})
	}
}

func TestValidityHours(t *testing.T) {
	backup, err := vaultcreds.ValidityHours(vaultcreds.Backup)
	require.NoError(t, err)
	assert.Equal(t, uint(48), backup)

	siteRecovery, err := vaultcreds.ValidityHours(vaultcreds.SiteRecovery)
	require.NoError(t, err)
	assert.Equal(t, uint(120), siteRecovery)

	_, err = vaultcreds.ValidityHours(vaultcreds.VaultType(0))
	assert.True(t, errors.Contains(err, vaultcreds.ErrInvalidVault))
}

func TestSiteValidate(t *testing.T) {
	testCases := []struct {
		desc    string
		site    *vaultcreds.Site
		present bool
		err     error
	}{
		{desc: "absent site", site: nil},
		{desc: "empty site", site: &vaultcreds.Site{}},
		{desc: "complete site", site: &vaultcreds.Site{ID: "site-1", FriendlyName: "S1"}, present: true},
		{desc: "id only", site: &vaultcreds.Site{ID: "site-1"}, err: vaultcreds.ErrInvalidSiteIdentity},
		{desc: "name only", site: &vaultcreds.Site{FriendlyName: "S1"}, err: vaultcreds.ErrInvalidSiteIdentity},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.site.Validate()
			assert.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
			assert.Equal(t, tc.present, tc.site.Present())
		})
	}
}

func TestVaultValidateFor(t *testing.T) {
	vault := vaultcreds.Vault{Name: "V1", ResourceGroup: "rg1", Type: vaultcreds.Backup}

	testCases := []struct {
		desc           string
		subscriptionID string
		location       string
		mode           vaultcreds.AuthMode
		err            error
	}{
		{desc: "aad with subscription and location", subscriptionID: "sub", location: "westeurope", mode: vaultcreds.AzureActiveDirectory},
		{desc: "aad without location", subscriptionID: "sub", mode: vaultcreds.AzureActiveDirectory, err: vaultcreds.ErrIncompleteMetadata},
		{desc: "aad without subscription", location: "westeurope", mode: vaultcreds.AzureActiveDirectory, err: vaultcreds.ErrIncompleteMetadata},
		{desc: "legacy without either", mode: vaultcreds.Legacy},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			v := vault
			v.SubscriptionID = tc.subscriptionID
			v.Location = tc.location
			err := v.ValidateFor(tc.mode)
			assert.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
		})
	}
}

func TestVaultTypeJSON(t *testing.T) {
	var req vaultcreds.IssueRequest
	err := json.Unmarshal([]byte(`{"vault":{"name":"V1","resource_group":"rg1","type":"SiteRecovery"},"site":{"id":"site-1","friendly_name":"S1"}}`), &req)
	require.NoError(t, err)
	assert.Equal(t, vaultcreds.SiteRecovery, req.Vault.Type)
	assert.NoError(t, req.Vault.Validate())
	assert.True(t, req.Site.Present())

	out, err := json.Marshal(req.Vault)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"SiteRecovery"`)

	err = json.Unmarshal([]byte(`{"vault":{"type":"Archive"}}`), &req)
	assert.Error(t, err)
}
