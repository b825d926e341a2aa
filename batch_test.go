// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/mocks"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIssueAll(t *testing.T) {
	v2 := backupVault
	v2.Name = "V2"
	v3 := siteRecoveryVault
	v3.Name = "V3"

	reqs := []vaultcreds.IssueRequest{
		{Vault: backupVault},
		{Vault: v2, OutputDir: "/tmp/creds"},
		{Vault: v3, Site: site},
	}

	testCases := []struct {
		desc  string
		limit int
		errs  []error
		err   error
	}{
		{
			desc:  "all requests succeed",
			limit: 2,
			errs:  []error{nil, nil, nil},
		},
		{
			desc:  "unbounded concurrency",
			limit: 0,
			errs:  []error{nil, nil, nil},
		},
		{
			desc:  "first failure in request order is reported",
			limit: 1,
			errs: []error{
				nil,
				errors.Wrap(vaultcreds.ErrUploadRejected, stderrors.New("403 Forbidden")),
				vaultcreds.ErrWrite,
			},
			err: vaultcreds.ErrUploadRejected,
		},
		{
			desc:  "later failures do not stop other requests",
			limit: 3,
			errs:  []error{nil, nil, vaultcreds.ErrChannelKeyUnavailable},
			err:   vaultcreds.ErrChannelKeyUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			svc := mocks.NewService(t)
			for i, req := range reqs {
				artifact := vaultcreds.OutputArtifact{}
				if tc.errs[i] == nil {
					artifact.FilePath = "/var/lib/vaultcreds/" + req.Vault.Name
				}
				svc.On("Issue", mock.Anything, req.Vault, req.Site, req.OutputDir).Return(artifact, tc.errs[i]).Once()
			}

			results, err := vaultcreds.IssueAll(context.Background(), svc, reqs, tc.limit)
			require.Len(t, results, len(reqs))
			for i, res := range results {
				assert.Equal(t, reqs[i], res.Request)
				assert.Equal(t, tc.errs[i], res.Err)
				if tc.errs[i] == nil {
					assert.Equal(t, "/var/lib/vaultcreds/"+reqs[i].Vault.Name, res.Artifact.FilePath)
				}
			}

			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
		})
	}
}
