// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds

import (
	"context"
	stderrors "errors"

	"github.com/absmach/vaultcreds/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// IssueRequest is one entry of a batch issuance.
type IssueRequest struct {
	Vault     Vault  `json:"vault"`
	Site      *Site  `json:"site,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
}

// IssueResult is the outcome of one IssueRequest.
type IssueResult struct {
	Request  IssueRequest   `json:"request"`
	Artifact OutputArtifact `json:"artifact"`
	Err      error          `json:"-"`
}

// IssueAll issues credentials for every request with at most limit calls in
// flight. A limit of zero or less means no limit. Every request is attempted
// regardless of the others. Results keep the order of reqs and the returned
// error is the first concrete failure in that order.
func IssueAll(ctx context.Context, svc Service, reqs []IssueRequest, limit int) ([]IssueResult, error) {
	results := make([]IssueResult, len(reqs))
	failures := make([]error, len(reqs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			artifact, err := svc.Issue(ctx, req.Vault, req.Site, req.OutputDir)
			results[i] = IssueResult{
				Request:  req,
				Artifact: artifact,
				Err:      err,
			}
			failures[i] = err
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Cause(stderrors.Join(failures...))
}
