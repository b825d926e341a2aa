// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package azure

import (
	"context"
	"net/http"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
)

var _ vaultcreds.AuthModeResolver = (*resolver)(nil)

type resolver struct {
	client *Client
}

// NewAuthModeResolver returns a resolver reading the auth type from the vault resource.
func NewAuthModeResolver(client *Client) vaultcreds.AuthModeResolver {
	return &resolver{client: client}
}

type vaultResponse struct {
	ID         string          `json:"id"`
	Location   string          `json:"location"`
	Properties vaultProperties `json:"properties"`
}

type vaultProperties struct {
	AuthType string `json:"authType"`
}

// AuthMode treats a vault without an explicit auth type as AzureActiveDirectory.
func (r *resolver) AuthMode(ctx context.Context, resourceGroup, vaultName string) (vaultcreds.AuthMode, error) {
	path, err := r.client.vaultPath("", resourceGroup, vaultName)
	if err != nil {
		return 0, errors.Wrap(vaultcreds.ErrAuthModeUnavailable, err)
	}

	var resp vaultResponse
	if err := r.client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return 0, errors.Wrap(vaultcreds.ErrAuthModeUnavailable, err)
	}

	if resp.Properties.AuthType == "" {
		return vaultcreds.AzureActiveDirectory, nil
	}
	return vaultcreds.ParseAuthMode(resp.Properties.AuthType)
}
