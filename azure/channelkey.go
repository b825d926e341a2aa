// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package azure

import (
	"context"
	"net/http"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
)

const extendedInfoName = "vaultExtendedInfo"

var errNoIntegrityKey = errors.New("vault extended info carries no integrity key")

var _ vaultcreds.ChannelKeyProvider = (*channelKeys)(nil)

type channelKeys struct {
	client *Client
}

// NewChannelKeyProvider returns a provider reading the integrity key from the
// vault's extended info resource.
func NewChannelKeyProvider(client *Client) vaultcreds.ChannelKeyProvider {
	return &channelKeys{client: client}
}

type extendedInfoResponse struct {
	Properties extendedInfoProperties `json:"properties"`
}

type extendedInfoProperties struct {
	IntegrityKey string `json:"integrityKey"`
	Algorithm    string `json:"algorithm"`
}

func (ck *channelKeys) ChannelKey(ctx context.Context, vault vaultcreds.Vault) (string, error) {
	path, err := ck.client.vaultPath(vault.SubscriptionID, vault.ResourceGroup, vault.Name, "extendedInformation", extendedInfoName)
	if err != nil {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, err)
	}

	var resp extendedInfoResponse
	if err := ck.client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, err)
	}
	if resp.Properties.IntegrityKey == "" {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, errNoIntegrityKey)
	}

	return resp.Properties.IntegrityKey, nil
}
