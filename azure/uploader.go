// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package azure

import (
	"context"
	"net/http"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
)

const (
	authTypeAAD = "AAD"
	authTypeACS = "ACS"
)

var errUnsupportedMode = errors.New("no registration type for auth mode")

var _ vaultcreds.Uploader = (*uploader)(nil)

type uploader struct {
	client *Client
}

// NewUploader returns an uploader registering certificates as vault
// certificates through Resource Manager.
func NewUploader(client *Client) vaultcreds.Uploader {
	return &uploader{client: client}
}

type certificateRequest struct {
	Properties rawCertificateData `json:"properties"`
}

type rawCertificateData struct {
	AuthType    string `json:"authType"`
	Certificate []byte `json:"certificate"`
}

type certificateResponse struct {
	Name       string             `json:"name"`
	Properties certificateDetails `json:"properties"`
}

type certificateDetails struct {
	AuthType                        string `json:"authType"`
	ResourceID                      int64  `json:"resourceId"`
	AADAuthority                    string `json:"aadAuthority"`
	AADTenantID                     string `json:"aadTenantId"`
	ServicePrincipalClientID        string `json:"servicePrincipalClientId"`
	AzureManagementEndpointAudience string `json:"azureManagementEndpointAudience"`
	Thumbprint                      string `json:"thumbprint"`
}

// Upload registers the public part of cert under its name. Responses with a
// 4xx status are rejections. Everything else that fails is unavailability.
func (u *uploader) Upload(ctx context.Context, cert vaultcreds.Certificate, vault vaultcreds.Vault, mode vaultcreds.AuthMode) (vaultcreds.TrustMetadata, error) {
	authType, err := registrationType(mode)
	if err != nil {
		return vaultcreds.TrustMetadata{}, errors.Wrap(vaultcreds.ErrUploadRejected, err)
	}

	path, err := u.client.vaultPath(vault.SubscriptionID, vault.ResourceGroup, vault.Name, "certificates", cert.Name())
	if err != nil {
		return vaultcreds.TrustMetadata{}, errors.Wrap(vaultcreds.ErrUploadRejected, err)
	}

	body := certificateRequest{
		Properties: rawCertificateData{
			AuthType:    authType,
			Certificate: cert.Raw(),
		},
	}
	var resp certificateResponse
	if err := u.client.do(ctx, http.MethodPut, path, body, &resp); err != nil {
		if code := statusCode(err); code >= http.StatusBadRequest && code < http.StatusInternalServerError {
			return vaultcreds.TrustMetadata{}, errors.Wrap(vaultcreds.ErrUploadRejected, err)
		}
		return vaultcreds.TrustMetadata{}, errors.Wrap(vaultcreds.ErrUploadUnavailable, err)
	}

	return vaultcreds.TrustMetadata{
		ResourceID:                 resp.Properties.ResourceID,
		Authority:                  resp.Properties.AADAuthority,
		TenantID:                   resp.Properties.AADTenantID,
		ServicePrincipalClientID:   resp.Properties.ServicePrincipalClientID,
		ManagementEndpointAudience: resp.Properties.AzureManagementEndpointAudience,
	}, nil
}

func registrationType(mode vaultcreds.AuthMode) (string, error) {
	switch mode {
	case vaultcreds.AzureActiveDirectory:
		return authTypeAAD, nil
	case vaultcreds.Legacy:
		return authTypeACS, nil
	default:
		return "", errUnsupportedMode
	}
}
