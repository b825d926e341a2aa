// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package azure talks to the Recovery Services resource provider through the
// Azure Resource Manager REST API.
package azure

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/absmach/vaultcreds/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"moul.io/http2curl"
)

const (
	clientName    = "vaultcreds.Client"
	moduleVersion = "v0.1.0"

	vaultPath = "/subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}/providers/Microsoft.RecoveryServices/vaults/{vaultName}"
)

var (
	errUnknownCloud     = errors.New("unknown azure cloud")
	errNoSubscription   = errors.New("missing subscription id")
	errEmptyPathSegment = errors.New("empty resource path segment")
)

// Config selects the subscription and cloud the client talks to.
type Config struct {
	SubscriptionID string `env:"SUBSCRIPTION_ID"`
	Cloud          string `env:"CLOUD"            envDefault:"AzurePublic"`
	APIVersion     string `env:"API_VERSION"      envDefault:"2023-04-01"`
	CurlDebug      bool   `env:"CURL_DEBUG"       envDefault:"false"`
}

// Client is an authenticated Resource Manager client scoped to one subscription.
type Client struct {
	internal       *arm.Client
	subscriptionID string
	apiVersion     string
}

// NewCredential returns the default Azure credential chain (environment,
// workload identity, managed identity, Azure CLI).
func NewCredential(cfg Config) (azcore.TokenCredential, error) {
	cloudCfg, err := cloudConfig(cfg.Cloud)
	if err != nil {
		return nil, err
	}
	return azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		ClientOptions: policy.ClientOptions{Cloud: cloudCfg},
	})
}

// NewClient creates a Resource Manager client. opts may be nil. Retries are
// disabled so every remote call is attempted exactly once.
func NewClient(cfg Config, cred azcore.TokenCredential, logger *slog.Logger, opts *arm.ClientOptions) (*Client, error) {
	if cfg.SubscriptionID == "" {
		return nil, errNoSubscription
	}
	if opts == nil {
		opts = &arm.ClientOptions{}
	}
	if opts.Cloud.Services == nil {
		cloudCfg, err := cloudConfig(cfg.Cloud)
		if err != nil {
			return nil, err
		}
		opts.Cloud = cloudCfg
	}
	if opts.Transport == nil {
		opts.Transport = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	opts.Retry.MaxRetries = -1
	if cfg.CurlDebug {
		opts.PerRetryPolicies = append(opts.PerRetryPolicies, &curlPolicy{logger: logger})
	}

	internal, err := arm.NewClient(clientName, moduleVersion, cred, opts)
	if err != nil {
		return nil, err
	}

	return &Client{
		internal:       internal,
		subscriptionID: cfg.SubscriptionID,
		apiVersion:     cfg.APIVersion,
	}, nil
}

// do sends one request and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(c.internal.Endpoint(), path))
	if err != nil {
		return err
	}
	query := req.Raw().URL.Query()
	query.Set("api-version", c.apiVersion)
	req.Raw().URL.RawQuery = query.Encode()
	req.Raw().Header["Accept"] = []string{"application/json"}
	if body != nil {
		if err := runtime.MarshalAsJSON(req, body); err != nil {
			return err
		}
	}

	resp, err := c.internal.Pipeline().Do(req)
	if err != nil {
		return err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return runtime.NewResponseError(resp)
	}
	if out == nil {
		return nil
	}
	return runtime.UnmarshalAsJSON(resp, out)
}

// vaultPath addresses a vault in subscriptionID, or in the configured
// subscription when subscriptionID is empty.
func (c *Client) vaultPath(subscriptionID, resourceGroup, vaultName string, suffix ...string) (string, error) {
	if resourceGroup == "" || vaultName == "" {
		return "", errEmptyPathSegment
	}
	if subscriptionID == "" {
		subscriptionID = c.subscriptionID
	}
	path := strings.ReplaceAll(vaultPath, "{subscriptionId}", url.PathEscape(subscriptionID))
	path = strings.ReplaceAll(path, "{resourceGroupName}", url.PathEscape(resourceGroup))
	path = strings.ReplaceAll(path, "{vaultName}", url.PathEscape(vaultName))
	for _, s := range suffix {
		if s == "" {
			return "", errEmptyPathSegment
		}
		path += "/" + url.PathEscape(s)
	}
	return path, nil
}

// statusCode returns the HTTP status of a Resource Manager error response,
// or zero when err did not come from a response.
func statusCode(err error) int {
	var respErr *azcore.ResponseError
	if stderrors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

func cloudConfig(name string) (cloud.Configuration, error) {
	switch strings.ToLower(name) {
	case "", "azurepublic", "azurecloud":
		return cloud.AzurePublic, nil
	case "azurechina", "azurechinacloud":
		return cloud.AzureChina, nil
	case "azuregovernment", "azureusgovernment":
		return cloud.AzureGovernment, nil
	default:
		return cloud.Configuration{}, errors.Wrap(errUnknownCloud, errors.New(name))
	}
}

// curlPolicy logs every outgoing request as an equivalent curl command.
// Credentials and bodies are left out.
type curlPolicy struct {
	logger *slog.Logger
}

func (p *curlPolicy) Do(req *policy.Request) (*http.Response, error) {
	raw := req.Raw().Clone(req.Raw().Context())
	raw.Body = nil
	raw.GetBody = nil
	raw.ContentLength = 0
	if raw.Header.Get("Authorization") != "" {
		raw.Header.Set("Authorization", "REDACTED")
	}
	if cmd, err := http2curl.GetCurlCommand(raw); err == nil {
		p.logger.Debug("Azure Resource Manager request", slog.String("curl", cmd.String()))
	}
	return req.Next()
}
