// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package openbao reads vault channel integrity keys from an OpenBao KV v2
// secrets engine.
package openbao

import (
	"context"
	"log/slog"
	"path"
	"sync"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/openbao/openbao/api/v2"
)

const loginPath = "auth/approle/login"

var (
	errFailedToLogin = errors.New("failed to login to OpenBao")
	errNoAuthInfo    = errors.New("no auth information from OpenBao")
	errRenewWatcher  = errors.New("unable to initialize new lifetime watcher for renewing auth token")
	errNoSecret      = errors.New("channel key secret not found")
	errNoKey         = errors.New("channel key secret has no integrity key")
)

// Config locates the OpenBao server and the secrets holding channel keys.
type Config struct {
	Host      string `env:"HOST"       envDefault:"http://localhost:8200"`
	AppRole   string `env:"APP_ROLE"   envDefault:""`
	AppSecret string `env:"APP_SECRET" envDefault:""`
	Namespace string `env:"NAMESPACE"  envDefault:""`
	Mount     string `env:"KV_MOUNT"   envDefault:"secret"`
	Prefix    string `env:"KV_PREFIX"  envDefault:"vaultcreds"`
}

type channelKeySecret struct {
	IntegrityKey string `mapstructure:"integrity_key"`
}

var _ vaultcreds.ChannelKeyProvider = (*provider)(nil)

type provider struct {
	appRole   string
	appSecret string
	mount     string
	prefix    string
	client    *api.Client
	logger    *slog.Logger

	mu      sync.Mutex
	secret  *api.Secret
	watcher *api.LifetimeWatcher
}

// NewChannelKeyProvider returns a provider reading the key of a vault from
// {mount}/data/{prefix}/{subscription}/{vault}.
func NewChannelKeyProvider(cfg Config, logger *slog.Logger) (vaultcreds.ChannelKeyProvider, error) {
	conf := api.DefaultConfig()
	conf.Address = cfg.Host
	conf.MaxRetries = 0

	client, err := api.NewClient(conf)
	if err != nil {
		return nil, err
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	return &provider{
		appRole:   cfg.AppRole,
		appSecret: cfg.AppSecret,
		mount:     cfg.Mount,
		prefix:    cfg.Prefix,
		client:    client,
		logger:    logger,
	}, nil
}

func (p *provider) ChannelKey(ctx context.Context, vault vaultcreds.Vault) (string, error) {
	if err := p.login(ctx); err != nil {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, err)
	}

	secret, err := p.client.Logical().ReadWithContext(ctx, p.secretPath(vault))
	if err != nil {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, errNoSecret)
	}

	// KV v2 nests the stored values under "data".
	data, ok := secret.Data["data"]
	if !ok || data == nil {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, errNoSecret)
	}
	var stored channelKeySecret
	if err := mapstructure.Decode(data, &stored); err != nil {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, err)
	}
	if stored.IntegrityKey == "" {
		return "", errors.Wrap(vaultcreds.ErrChannelKeyUnavailable, errNoKey)
	}

	return stored.IntegrityKey, nil
}

func (p *provider) secretPath(vault vaultcreds.Vault) string {
	return path.Join(p.mount, "data", p.prefix, vault.SubscriptionID, vault.Name)
}

func (p *provider) login(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.secret != nil && p.secret.Auth != nil && p.secret.Auth.ClientToken != "" {
		if _, err := p.client.Auth().Token().LookupSelfWithContext(ctx); err == nil {
			return nil
		}
	}

	authData := map[string]any{
		"role_id":   p.appRole,
		"secret_id": p.appSecret,
	}
	authResp, err := p.client.Logical().WriteWithContext(ctx, loginPath, authData)
	if err != nil {
		return errors.Wrap(errFailedToLogin, err)
	}
	if authResp == nil || authResp.Auth == nil {
		return errNoAuthInfo
	}

	p.secret = authResp
	p.client.SetToken(authResp.Auth.ClientToken)

	// At most one watcher renews the current token.
	if p.watcher != nil {
		p.watcher.Stop()
		p.watcher = nil
	}

	if authResp.Auth.Renewable {
		watcher, err := p.client.NewLifetimeWatcher(&api.LifetimeWatcherInput{
			Secret: authResp,
		})
		if err != nil {
			return errors.Wrap(errRenewWatcher, err)
		}
		p.watcher = watcher

		go p.renewToken(watcher)
	}

	return nil
}

func (p *provider) renewToken(watcher *api.LifetimeWatcher) {
	defer watcher.Stop()

	watcher.Start()
	for {
		select {
		case err := <-watcher.DoneCh():
			if err != nil {
				p.logger.Error("token renewal failed", "error", err)
				return
			}
			p.logger.Debug("token renewal stopped")
			return
		case renewal := <-watcher.RenewCh():
			p.logger.Info("token renewed successfully", "lease_duration", renewal.Secret.LeaseDuration)
		}
	}
}
