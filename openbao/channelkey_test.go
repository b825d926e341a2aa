// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package openbao_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/openbao"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	subscriptionID = "22222222-2222-2222-2222-222222222222"
	clientToken    = "s.client-token"
	roleID         = "role"
	secretID       = "secret"
)

var vault = vaultcreds.Vault{
	Name:           "V1",
	ResourceGroup:  "rg1",
	SubscriptionID: subscriptionID,
	Type:           vaultcreds.SiteRecovery,
}

type server struct {
	mu        sync.Mutex
	logins    int
	renewable bool
	expired   bool
	secrets   map[string]map[string]any
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.URL.Path == "/v1/auth/approle/login":
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["role_id"] != roleID || body["secret_id"] != secretID {
			http.Error(w, `{"errors":["invalid role or secret ID"]}`, http.StatusBadRequest)
			return
		}
		s.logins++
		writeJSON(w, map[string]any{
			"auth": map[string]any{
				"client_token":   clientToken,
				"renewable":      s.renewable,
				"lease_duration": 3600,
			},
		})
	case r.URL.Path == "/v1/auth/token/renew-self":
		writeJSON(w, map[string]any{
			"auth": map[string]any{
				"client_token":   clientToken,
				"renewable":      true,
				"lease_duration": 3600,
			},
		})
	case r.URL.Path == "/v1/auth/token/lookup-self":
		if s.expired {
			http.Error(w, `{"errors":["permission denied"]}`, http.StatusForbidden)
			return
		}
		writeJSON(w, map[string]any{"data": map[string]any{"id": clientToken}})
	default:
		data, ok := s.secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"errors": []string{}})
			return
		}
		writeJSON(w, map[string]any{"data": map[string]any{"data": data}})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestChannelKey(t *testing.T) {
	srv := &server{
		secrets: map[string]map[string]any{
			"/v1/secret/data/vaultcreds/" + subscriptionID + "/V1": {"integrity_key": "Y2hhbm5lbA=="},
			"/v1/secret/data/vaultcreds/" + subscriptionID + "/V2": {"algorithm": "None"},
		},
	}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	cfg := openbao.Config{
		Host:      ts.URL,
		AppRole:   roleID,
		AppSecret: secretID,
		Mount:     "secret",
		Prefix:    "vaultcreds",
	}
	provider, err := openbao.NewChannelKeyProvider(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	v2 := vault
	v2.Name = "V2"
	v3 := vault
	v3.Name = "V3"

	testCases := []struct {
		desc  string
		vault vaultcreds.Vault
		key   string
		err   error
	}{
		{
			desc:  "stored key",
			vault: vault,
			key:   "Y2hhbm5lbA==",
		},
		{
			desc:  "secret without key",
			vault: v2,
			err:   vaultcreds.ErrChannelKeyUnavailable,
		},
		{
			desc:  "missing secret",
			vault: v3,
			err:   vaultcreds.ErrChannelKeyUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			key, err := provider.ChannelKey(context.Background(), tc.vault)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.key, key)
		})
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, 1, srv.logins, "token should be reused while valid")
}

func TestChannelKeyLoginFailure(t *testing.T) {
	ts := httptest.NewServer(&server{})
	defer ts.Close()

	cfg := openbao.Config{
		Host:      ts.URL,
		AppRole:   roleID,
		AppSecret: "wrong",
		Mount:     "secret",
		Prefix:    "vaultcreds",
	}
	provider, err := openbao.NewChannelKeyProvider(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	_, err = provider.ChannelKey(context.Background(), vault)
	assert.True(t, errors.Contains(err, vaultcreds.ErrChannelKeyUnavailable), "expected error %v, got %v", vaultcreds.ErrChannelKeyUnavailable, err)
}

// logBuffer is safe to read while handlers write to it.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (lb *logBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.buf.Write(p)
}

func (lb *logBuffer) count(msg string) int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return strings.Count(lb.buf.String(), msg)
}

func TestChannelKeyReloginStopsRenewal(t *testing.T) {
	srv := &server{
		renewable: true,
		expired:   true,
		secrets: map[string]map[string]any{
			"/v1/secret/data/vaultcreds/" + subscriptionID + "/V1": {"integrity_key": "Y2hhbm5lbA=="},
		},
	}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	logs := &logBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := openbao.Config{
		Host:      ts.URL,
		AppRole:   roleID,
		AppSecret: secretID,
		Mount:     "secret",
		Prefix:    "vaultcreds",
	}
	provider, err := openbao.NewChannelKeyProvider(cfg, logger)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		key, err := provider.ChannelKey(context.Background(), vault)
		require.NoError(t, err)
		assert.Equal(t, "Y2hhbm5lbA==", key)
	}

	srv.mu.Lock()
	assert.Equal(t, 3, srv.logins, "rejected token should trigger a new login")
	srv.mu.Unlock()

	assert.Eventually(t, func() bool {
		return logs.count("token renewal stopped") == 2
	}, 5*time.Second, 10*time.Millisecond, "each replaced watcher should stop")
	assert.Never(t, func() bool {
		return logs.count("token renewal stopped") > 2
	}, 100*time.Millisecond, 10*time.Millisecond, "the current watcher should keep running")
}
