// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"time"

	"github.com/absmach/vaultcreds"
	"github.com/go-kit/kit/metrics"
)

var _ vaultcreds.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     vaultcreds.Service
}

// MetricsMiddleware instruments core service by tracking request count and latency.
func MetricsMiddleware(svc vaultcreds.Service, counter metrics.Counter, latency metrics.Histogram) vaultcreds.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Issue(ctx context.Context, vault vaultcreds.Vault, site *vaultcreds.Site, outputDir string) (vaultcreds.OutputArtifact, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "issue", "vault_type", vault.Type.String()).Add(1)
		mm.latency.With("method", "issue", "vault_type", vault.Type.String()).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.Issue(ctx, vault, site, outputDir)
}
