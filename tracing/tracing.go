// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/absmach/vaultcreds"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ vaultcreds.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    vaultcreds.Service
}

// New returns a new issuance service with tracing capabilities.
func New(svc vaultcreds.Service, tracer trace.Tracer) vaultcreds.Service {
	return &tracingMiddleware{tracer, svc}
}

func (tm *tracingMiddleware) Issue(ctx context.Context, vault vaultcreds.Vault, site *vaultcreds.Site, outputDir string) (vaultcreds.OutputArtifact, error) {
	attrs := []attribute.KeyValue{
		attribute.String("vault", vault.Name),
		attribute.String("resource_group", vault.ResourceGroup),
		attribute.String("vault_type", vault.Type.String()),
	}
	if site.Present() {
		attrs = append(attrs, attribute.String("site", site.FriendlyName))
	}
	ctx, span := tm.tracer.Start(ctx, "issue", trace.WithAttributes(attrs...))
	defer span.End()

	artifact, err := tm.svc.Issue(ctx, vault, site, outputDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return artifact, err
}
