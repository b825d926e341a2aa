// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing_test

import (
	"context"
	"testing"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/mocks"
	"github.com/absmach/vaultcreds/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestIssue(t *testing.T) {
	vault := vaultcreds.Vault{
		Name:           "V1",
		ResourceGroup:  "rg1",
		Location:       "westus",
		SubscriptionID: "22222222-2222-2222-2222-222222222222",
		ResourceID:     "123",
		Type:           vaultcreds.SiteRecovery,
	}
	site := &vaultcreds.Site{ID: "site-1", FriendlyName: "S1"}

	testCases := []struct {
		desc   string
		site   *vaultcreds.Site
		err    error
		status codes.Code
		attrs  []attribute.KeyValue
	}{
		{
			desc:   "issue without site",
			status: codes.Unset,
			attrs: []attribute.KeyValue{
				attribute.String("vault", "V1"),
				attribute.String("resource_group", "rg1"),
				attribute.String("vault_type", "SiteRecovery"),
			},
		},
		{
			desc:   "issue with site",
			site:   site,
			status: codes.Unset,
			attrs: []attribute.KeyValue{
				attribute.String("vault", "V1"),
				attribute.String("resource_group", "rg1"),
				attribute.String("vault_type", "SiteRecovery"),
				attribute.String("site", "S1"),
			},
		},
		{
			desc:   "failed issue",
			err:    vaultcreds.ErrChannelKeyUnavailable,
			status: codes.Error,
			attrs: []attribute.KeyValue{
				attribute.String("vault", "V1"),
				attribute.String("resource_group", "rg1"),
				attribute.String("vault_type", "SiteRecovery"),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
			svc := mocks.NewService(t)
			svc.On("Issue", mock.Anything, vault, tc.site, "").Return(vaultcreds.OutputArtifact{}, tc.err).Once()

			tm := tracing.New(svc, tp.Tracer("vaultcreds"))
			_, err := tm.Issue(context.Background(), vault, tc.site, "")
			assert.Equal(t, tc.err, err)

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, "issue", spans[0].Name())
			assert.Equal(t, tc.attrs, spans[0].Attributes())
			assert.Equal(t, tc.status, spans[0].Status().Code)
		})
	}
}
