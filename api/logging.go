// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/vaultcreds"
)

var _ vaultcreds.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    vaultcreds.Service
}

// LoggingMiddleware adds logging facilities to the core service.
func LoggingMiddleware(svc vaultcreds.Service, logger *slog.Logger) vaultcreds.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) Issue(ctx context.Context, vault vaultcreds.Vault, site *vaultcreds.Site, outputDir string) (artifact vaultcreds.OutputArtifact, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method issue for vault %s took %s to complete", vault.Name, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s, credentials written to %s.", message, artifact.FilePath))
	}(time.Now())
	return lm.svc.Issue(ctx, vault, site, outputDir)
}
