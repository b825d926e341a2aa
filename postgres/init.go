// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	migrate "github.com/rubenv/sql-migrate"
)

// Migration returns the issuance journal schema.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "issuances_1",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS issuances (
						id               VARCHAR(36) PRIMARY KEY,
						vault_name       VARCHAR(50) NOT NULL,
						resource_group   VARCHAR(90) NOT NULL,
						subscription_id  VARCHAR(36),
						vault_type       VARCHAR(20) NOT NULL,
						auth_mode        VARCHAR(30),
						certificate_name VARCHAR(254),
						thumbprint       VARCHAR(40),
						uploaded         BOOLEAN NOT NULL DEFAULT FALSE,
						file_path        TEXT,
						error            TEXT,
						created_at       TIMESTAMP NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_issuances_vault ON issuances (vault_name, created_at DESC)`,
				},
				Down: []string{
					"DROP TABLE issuances",
				},
			},
		},
	}
}
