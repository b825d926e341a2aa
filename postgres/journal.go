// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/absmach/vaultcreds"
	pgclient "github.com/absmach/vaultcreds/internal/postgres"
	"github.com/absmach/vaultcreds/pkg/errors"
	repoerr "github.com/absmach/vaultcreds/pkg/errors/service"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes:
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	errDuplicate      = "23505" // unique_violation
	errTruncation     = "22001" // string_data_right_truncation
	errInvalid        = "22P02" // invalid_text_representation
	errUntranslatable = "22P05" // untranslatable_character
	errInvalidChar    = "22021" // character_not_in_repertoire
	errNotNull        = "23502" // not_null_violation
)

const defLimit = 10

type journal struct {
	db pgclient.Database
}

// NewJournal returns a PostgreSQL backed issuance journal.
func NewJournal(db pgclient.Database) vaultcreds.Journal {
	return journal{
		db: db,
	}
}

func (j journal) Save(ctx context.Context, entry vaultcreds.IssuanceEntry) error {
	q := `INSERT INTO issuances (id, vault_name, resource_group, subscription_id, vault_type, auth_mode,
		certificate_name, thumbprint, uploaded, file_path, error, created_at)
		VALUES (:id, :vault_name, :resource_group, :subscription_id, :vault_type, :auth_mode,
		:certificate_name, :thumbprint, :uploaded, :file_path, :error, :created_at)`
	if _, err := j.db.NamedExecContext(ctx, q, entry); err != nil {
		return handleError(repoerr.ErrCreateEntity, err)
	}
	return nil
}

func (j journal) List(ctx context.Context, pm vaultcreds.PageMetadata) (vaultcreds.IssuancePage, error) {
	if pm.Limit == 0 {
		pm.Limit = defLimit
	}
	where := whereClause(pm)

	q := `SELECT id, vault_name, resource_group, subscription_id, vault_type, auth_mode, certificate_name,
		thumbprint, uploaded, file_path, error, created_at FROM issuances` + where +
		` ORDER BY created_at DESC, id LIMIT :limit OFFSET :offset`
	rows, err := j.db.NamedQueryContext(ctx, q, pm)
	if err != nil {
		return vaultcreds.IssuancePage{}, handleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	entries := []vaultcreds.IssuanceEntry{}
	for rows.Next() {
		var entry vaultcreds.IssuanceEntry
		if err := rows.StructScan(&entry); err != nil {
			return vaultcreds.IssuancePage{}, handleError(repoerr.ErrViewEntity, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return vaultcreds.IssuancePage{}, handleError(repoerr.ErrViewEntity, err)
	}

	cq := `SELECT COUNT(*) FROM issuances` + where
	total, err := j.total(ctx, cq, pm)
	if err != nil {
		return vaultcreds.IssuancePage{}, err
	}
	pm.Total = total

	return vaultcreds.IssuancePage{
		Entries:      entries,
		PageMetadata: pm,
	}, nil
}

func (j journal) total(ctx context.Context, query string, pm vaultcreds.PageMetadata) (uint64, error) {
	rows, err := j.db.NamedQueryContext(ctx, query, pm)
	if err != nil {
		return 0, handleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var total uint64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, handleError(repoerr.ErrViewEntity, err)
		}
	}
	return total, nil
}

func whereClause(pm vaultcreds.PageMetadata) string {
	var conditions []string
	if pm.VaultName != "" {
		conditions = append(conditions, "vault_name = :vault_name")
	}
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func handleError(wrapper, err error) error {
	var pqErr *pgconn.PgError
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case errDuplicate:
			return errors.Wrap(repoerr.ErrConflict, err)
		case errInvalid, errInvalidChar, errTruncation, errUntranslatable, errNotNull:
			return errors.Wrap(repoerr.ErrMalformedEntity, err)
		}
	}

	return errors.Wrap(wrapper, err)
}
