// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Database is the subset of sqlx used by repositories. Every call is traced.
type Database interface {
	NamedExecContext(ctx context.Context, query string, args any) (sql.Result, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	NamedQueryContext(ctx context.Context, query string, args any) (*sqlx.Rows, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

var _ Database = (*database)(nil)

type database struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewDatabase wraps db with tracing.
func NewDatabase(db *sqlx.DB, tracer trace.Tracer) Database {
	return &database{
		db:     db,
		tracer: tracer,
	}
}

func (d *database) NamedExecContext(ctx context.Context, query string, args any) (sql.Result, error) {
	ctx, span := d.addSpanTags(ctx, "NamedExecContext", query)
	defer span.End()
	return d.db.NamedExecContext(ctx, query, args)
}

func (d *database) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	ctx, span := d.addSpanTags(ctx, "QueryRowxContext", query)
	defer span.End()
	return d.db.QueryRowxContext(ctx, query, args...)
}

func (d *database) NamedQueryContext(ctx context.Context, query string, args any) (*sqlx.Rows, error) {
	ctx, span := d.addSpanTags(ctx, "NamedQueryContext", query)
	defer span.End()
	return d.db.NamedQueryContext(ctx, query, args)
}

func (d *database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	ctx, span := d.addSpanTags(ctx, "GetContext", query)
	defer span.End()
	return d.db.GetContext(ctx, dest, query, args...)
}

func (d *database) addSpanTags(ctx context.Context, method, query string) (context.Context, trace.Span) {
	return d.tracer.Start(ctx,
		"sql_"+method,
		trace.WithAttributes(
			attribute.String("sql.statement", query),
			attribute.String("span.kind", "client"),
			attribute.String("peer.service", "postgres"),
			attribute.String("db.type", "sql"),
		),
	)
}
