// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const auditColumns = `id, request_id, actor_id, action, target_type, target_id,
	previous_stage, new_stage, details, ip_address, user_agent, country, created_at`

func scanAuditRecord(row interface{ Scan(...any) error }) (AuditRecord, error) {
	var a AuditRecord
	err := row.Scan(&a.ID, &a.RequestID, &a.ActorID, &a.Action, &a.TargetType,
		&a.TargetID, &a.PreviousStage, &a.NewStage, &a.Details, &a.IPAddress,
		&a.UserAgent, &a.Country, &a.CreatedAt)
	return a, err
}

// CreateAuditRecordParams holds the fields for CreateAuditRecord.
type CreateAuditRecordParams struct {
	RequestID     string
	ActorID       sql.NullInt64
	Action        string
	TargetType    string
	TargetID      int64
	PreviousStage string
	NewStage      string
	Details       string
	IPAddress     string
	UserAgent     string
	Country       string
	CreatedAt     time.Time
}

// CreateAuditRecord appends an audit record and returns the stored row.
func (q *Queries) CreateAuditRecord(ctx context.Context, arg CreateAuditRecordParams) (AuditRecord, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO audit_records (request_id, actor_id, action, target_type, target_id,
			previous_stage, new_stage, details, ip_address, user_agent, country, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+auditColumns,
		arg.RequestID, arg.ActorID, arg.Action, arg.TargetType, arg.TargetID,
		arg.PreviousStage, arg.NewStage, arg.Details, arg.IPAddress,
		arg.UserAgent, arg.Country, arg.CreatedAt)
	return scanAuditRecord(row)
}

// ListAuditRecordsByTarget returns a target's audit trail, newest first.
func (q *Queries) ListAuditRecordsByTarget(ctx context.Context, targetType string, targetID int64) ([]AuditRecord, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+auditColumns+` FROM audit_records
		WHERE target_type = ? AND target_id = ?
		ORDER BY id DESC`, targetType, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AuditRecord
	for rows.Next() {
		a, err := scanAuditRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// CountAuditRecordsByAction counts records for one action and target.
func (q *Queries) CountAuditRecordsByAction(ctx context.Context, action string, targetID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM audit_records WHERE action = ? AND target_id = ?`,
		action, targetID).Scan(&n)
	return n, err
}

// DeleteOldAuditRecords removes records created before cutoff and
// returns how many were deleted.
func (q *Queries) DeleteOldAuditRecords(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM audit_records WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
