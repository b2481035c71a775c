package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// upsertRequesterSQL creates the requester or refreshes it. The daily counter
// restarts at 1 when the stored request date is not today.
const upsertRequesterSQL = `INSERT INTO requesters (email, session_id, user_agent, ip_address, daily_requests_count, last_request_date, last_seen_at)
VALUES ($1, $2, $3, $4, 1, $5, $6)
ON CONFLICT (email) DO UPDATE SET
	session_id = EXCLUDED.session_id,
	user_agent = EXCLUDED.user_agent,
	ip_address = EXCLUDED.ip_address,
	last_seen_at = EXCLUDED.last_seen_at,
	daily_requests_count = CASE
		WHEN requesters.last_request_date = EXCLUDED.last_request_date THEN COALESCE(requesters.daily_requests_count, 0) + 1
		ELSE 1
	END,
	last_request_date = EXCLUDED.last_request_date
RETURNING id::text`

const trackToolUsageSQL = `INSERT INTO user_activity_data (requester_id, session_id, email, user_type, first_visit, last_seen_at, last_tool_use, copy_grader_uses, total_tool_uses, updated_at)
VALUES ($1, $2, $3, $4, $5, $5, $5, 1, 1, $5)
ON CONFLICT (requester_id) DO UPDATE SET
	session_id = EXCLUDED.session_id,
	email = EXCLUDED.email,
	user_type = EXCLUDED.user_type,
	last_seen_at = EXCLUDED.last_seen_at,
	last_tool_use = EXCLUDED.last_tool_use,
	copy_grader_uses = COALESCE(user_activity_data.copy_grader_uses, 0) + 1,
	total_tool_uses = COALESCE(user_activity_data.total_tool_uses, 0) + 1,
	updated_at = EXCLUDED.updated_at`

// UpsertRequester records a visit by email and returns the requester ID
func (db *DB) UpsertRequester(ctx context.Context, email, sessionID, userAgent, ipAddress string) (uuid.UUID, error) {
	now := db.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var idText string
	err := db.pool.QueryRow(ctx, upsertRequesterSQL,
		email, sessionID, userAgent, ipAddress, today, now,
	).Scan(&idText)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert requester: %w", err)
	}

	id, err := uuid.Parse(idText)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse requester id: %w", err)
	}
	return id, nil
}

// TrackToolUsage increments the copy grader and total tool counters of a requester
func (db *DB) TrackToolUsage(ctx context.Context, requesterID uuid.UUID, sessionID, email string) error {
	now := db.now().UTC()
	_, err := db.pool.Exec(ctx, trackToolUsageSQL,
		requesterID, sessionID, email, UserTypeGuest, now,
	)
	if err != nil {
		return fmt.Errorf("failed to track tool usage: %w", err)
	}
	return nil
}

// TrackCopyGraderUsage upserts the requester, then counts one copy grader use
func (db *DB) TrackCopyGraderUsage(ctx context.Context, event UsageEvent) error {
	requesterID, err := db.UpsertRequester(ctx, event.Email, event.SessionID, event.UserAgent, event.IPAddress)
	if err != nil {
		return err
	}
	if err := db.TrackToolUsage(ctx, requesterID, event.SessionID, event.Email); err != nil {
		return err
	}
	log.Printf("[db] tracked copy grader usage for requester %s", requesterID)
	return nil
}
