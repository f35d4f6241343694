// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/rankstuff/auth"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
)

// SQL implements Store on PostgreSQL or SQLite. Every query uses $n
// placeholders, which both drivers accept.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func marshalText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// whereBuilder numbers placeholders as conditions are added.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) page(skip, limit int) string {
	if limit <= 0 {
		limit = ranking.MaxLimit
	}
	w.args = append(w.args, limit, skip)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Polls

const pollColumns = `id, title, description, options, status, owner_id, created_at, closes_at`

func scanPoll(row rowScanner) (models.Poll, error) {
	var (
		p           models.Poll
		description sql.NullString
		options     string
		status      string
		closesAt    sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Title, &description, &options, &status, &p.OwnerID, &p.CreatedAt, &closesAt); err != nil {
		return models.Poll{}, err
	}
	if err := json.Unmarshal([]byte(options), &p.Options); err != nil {
		return models.Poll{}, fmt.Errorf("failed to decode options of poll %s: %w", p.ID, err)
	}
	p.Description = stringPtr(description)
	p.Status = models.PollStatus(status)
	p.CreatedAt = p.CreatedAt.UTC()
	p.ClosesAt = timePtr(closesAt)
	return p, nil
}

func (s *SQL) InsertPoll(ctx context.Context, p models.Poll) error {
	options, err := marshalText(p.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO poll (id, title, description, options, status, owner_id, created_at, closes_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Title, nullString(p.Description), options, string(p.Status), p.OwnerID, p.CreatedAt.UTC(), nullTime(p.ClosesAt))
	return err
}

func (s *SQL) GetPoll(ctx context.Context, id string) (models.Poll, bool, error) {
	p, err := scanPoll(s.db.QueryRowContext(ctx, `SELECT `+pollColumns+` FROM poll WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, false, nil
	}
	if err != nil {
		return models.Poll{}, false, err
	}
	return p, true, nil
}

func (s *SQL) ListPolls(ctx context.Context, f ranking.PollFilter) ([]models.Poll, error) {
	var w whereBuilder
	if f.OwnerID != "" {
		w.add("owner_id = $%d", f.OwnerID)
	}
	if f.Status != "" {
		w.add("status = $%d", string(f.Status))
	}
	if f.ClosesBefore != nil {
		w.add("closes_at IS NOT NULL AND closes_at <= $%d", f.ClosesBefore.UTC())
	}

	query := `SELECT ` + pollColumns + ` FROM poll` + w.clause() + ` ORDER BY created_at, id`
	query += w.page(f.Skip, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

func (s *SQL) UpdatePollStatus(ctx context.Context, id string, from, to models.PollStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE poll SET status = $1 WHERE id = $2 AND status = $3
	`, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Ballots

const ballotColumns = `id, poll_id, voter_id, rankings, submitted_at`

func scanBallot(row rowScanner) (models.Ballot, error) {
	var (
		b        models.Ballot
		rankings string
	)
	if err := row.Scan(&b.ID, &b.PollID, &b.VoterID, &rankings, &b.SubmittedAt); err != nil {
		return models.Ballot{}, err
	}
	if err := json.Unmarshal([]byte(rankings), &b.Rankings); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to decode rankings of ballot %s: %w", b.ID, err)
	}
	b.SubmittedAt = b.SubmittedAt.UTC()
	return b, nil
}

// InsertBallot relies on UNIQUE (poll_id, voter_id) so two concurrent
// submissions from one voter cannot both succeed.
func (s *SQL) InsertBallot(ctx context.Context, b models.Ballot) error {
	rankings, err := marshalText(b.Rankings)
	if err != nil {
		return fmt.Errorf("failed to encode rankings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ballot (id, poll_id, voter_id, rankings, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, b.ID, b.PollID, b.VoterID, rankings, b.SubmittedAt.UTC())
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("ballot for poll %s: %w", b.PollID, ranking.ErrDuplicate)
	}
	return err
}

func (s *SQL) GetBallot(ctx context.Context, pollID, voterID string) (models.Ballot, bool, error) {
	b, err := scanBallot(s.db.QueryRowContext(ctx, `
		SELECT `+ballotColumns+` FROM ballot WHERE poll_id = $1 AND voter_id = $2
	`, pollID, voterID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ballot{}, false, nil
	}
	if err != nil {
		return models.Ballot{}, false, err
	}
	return b, true, nil
}

func (s *SQL) ListBallots(ctx context.Context, pollID string) ([]models.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ballotColumns+` FROM ballot WHERE poll_id = $1 ORDER BY submitted_at, id
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		b, err := scanBallot(rows)
		if err != nil {
			return nil, err
		}
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

func (s *SQL) CountBallots(ctx context.Context, pollID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot WHERE poll_id = $1`, pollID).Scan(&count)
	return count, err
}

// Charts

const chartColumns = `id, title, description, poll_ids, entries, owner_id, created_at, updated_at`

func scanChart(row rowScanner) (models.Chart, error) {
	var (
		c           models.Chart
		description sql.NullString
		pollIDs     string
		entries     string
	)
	if err := row.Scan(&c.ID, &c.Title, &description, &pollIDs, &entries, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Chart{}, err
	}
	if err := json.Unmarshal([]byte(pollIDs), &c.PollIDs); err != nil {
		return models.Chart{}, fmt.Errorf("failed to decode poll ids of chart %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(entries), &c.Entries); err != nil {
		return models.Chart{}, fmt.Errorf("failed to decode entries of chart %s: %w", c.ID, err)
	}
	if c.Entries == nil {
		c.Entries = []models.ChartEntry{}
	}
	c.Description = stringPtr(description)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func encodeChart(c models.Chart) (pollIDs, entries string, err error) {
	if pollIDs, err = marshalText(c.PollIDs); err != nil {
		return "", "", fmt.Errorf("failed to encode poll ids: %w", err)
	}
	if c.Entries == nil {
		c.Entries = []models.ChartEntry{}
	}
	if entries, err = marshalText(c.Entries); err != nil {
		return "", "", fmt.Errorf("failed to encode entries: %w", err)
	}
	return pollIDs, entries, nil
}

func (s *SQL) InsertChart(ctx context.Context, c models.Chart) error {
	pollIDs, entries, err := encodeChart(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chart (id, title, description, poll_ids, entries, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Title, nullString(c.Description), pollIDs, entries, c.OwnerID, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return err
}

func (s *SQL) GetChart(ctx context.Context, id string) (models.Chart, bool, error) {
	c, err := scanChart(s.db.QueryRowContext(ctx, `SELECT `+chartColumns+` FROM chart WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chart{}, false, nil
	}
	if err != nil {
		return models.Chart{}, false, err
	}
	return c, true, nil
}

func (s *SQL) ListCharts(ctx context.Context, f ranking.ChartFilter) ([]models.Chart, error) {
	var w whereBuilder
	if f.OwnerID != "" {
		w.add("owner_id = $%d", f.OwnerID)
	}

	query := `SELECT ` + chartColumns + ` FROM chart` + w.clause() + ` ORDER BY created_at, id`
	query += w.page(f.Skip, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charts := []models.Chart{}
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}
	return charts, rows.Err()
}

// ReplaceChart overwrites everything but id, owner and created_at.
func (s *SQL) ReplaceChart(ctx context.Context, c models.Chart) (bool, error) {
	pollIDs, entries, err := encodeChart(c)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE chart
		SET title = $1, description = $2, poll_ids = $3, entries = $4, updated_at = $5
		WHERE id = $6
	`, c.Title, nullString(c.Description), pollIDs, entries, c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQL) DeleteChart(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chart WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Users

const userColumns = `id, email, username, hashed_password, is_active, created_at`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPassword, &u.IsActive, &u.CreatedAt); err != nil {
		return models.User{}, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (s *SQL) InsertUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, email, username, hashed_password, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Username, u.HashedPassword, u.IsActive, u.CreatedAt.UTC())
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Username, auth.ErrDuplicateUser)
	}
	return err
}

func (s *SQL) getUserWhere(ctx context.Context, column, value string) (models.User, bool, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE `+column+` = $1`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

func (s *SQL) GetUser(ctx context.Context, id string) (models.User, bool, error) {
	return s.getUserWhere(ctx, "id", id)
}

func (s *SQL) GetUserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	return s.getUserWhere(ctx, "email", email)
}

func (s *SQL) GetUserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	return s.getUserWhere(ctx, "username", username)
}
