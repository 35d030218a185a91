package service

import (
	"context"
	"fmt"
	"strings"

	"mailstats/internal/logger"
	"mailstats/internal/model"
	"mailstats/internal/report"
	"mailstats/internal/store"
)

// Per-record failures accumulate during a batch; past this many the rest are
// dropped so a huge malformed file cannot balloon the response.
const maxIngestErrors = 100

type StatsService struct {
	st store.Store
}

func NewStatsService(st store.Store) *StatsService { return &StatsService{st: st} }

// IngestSummary reports the outcome of one uploaded file.
type IngestSummary struct {
	InsertedCount int
	SkippedCount  int
	TotalRecords  int
	Errors        []string
}

// SaveRecords persists a batch of normalized usage records. Records are
// independent: a failure is recorded and the batch continues. Each record is
// one atomic upsert keyed by (user_id, date), so re-uploading the same file
// overwrites rather than duplicates.
func (s *StatsService) SaveRecords(ctx context.Context, records []report.DailyUsage) IngestSummary {
	sum := IngestSummary{TotalRecords: len(records)}

	for _, rec := range records {
		if rec.Email == "" {
			sum.SkippedCount++
			continue
		}
		if err := s.saveRecord(ctx, rec); err != nil {
			logger.Error("ingest record failed", "email", rec.Email, "date", rec.Date, "err", err)
			if len(sum.Errors) < maxIngestErrors {
				sum.Errors = append(sum.Errors, fmt.Sprintf("%s: %v", rec.Email, err))
			}
			sum.SkippedCount++
			continue
		}
		sum.InsertedCount++
	}

	logger.Info("ingest complete", "inserted", sum.InsertedCount, "skipped", sum.SkippedCount, "total", sum.TotalRecords)
	return sum
}

func (s *StatsService) saveRecord(ctx context.Context, rec report.DailyUsage) error {
	userID, err := s.getOrCreateUser(ctx, rec.Email)
	if err != nil {
		return err
	}

	_, err = s.st.Exec(ctx, upsertDailyStatSQL(s.st.Backend()),
		userID, rec.Date,
		rec.TotalEmails, rec.EmailsSent, rec.EmailsReceived,
		rec.FilesEdited, rec.FilesViewed,
		rec.GmailImapLastUsed, rec.GmailWebLastUsed,
	)
	if err != nil {
		return fmt.Errorf("upsert daily stat: %w", err)
	}
	return nil
}

// getOrCreateUser resolves the tracked user id for an email, creating the row
// on first sight. Insert-or-ignore followed by a re-read keeps concurrent
// ingestions of a new email from racing.
func (s *StatsService) getOrCreateUser(ctx context.Context, email string) (int64, error) {
	row, err := s.st.QuerySingle(ctx, `SELECT id FROM users WHERE email = ?`, email)
	if err != nil {
		return 0, fmt.Errorf("lookup user: %w", err)
	}
	if row != nil {
		return row.Int("id"), nil
	}

	res, err := s.st.Exec(ctx, insertUserSQL(s.st.Backend()), email, localPart(email))
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	if res.LastID != 0 && res.RowsAffected > 0 {
		logger.Info("tracked user created", "email", email, "id", res.LastID)
		return res.LastID, nil
	}

	row, err = s.st.QuerySingle(ctx, `SELECT id FROM users WHERE email = ?`, email)
	if err != nil {
		return 0, fmt.Errorf("lookup user after create: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("user %s missing after create", email)
	}
	return row.Int("id"), nil
}

// QueryStats returns one row per (user, date) matching the optional filters.
// Date bounds are inclusive; the email filter is a case-insensitive
// substring match.
func (s *StatsService) QueryStats(ctx context.Context, startDate, endDate, email string) ([]model.StatsRow, error) {
	query := `
		SELECT
			u.id,
			u.email,
			u.user_name,
			ds.date,
			ds.total_emails,
			ds.emails_sent,
			ds.emails_received,
			ds.files_edited,
			ds.files_viewed
		FROM daily_stats ds
		JOIN users u ON ds.user_id = u.id
		WHERE 1=1`
	var args []any

	if startDate != "" {
		query += " AND ds.date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND ds.date <= ?"
		args = append(args, endDate)
	}
	if email != "" {
		query += " AND LOWER(u.email) LIKE ?"
		args = append(args, "%"+strings.ToLower(email)+"%")
	}
	query += " ORDER BY ds.date DESC, u.email ASC"

	rows, err := s.st.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	out := make([]model.StatsRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.StatsRow{
			ID:             r.Int("id"),
			Email:          r.Str("email"),
			UserName:       r.Str("user_name"),
			Date:           r.Str("date"),
			TotalEmails:    int(r.Int("total_emails")),
			EmailsSent:     int(r.Int("emails_sent")),
			EmailsReceived: int(r.Int("emails_received")),
			FilesEdited:    int(r.Int("files_edited")),
			FilesViewed:    int(r.Int("files_viewed")),
		})
	}
	return out, nil
}

// QuerySummary returns one row per date with counter sums and the distinct
// count of contributing users.
func (s *StatsService) QuerySummary(ctx context.Context, startDate, endDate string) ([]model.SummaryRow, error) {
	query := `
		SELECT
			ds.date,
			COUNT(DISTINCT ds.user_id) AS total_users,
			SUM(ds.total_emails) AS total_emails,
			SUM(ds.emails_sent) AS total_sent,
			SUM(ds.emails_received) AS total_received,
			SUM(ds.files_edited) AS total_files_edited,
			SUM(ds.files_viewed) AS total_files_viewed
		FROM daily_stats ds
		WHERE 1=1`
	var args []any

	if startDate != "" {
		query += " AND ds.date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND ds.date <= ?"
		args = append(args, endDate)
	}
	query += " GROUP BY ds.date ORDER BY ds.date DESC"

	rows, err := s.st.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}

	out := make([]model.SummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.SummaryRow{
			Date:             r.Str("date"),
			TotalUsers:       int(r.Int("total_users")),
			TotalEmails:      int(r.Int("total_emails")),
			TotalSent:        int(r.Int("total_sent")),
			TotalReceived:    int(r.Int("total_received")),
			TotalFilesEdited: int(r.Int("total_files_edited")),
			TotalFilesViewed: int(r.Int("total_files_viewed")),
		})
	}
	return out, nil
}

func upsertDailyStatSQL(backend string) string {
	const cols = `(user_id, date, total_emails, emails_sent, emails_received,
		files_edited, files_viewed, gmail_imap_last_used, gmail_web_last_used)`

	switch backend {
	case store.BackendPostgres:
		return `INSERT INTO daily_stats ` + cols + `
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, date) DO UPDATE SET
				total_emails = EXCLUDED.total_emails,
				emails_sent = EXCLUDED.emails_sent,
				emails_received = EXCLUDED.emails_received,
				files_edited = EXCLUDED.files_edited,
				files_viewed = EXCLUDED.files_viewed,
				gmail_imap_last_used = EXCLUDED.gmail_imap_last_used,
				gmail_web_last_used = EXCLUDED.gmail_web_last_used`
	case store.BackendMySQL:
		return `INSERT INTO daily_stats ` + cols + `
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				total_emails = VALUES(total_emails),
				emails_sent = VALUES(emails_sent),
				emails_received = VALUES(emails_received),
				files_edited = VALUES(files_edited),
				files_viewed = VALUES(files_viewed),
				gmail_imap_last_used = VALUES(gmail_imap_last_used),
				gmail_web_last_used = VALUES(gmail_web_last_used)`
	default:
		return `INSERT OR REPLACE INTO daily_stats ` + cols + `
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	}
}

func insertUserSQL(backend string) string {
	switch backend {
	case store.BackendPostgres:
		return `INSERT INTO users (email, user_name) VALUES (?, ?) ON CONFLICT (email) DO NOTHING`
	case store.BackendMySQL:
		return `INSERT IGNORE INTO users (email, user_name) VALUES (?, ?)`
	default:
		return `INSERT OR IGNORE INTO users (email, user_name) VALUES (?, ?)`
	}
}

func localPart(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}
