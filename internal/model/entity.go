package model

import "time"

// AuthAccount is a login credential row in auth_users. It is independent of
// the tracked users that appear in usage reports.
type AuthAccount struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// TrackedUser is a row in users, created lazily the first time an email shows
// up in an ingested report.
type TrackedUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyStat is a row in daily_stats, unique per (user_id, date).
type DailyStat struct {
	ID                int64  `json:"id"`
	UserID            int64  `json:"user_id"`
	Date              string `json:"date"`
	TotalEmails       int    `json:"total_emails"`
	EmailsSent        int    `json:"emails_sent"`
	EmailsReceived    int    `json:"emails_received"`
	FilesEdited       int    `json:"files_edited"`
	FilesViewed       int    `json:"files_viewed"`
	GmailImapLastUsed string `json:"gmail_imap_last_used"`
	GmailWebLastUsed  string `json:"gmail_web_last_used"`
}
