package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// UploadRequest carries a base64-encoded CSV export plus its original
// filename, which is kept because the report date may only be recoverable
// from it.
type UploadRequest struct {
	File     string `json:"file" binding:"required"`
	Filename string `json:"filename" binding:"required"`
}

type UploadResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	InsertedCount int      `json:"insertedCount"`
	SkippedCount  int      `json:"skippedCount"`
	TotalRecords  int      `json:"totalRecords"`
	Errors        []string `json:"errors,omitempty"`
}

// StatsRow is one (user, date) detail row served to the dashboard table.
type StatsRow struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	UserName       string `json:"user_name"`
	Date           string `json:"date"`
	TotalEmails    int    `json:"total_emails"`
	EmailsSent     int    `json:"emails_sent"`
	EmailsReceived int    `json:"emails_received"`
	FilesEdited    int    `json:"files_edited"`
	FilesViewed    int    `json:"files_viewed"`
}

// SummaryRow is one per-date aggregate row served to the dashboard charts.
type SummaryRow struct {
	Date             string `json:"date"`
	TotalUsers       int    `json:"total_users"`
	TotalEmails      int    `json:"total_emails"`
	TotalSent        int    `json:"total_sent"`
	TotalReceived    int    `json:"total_received"`
	TotalFilesEdited int    `json:"total_files_edited"`
	TotalFilesViewed int    `json:"total_files_viewed"`
}
