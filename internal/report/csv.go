package report

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mailstats/internal/logger"
)

// NoRecentUse is the sentinel the admin console exports for services a user
// has not touched within the report window.
const NoRecentUse = "Not in last 30 days"

// DailyUsage is one normalized row of a daily usage report. Every record
// parsed from the same file carries the same Date.
type DailyUsage struct {
	Email             string `json:"email"`
	TotalEmails       int    `json:"totalEmails"`
	EmailsSent        int    `json:"emailsSent"`
	EmailsReceived    int    `json:"emailsReceived"`
	FilesEdited       int    `json:"filesEdited"`
	FilesViewed       int    `json:"filesViewed"`
	GmailImapLastUsed string `json:"gmailImapLastUsed"`
	GmailWebLastUsed  string `json:"gmailWebLastUsed"`
	Date              string `json:"date"`
}

// Column identity is resolved from header text, not position: exports from
// the console reorder and add columns between report runs. Matchers are
// evaluated in order against the lower-cased header cell; first hit wins.
var headerMatchers = []struct {
	substr string
	field  string
}{
	{"user", "email"},
	{"total emails", "totalEmails"},
	{"emails sent", "emailsSent"},
	{"emails received", "emailsReceived"},
	{"files edited", "filesEdited"},
	{"files viewed", "filesViewed"},
	{"gmail (imap)", "gmailImapLastUsed"},
	{"gmail (web)", "gmailWebLastUsed"},
}

var (
	headerDateRe   = regexp.MustCompile(`\[(\d{4}-\d{2}-\d{2})`)
	filenameDateRe = regexp.MustCompile(`users_logs_(\d+)`)
)

// Parse normalizes raw CSV text into daily usage records. A file that cannot
// be understood yields an empty slice, never an error: rows without a
// resolvable email are dropped since email is the join key downstream.
func Parse(content, filename string) []DailyUsage {
	lines := splitLines(content)
	if len(lines) < 2 {
		return nil
	}

	header := splitCSVLine(lines[0])
	cols := map[string]int{}
	dateStr := ""

	for i, cell := range header {
		if dateStr == "" {
			if m := headerDateRe.FindStringSubmatch(cell); m != nil {
				dateStr = m[1]
			}
		}
		lower := strings.ToLower(cell)
		for _, hm := range headerMatchers {
			if strings.Contains(lower, hm.substr) {
				if _, seen := cols[hm.field]; !seen {
					cols[hm.field] = i
				}
				break
			}
		}
	}

	if dateStr == "" {
		dateStr = dateFromFilename(filename)
	}

	logger.Debug("csv header resolved", "columns", len(cols), "date", dateStr, "file", filename)

	emailIdx, ok := cols["email"]
	if !ok {
		return nil
	}

	var out []DailyUsage
	for _, line := range lines[1:] {
		values := splitCSVLine(line)
		email := cellAt(values, emailIdx)
		if email == "" {
			continue
		}
		out = append(out, DailyUsage{
			Email:             email,
			TotalEmails:       intCell(values, cols, "totalEmails"),
			EmailsSent:        intCell(values, cols, "emailsSent"),
			EmailsReceived:    intCell(values, cols, "emailsReceived"),
			FilesEdited:       intCell(values, cols, "filesEdited"),
			FilesViewed:       intCell(values, cols, "filesViewed"),
			GmailImapLastUsed: textCell(values, cols, "gmailImapLastUsed"),
			GmailWebLastUsed:  textCell(values, cols, "gmailWebLastUsed"),
			Date:              dateStr,
		})
	}
	return out
}

// ExtractDate pulls the report date out of the header line alone, falling
// back to today when the header carries no date.
func ExtractDate(content string) string {
	lines := strings.SplitN(content, "\n", 2)
	if m := headerDateRe.FindStringSubmatch(lines[0]); m != nil {
		return m[1]
	}
	return time.Now().UTC().Format("2006-01-02")
}

func dateFromFilename(filename string) string {
	base := filepath.Base(filename)
	if m := filenameDateRe.FindStringSubmatch(base); m != nil {
		if ms, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return time.UnixMilli(ms).UTC().Format("2006-01-02")
		}
	}
	return time.Now().UTC().Format("2006-01-02")
}

func splitLines(content string) []string {
	var lines []string
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// splitCSVLine splits one line on commas, honoring double-quoted fields.
// A doubled quote inside a quoted field is a literal quote. Cells come back
// trimmed.
func splitCSVLine(line string) []string {
	var result []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	result = append(result, strings.TrimSpace(cur.String()))
	return result
}

func cellAt(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}

func intCell(values []string, cols map[string]int, field string) int {
	idx, ok := cols[field]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(cellAt(values, idx))
	if err != nil {
		return 0
	}
	return n
}

func textCell(values []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok {
		return NoRecentUse
	}
	if v := cellAt(values, idx); v != "" {
		return v
	}
	return NoRecentUse
}
