// Package notify builds and delivers the daily attendance summary emails.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"latecomer/internal/attendance"
	"latecomer/internal/queue"
)

// MessageType tags report emails on the queue.
const MessageType = "report-email"

// ReportSource provides the day's attendance rows.
type ReportSource interface {
	FilteredAttendance(ctx context.Context, startDay, endDay string) ([]attendance.FilteredRow, error)
}

// Notifier assembles the daily per-department summaries and fans them out
// on the queue; a separate consumer delivers them so one bad recipient
// never blocks the rest.
type Notifier struct {
	source     ReportSource
	q          queue.Queue
	deptEmails map[string]string
	oversight  string
	now        func() time.Time
}

// New creates a notifier.
func New(source ReportSource, q queue.Queue, deptEmails map[string]string, oversight string) *Notifier {
	return &Notifier{
		source:     source,
		q:          q,
		deptEmails: deptEmails,
		oversight:  oversight,
		now:        time.Now,
	}
}

// RunDaily reads today's attendance and publishes one email per configured
// department recipient plus one consolidated email. An empty day publishes
// nothing.
func (n *Notifier) RunDaily(ctx context.Context) error {
	day := attendance.DayOf(n.now())
	rows, err := n.source.FilteredAttendance(ctx, day, day)
	if err != nil {
		return fmt.Errorf("fetch attendance for %s: %w", day, err)
	}
	if len(rows) == 0 {
		log.Printf("notifier: no attendance on %s, skipping", day)
		return nil
	}

	for _, email := range BuildDailyEmails(rows, n.deptEmails, n.oversight, day) {
		body, err := json.Marshal(email)
		if err != nil {
			return err
		}
		if err := n.q.Publish(ctx, queue.Message{Type: MessageType, Body: body}); err != nil {
			// Later recipients still get their turn.
			log.Printf("notifier: publish for %s failed: %v", email.To, err)
		}
	}
	return nil
}

// BuildDailyEmails groups rows by department and renders one summary per
// configured department recipient, plus a consolidated summary for the
// oversight recipient when set. Departments without a configured address
// are skipped.
func BuildDailyEmails(rows []attendance.FilteredRow, deptEmails map[string]string, oversight, day string) []Email {
	byDept := map[string][]attendance.FilteredRow{}
	for _, row := range rows {
		byDept[row.Department] = append(byDept[row.Department], row)
	}

	depts := make([]string, 0, len(byDept))
	for dept := range byDept {
		depts = append(depts, dept)
	}
	sort.Strings(depts)

	var out []Email
	for _, dept := range depts {
		addr, ok := deptEmails[dept]
		if !ok {
			continue
		}
		out = append(out, Email{
			To:      addr,
			Subject: fmt.Sprintf("Daily Attendance Report - %s (%s)", dept, day),
			Body:    summaryBody(byDept[dept]),
		})
	}
	if oversight != "" {
		out = append(out, Email{
			To:      oversight,
			Subject: fmt.Sprintf("All Department Attendance Report (%s)", day),
			Body:    summaryBody(rows),
		})
	}
	return out
}

func summaryBody(rows []attendance.FilteredRow) string {
	var b strings.Builder
	late := 0
	for _, row := range rows {
		if row.Status == attendance.StatusLate {
			late++
		}
	}
	fmt.Fprintf(&b, "%d scanned, %d late\n\n", len(rows), late)
	for _, row := range rows {
		fmt.Fprintf(&b, "%s  %s  %s  %s  %s\n", row.RollNo, row.Name, row.Department, row.Time, row.Status)
	}
	return b.String()
}

// ConsumeAndSend delivers queued report emails until ctx is cancelled.
// Delivery failures are logged and skipped; there is no retry.
func ConsumeAndSend(ctx context.Context, q queue.Queue, mailer Mailer) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		if msg.Type != MessageType {
			continue
		}
		var email Email
		if err := json.Unmarshal(msg.Body, &email); err != nil {
			log.Printf("notifier: drop malformed message: %v", err)
			continue
		}
		if err := mailer.Send(ctx, email); err != nil {
			log.Printf("notifier: delivery to %s failed: %v", email.To, err)
			continue
		}
		log.Printf("notifier: sent %q to %s", email.Subject, email.To)
	}
	return nil
}
