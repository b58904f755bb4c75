package store

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/orchestra/models"
)

const (
	sessionTable    = "session"
	trackedJobTable = "tracked_job"

	// both tables hold at most one row
	singletonID = 1
)

var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var sessionColumns = []string{
	"token",
	"user_id",
	"email",
	"name",
	"plan",
	"email_verified",
	"expires_at",
	"saved_at",
}

var trackedJobColumns = []string{
	"job_id",
	"prompt",
	"started_at",
}

func buildSaveSession(sealedToken string, s models.Session) (string, []any, error) {
	return sqlite.Insert(sessionTable).
		Options("OR REPLACE").
		Columns(append([]string{"id"}, sessionColumns...)...).
		Values(
			singletonID,
			sealedToken,
			s.User.ID,
			s.User.Email,
			s.User.Name,
			s.User.Plan,
			s.User.EmailVerified,
			nullTime(s.ExpiresAt),
			s.SavedAt,
		).
		ToSql()
}

func buildLoadSession() (string, []any, error) {
	return sqlite.Select(sessionColumns...).
		From(sessionTable).
		Where(sq.Eq{"id": singletonID}).
		ToSql()
}

func buildClear(table string) (string, []any, error) {
	return sqlite.Delete(table).ToSql()
}

func buildSaveTrackedJob(job models.TrackedJob) (string, []any, error) {
	return sqlite.Insert(trackedJobTable).
		Options("OR REPLACE").
		Columns(append([]string{"id"}, trackedJobColumns...)...).
		Values(singletonID, job.JobID, job.Prompt, job.StartedAt).
		ToSql()
}

func buildLoadTrackedJob() (string, []any, error) {
	return sqlite.Select(trackedJobColumns...).
		From(trackedJobTable).
		Where(sq.Eq{"id": singletonID}).
		ToSql()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// scanSession reads a row produced by buildLoadSession.
func scanSession(row *sql.Row) (sealedToken string, s models.Session, err error) {
	var expiresAt sql.NullTime
	err = row.Scan(
		&sealedToken,
		&s.User.ID,
		&s.User.Email,
		&s.User.Name,
		&s.User.Plan,
		&s.User.EmailVerified,
		&expiresAt,
		&s.SavedAt,
	)
	if expiresAt.Valid {
		s.ExpiresAt = expiresAt.Time
	}
	return sealedToken, s, err
}
