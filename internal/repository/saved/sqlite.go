package saved

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jobfinder/internal/apperror"
	"jobfinder/internal/job"
	domain "jobfinder/internal/saved"
)

const timestampFormat = "2006-01-02 15:04:05"

// payloadVersion is the schema_version written into every stored payload.
// Bump it when the payload shape changes incompatibly.
const payloadVersion = 1

type payload struct {
	SchemaVersion int     `json:"schema_version"`
	Job           job.Job `json:"job"`
}

func encodePayload(j job.Job) (string, error) {
	b, err := json.Marshal(payload{SchemaVersion: payloadVersion, Job: j})
	if err != nil {
		return "", fmt.Errorf("encode saved job payload: %w", err)
	}
	return string(b), nil
}

// decodePayload rehydrates a job record from a stored payload. Version 1 is
// the enveloped form; rows written before payloads were versioned hold a
// bare job object and decode through the fallback. Versions newer than this
// binary understands are a storage error.
func decodePayload(data string) (job.Job, error) {
	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return job.Job{}, apperror.Wrap(apperror.Storage, "decode saved job payload", err)
	}

	var j job.Job
	switch p.SchemaVersion {
	case payloadVersion:
		j = p.Job
	case 0:
		if err := json.Unmarshal([]byte(data), &j); err != nil {
			return job.Job{}, apperror.Wrap(apperror.Storage, "decode legacy saved job payload", err)
		}
	default:
		return job.Job{}, apperror.New(apperror.Storage,
			fmt.Sprintf("unsupported saved job payload version %d", p.SchemaVersion))
	}

	job.ApplyDefaults(&j)
	return j, nil
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, entry domain.Job) error {
	data, err := encodePayload(entry.Job)
	if err != nil {
		return err
	}

	// saved_date is left to its DEFAULT so replacing a row refreshes it and
	// the entry moves back to the head of the list.
	const query = `INSERT OR REPLACE INTO saved_jobs
		(job_id, title, company, location, url, status, notes, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		entry.Job.ID, entry.Job.Title, entry.Job.Company, entry.Job.Location,
		entry.Job.URL, string(entry.Status), entry.Notes, data,
	)
	if err != nil {
		return fmt.Errorf("upsert saved job: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, status domain.Status) ([]domain.Job, error) {
	// Entries are rebuilt from the payload; the denormalized columns exist
	// for ad-hoc inspection of the database, not for reads here. rowid
	// breaks ties between saves within the same second.
	query := `SELECT data, status, notes, saved_date FROM saved_jobs`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY saved_date DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.Job
	for rows.Next() {
		var data, st, savedStr string
		var notes sql.NullString
		if err := rows.Scan(&data, &st, &notes, &savedStr); err != nil {
			return nil, fmt.Errorf("scan saved job: %w", err)
		}

		j, err := decodePayload(data)
		if err != nil {
			return nil, err
		}

		e := domain.Job{
			Job:    j,
			Status: domain.Status(st),
			Notes:  notes.String,
		}
		e.SavedAt, _ = time.Parse(timestampFormat, savedStr)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, jobID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM saved_jobs WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("delete saved job: %w", err)
	}
	return nil
}

func (r *Repository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM saved_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count saved jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[domain.Status(st)] = n
	}

	return counts, rows.Err()
}
