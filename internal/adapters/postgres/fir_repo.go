package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// FIRRepo implements ports.FIRRepository with pgx.
type FIRRepo struct {
	db *DB
}

// NewFIRRepo creates a new FIRRepo.
func NewFIRRepo(db *DB) *FIRRepo {
	return &FIRRepo{db: db}
}

const firColumns = `fir_id, complainant_name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, ''),
	state_code, district_code, COALESCE(police_station_code, ''), incident_type, incident_date,
	COALESCE(incident_location, ''), description, status, created_at, updated_at`

// Create stores the FIR together with its initial history in one transaction.
func (r *FIRRepo) Create(ctx context.Context, fir *domain.FIR) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO fir_records (fir_id, complainant_name, phone, email, address, state_code, district_code,
				police_station_code, incident_type, incident_date, incident_location, description, status,
				created_at, updated_at)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10,
				NULLIF($11, ''), $12, $13, $14, $15)
		`, fir.ID, fir.ComplainantName, fir.Phone, fir.Email, fir.Address, fir.StateCode, fir.DistrictCode,
			fir.StationCode, fir.IncidentType, fir.IncidentDate, fir.IncidentLocation, fir.Description,
			string(fir.Status), fir.CreatedAt, fir.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert fir: %w", err)
		}

		batch := &pgx.Batch{}
		for _, h := range fir.History {
			queueHistory(batch, fir.ID, h)
		}
		return sendBatch(ctx, tx, batch)
	})
}

// GetByID returns the FIR with its full history, oldest change first.
func (r *FIRRepo) GetByID(ctx context.Context, id string) (*domain.FIR, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+firColumns+` FROM fir_records WHERE fir_id = $1`, id)
	if err != nil {
		return nil, err
	}
	fir, err := pgx.CollectExactlyOneRow(rows, scanFIR)
	if err != nil {
		return nil, notFound(err, "fir")
	}

	hrows, err := r.db.Pool.Query(ctx, `
		SELECT COALESCE(from_status, ''), to_status, COALESCE(note, ''), changed_at
		FROM fir_status_history WHERE fir_id = $1 ORDER BY changed_at, id
	`, id)
	if err != nil {
		return nil, err
	}
	fir.History, err = pgx.CollectRows(hrows, func(row pgx.CollectableRow) (domain.FIRStatusChange, error) {
		var h domain.FIRStatusChange
		var from, to string
		err := row.Scan(&from, &to, &h.Note, &h.At)
		h.From, h.To = domain.FIRStatus(from), domain.FIRStatus(to)
		return h, err
	})
	if err != nil {
		return nil, err
	}
	return &fir, nil
}

// ListByEmail returns FIRs without history, newest first.
func (r *FIRRepo) ListByEmail(ctx context.Context, email string) ([]domain.FIR, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+firColumns+` FROM fir_records
		WHERE lower(email) = lower($1) ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanFIR)
}

// ListByStatus returns FIRs without history, least recently updated first.
func (r *FIRRepo) ListByStatus(ctx context.Context, status domain.FIRStatus, updatedBefore time.Time, limit int) ([]domain.FIR, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+firColumns+` FROM fir_records
		WHERE status = $1 AND updated_at < $2 ORDER BY updated_at LIMIT $3
	`, string(status), updatedBefore, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanFIR)
}

// AppendStatus updates the status and writes the history row atomically.
func (r *FIRRepo) AppendStatus(ctx context.Context, id string, change domain.FIRStatusChange) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE fir_records SET status = $2, updated_at = $3 WHERE fir_id = $1
		`, id, string(change.To), change.At)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("fir %s: %w", id, domain.ErrNotFound)
		}
		batch := &pgx.Batch{}
		queueHistory(batch, id, change)
		return sendBatch(ctx, tx, batch)
	})
}

func (r *FIRRepo) AssignStation(ctx context.Context, id, stationCode string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE fir_records SET police_station_code = $2, updated_at = now() WHERE fir_id = $1
	`, id, stationCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fir %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func queueHistory(batch *pgx.Batch, firID string, h domain.FIRStatusChange) {
	batch.Queue(`
		INSERT INTO fir_status_history (fir_id, from_status, to_status, note, changed_at)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5)
	`, firID, string(h.From), string(h.To), h.Note, h.At)
}

func scanFIR(row pgx.CollectableRow) (domain.FIR, error) {
	var f domain.FIR
	var status string
	err := row.Scan(&f.ID, &f.ComplainantName, &f.Phone, &f.Email, &f.Address, &f.StateCode, &f.DistrictCode,
		&f.StationCode, &f.IncidentType, &f.IncidentDate, &f.IncidentLocation, &f.Description, &status,
		&f.CreatedAt, &f.UpdatedAt)
	f.Status = domain.FIRStatus(status)
	return f, err
}
