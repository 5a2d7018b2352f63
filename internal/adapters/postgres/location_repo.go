package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// LocationRepo implements ports.LocationRepository with pgx.
type LocationRepo struct {
	db *DB
}

// NewLocationRepo creates a new LocationRepo.
func NewLocationRepo(db *DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) ListStates(ctx context.Context) ([]domain.State, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT code, name, type FROM states ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.State, error) {
		var s domain.State
		err := row.Scan(&s.Code, &s.Name, &s.Type)
		return s, err
	})
}

func (r *LocationRepo) ListDistricts(ctx context.Context, stateCode string) ([]domain.District, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT code, name, state_code, state_name FROM districts
		WHERE state_code = $1 ORDER BY name
	`, stateCode)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanDistrict)
}

func (r *LocationRepo) GetDistrict(ctx context.Context, code string) (*domain.District, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT code, name, state_code, state_name FROM districts WHERE code = $1
	`, code)
	if err != nil {
		return nil, err
	}
	d, err := pgx.CollectExactlyOneRow(rows, scanDistrict)
	if err != nil {
		return nil, notFound(err, "district")
	}
	return &d, nil
}

func scanDistrict(row pgx.CollectableRow) (domain.District, error) {
	var d domain.District
	err := row.Scan(&d.Code, &d.Name, &d.StateCode, &d.StateName)
	return d, err
}

func (r *LocationRepo) ListStations(ctx context.Context, districtCode string) ([]domain.PoliceStation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT code, name, district_code, district_name, state_code, type,
		       COALESCE(address, ''), COALESCE(phone, ''), lat, lon
		FROM police_stations WHERE district_code = $1 ORDER BY code
	`, districtCode)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PoliceStation, error) {
		var s domain.PoliceStation
		var lat, lon *float64
		if err := row.Scan(&s.Code, &s.Name, &s.DistrictCode, &s.DistrictName, &s.StateCode, &s.Type,
			&s.Address, &s.Phone, &lat, &lon); err != nil {
			return s, err
		}
		if lat != nil && lon != nil {
			s.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
		}
		s.Source = "catalogue"
		return s, nil
	})
}

// ReplaceCatalogue deletes and reinserts states and districts in one transaction.
// Stations are removed with them since their codes derive from district codes.
func (r *LocationRepo) ReplaceCatalogue(ctx context.Context, states []domain.State, districts []domain.District) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM police_stations`); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM districts`); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM states`); err != nil {
			return err
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"states"}, []string{"code", "name", "type"},
			pgx.CopyFromSlice(len(states), func(i int) ([]any, error) {
				s := states[i]
				return []any{s.Code, s.Name, s.Type}, nil
			})); err != nil {
			return fmt.Errorf("copy states: %w", err)
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"districts"}, []string{"code", "name", "state_code", "state_name"},
			pgx.CopyFromSlice(len(districts), func(i int) ([]any, error) {
				d := districts[i]
				return []any{d.Code, d.Name, d.StateCode, d.StateName}, nil
			})); err != nil {
			return fmt.Errorf("copy districts: %w", err)
		}
		return nil
	})
}

// ReplaceStations swaps the whole police station table.
func (r *LocationRepo) ReplaceStations(ctx context.Context, stations []domain.PoliceStation) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM police_stations`); err != nil {
			return err
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"police_stations"},
			[]string{"code", "name", "district_code", "district_name", "state_code", "type", "lat", "lon"},
			pgx.CopyFromSlice(len(stations), func(i int) ([]any, error) {
				s := stations[i]
				var lat, lon *float64
				if s.Location != nil {
					lat, lon = &s.Location.Lat, &s.Location.Lon
				}
				return []any{s.Code, s.Name, s.DistrictCode, s.DistrictName, s.StateCode, s.Type, lat, lon}, nil
			}))
		if err != nil {
			return fmt.Errorf("copy stations: %w", err)
		}
		return nil
	})
}

func (r *LocationRepo) Counts(ctx context.Context) (states, districts, stations int, err error) {
	err = r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM states),
			(SELECT count(*) FROM districts),
			(SELECT count(*) FROM police_stations)
	`).Scan(&states, &districts, &stations)
	return
}
