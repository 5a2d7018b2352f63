package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/pkg/geospatial"
)

// LawyerRepo implements ports.LawyerRepository with pgx.
type LawyerRepo struct {
	db *DB
}

// NewLawyerRepo creates a new LawyerRepo.
func NewLawyerRepo(db *DB) *LawyerRepo {
	return &LawyerRepo{db: db}
}

const lawyerColumns = `id, name, address, city, state, phone, email, registration_date, file_number,
	enrollment_number, court, languages, is_senior_advocate, is_verified, experience_years,
	rating, reviews, fee_per_hour, expertise, specializations, description, lat, lon, synthetic, created_at`

// UpsertBatch inserts or updates lawyers using pgx.Batch.
func (r *LawyerRepo) UpsertBatch(ctx context.Context, lawyers []domain.Lawyer) error {
	batch := &pgx.Batch{}
	for _, l := range lawyers {
		var lat, lon *float64
		if l.Location != nil {
			lat, lon = &l.Location.Lat, &l.Location.Lon
		}
		batch.Queue(`
			INSERT INTO lawyers (id, name, address, city, state, phone, email, registration_date, file_number,
				enrollment_number, court, languages, is_senior_advocate, is_verified, experience_years,
				rating, reviews, fee_per_hour, expertise, specializations, description, lat, lon, synthetic)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city,
			    state = EXCLUDED.state, phone = EXCLUDED.phone, email = EXCLUDED.email,
			    registration_date = EXCLUDED.registration_date, file_number = EXCLUDED.file_number,
			    enrollment_number = EXCLUDED.enrollment_number, is_senior_advocate = EXCLUDED.is_senior_advocate,
			    is_verified = EXCLUDED.is_verified, experience_years = EXCLUDED.experience_years,
			    rating = EXCLUDED.rating, reviews = EXCLUDED.reviews, fee_per_hour = EXCLUDED.fee_per_hour,
			    expertise = EXCLUDED.expertise, specializations = EXCLUDED.specializations,
			    description = EXCLUDED.description, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			    synthetic = EXCLUDED.synthetic
		`, l.ID, l.Name, l.Address, l.City, l.State, l.Phone, l.Email, l.RegistrationDate, l.FileNumber,
			l.EnrollmentNumber, l.Court, nonNil(l.Languages), l.IsSeniorAdvocate, l.IsVerified, l.ExperienceYears,
			l.Rating, l.Reviews, l.FeePerHour, l.Expertise, nonNil(l.Specializations), l.Description, lat, lon, l.Synthetic)
	}
	return sendBatch(ctx, r.db.Pool, batch)
}

// Search applies the text and attribute filters in SQL. A geo origin only
// narrows the rows to its bounding box; exact distances are left to the caller.
func (r *LawyerRepo) Search(ctx context.Context, f domain.LawyerFilter) ([]domain.Lawyer, error) {
	query, args := buildLawyerQuery(f)
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lawyer
	for rows.Next() {
		var l domain.Lawyer
		var lat, lon *float64
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Address, &l.City, &l.State, &l.Phone, &l.Email, &l.RegistrationDate, &l.FileNumber,
			&l.EnrollmentNumber, &l.Court, &l.Languages, &l.IsSeniorAdvocate, &l.IsVerified, &l.ExperienceYears,
			&l.Rating, &l.Reviews, &l.FeePerHour, &l.Expertise, &l.Specializations, &l.Description,
			&lat, &lon, &l.Synthetic, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			l.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func buildLawyerQuery(f domain.LawyerFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg(likePattern(f.Search))
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR expertise ILIKE %[1]s OR city ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}
	if f.City != "" {
		conds = append(conds, "lower(city) = lower("+arg(f.City)+")")
	}
	if f.Expertise != "" {
		conds = append(conds, "expertise = "+arg(f.Expertise))
	}
	if f.MinRating != nil {
		conds = append(conds, "rating >= "+arg(*f.MinRating))
	}
	if f.Near != nil && f.RadiusKm > 0 {
		minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(f.Near.Lat, f.Near.Lon, f.RadiusKm)
		conds = append(conds, fmt.Sprintf("lat BETWEEN %s AND %s AND lon BETWEEN %s AND %s",
			arg(minLat), arg(maxLat), arg(minLon), arg(maxLon)))
	}

	q := "SELECT " + lawyerColumns + " FROM lawyers"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY rating DESC, name"
	return q, args
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
