package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
	"github.com/nyayasahayak/legallibrary/internal/pkg/geospatial"
	"github.com/nyayasahayak/legallibrary/internal/pkg/lawyerparse"
)

// DefaultSearchRadiusKm applies when a geo search gives no radius.
const DefaultSearchRadiusKm = 50

// LawyerService handles the lawyer directory.
type LawyerService struct {
	lawyers ports.LawyerRepository
	cache   ports.CacheService
}

// NewLawyerService creates a new LawyerService.
func NewLawyerService(lawyers ports.LawyerRepository, cache ports.CacheService) *LawyerService {
	return &LawyerService{lawyers: lawyers, cache: cache}
}

// Search filters the directory. With a geo origin the result holds only
// located lawyers within the radius, nearest first, each with DistanceKm set.
func (s *LawyerService) Search(ctx context.Context, f domain.LawyerFilter) ([]domain.Lawyer, error) {
	f.Search = strings.TrimSpace(f.Search)
	if strings.EqualFold(f.City, "All") {
		f.City = ""
	}
	if strings.EqualFold(f.Expertise, "All") {
		f.Expertise = ""
	}
	if f.Near != nil && f.RadiusKm <= 0 {
		f.RadiusKm = DefaultSearchRadiusKm
	}
	if f.Near == nil {
		f.RadiusKm = 0
	}

	// Try cache
	keyBytes, _ := json.Marshal(f)
	cacheKey := "lawyers:search:" + string(keyBytes)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var lawyers []domain.Lawyer
			if err := json.Unmarshal(data, &lawyers); err == nil {
				return lawyers, nil
			}
		}
	}

	lawyers, err := s.lawyers.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search lawyers: %w", err)
	}

	if f.Near != nil {
		ranked := geospatial.WithinRadius(lawyers, *f.Near, f.RadiusKm, func(l domain.Lawyer) (geospatial.Point, bool) {
			if l.Location == nil {
				return geospatial.Point{}, false
			}
			return *l.Location, true
		})
		lawyers = make([]domain.Lawyer, 0, len(ranked))
		for _, r := range ranked {
			l := r.Item
			d := r.DistanceKm
			l.DistanceKm = &d
			lawyers = append(lawyers, l)
		}
	}

	// Cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(lawyers); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return lawyers, nil
}

// Import stores parsed roster records. It returns the number of lawyers written.
func (s *LawyerService) Import(ctx context.Context, recs []lawyerparse.Record, asOf time.Time) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	lawyers := make([]domain.Lawyer, 0, len(recs))
	for _, rec := range recs {
		lawyers = append(lawyers, LawyerFromRecord(rec, asOf))
	}
	if err := s.lawyers.UpsertBatch(ctx, lawyers); err != nil {
		return 0, fmt.Errorf("upsert lawyers: %w", err)
	}
	return len(lawyers), nil
}

// LawyerFromRecord builds a directory entry from a roster record. The
// location is the centre of the record's city and is flagged synthetic.
func LawyerFromRecord(rec lawyerparse.Record, asOf time.Time) domain.Lawyer {
	est := lawyerparse.Estimate(rec, asOf)
	loc := lawyerparse.CityCoordinates(rec.City)

	title := "Advocate"
	if rec.IsSeniorAdvocate {
		title = "Senior Advocate"
	}

	return domain.Lawyer{
		ID:               "sc-" + rec.ID,
		Name:             rec.Name,
		Address:          rec.Address,
		City:             rec.City,
		State:            rec.State,
		Phone:            rec.Phone,
		Email:            rec.Email,
		RegistrationDate: rec.RegistrationDate,
		FileNumber:       rec.FileNumber,
		EnrollmentNumber: lawyerparse.EnrollmentNumber(rec),
		Court:            "Supreme Court of India",
		Languages:        []string{"English", "Hindi"},
		IsSeniorAdvocate: rec.IsSeniorAdvocate,
		IsVerified:       rec.IsVerified,
		ExperienceYears:  est.ExperienceYears,
		Rating:           est.Rating,
		Reviews:          est.Reviews,
		FeePerHour:       est.FeePerHour,
		Expertise:        est.Expertise,
		Specializations:  est.Specializations,
		Description:      fmt.Sprintf("%s practising before the Supreme Court of India, based in %s.", title, rec.City),
		Location:         &loc,
		Synthetic: domain.SyntheticFields{
			Phone:           est.Synthetic.Phone,
			Email:           est.Synthetic.Email,
			Address:         rec.AddressDefaulted,
			ExperienceYears: est.Synthetic.ExperienceYears,
			Rating:          est.Synthetic.Rating,
			Reviews:         est.Synthetic.Reviews,
			FeePerHour:      est.Synthetic.FeePerHour,
			Expertise:       est.Synthetic.Expertise,
			Specializations: est.Synthetic.Specializations,
			Location:        true,
		},
	}
}
