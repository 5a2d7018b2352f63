package lawyerparse

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// ExpertiseAreas is the pool synthetic expertise values are drawn from.
var ExpertiseAreas = []string{
	"Constitutional Law", "Criminal Law", "Civil Law", "Corporate Law",
	"Family Law", "Property Law", "Tax Law", "Labor Law", "Environmental Law",
	"Intellectual Property", "Banking Law", "Insurance Law", "Consumer Law",
}

// Estimates holds directory attributes the roster does not contain. Every
// value except a date-derived experience is fabricated; Synthetic says which.
type Estimates struct {
	ExperienceYears int       `json:"experience_years"`
	Rating          float64   `json:"rating"`
	Reviews         int       `json:"reviews"`
	FeePerHour      int       `json:"fee_per_hour"`
	Expertise       string    `json:"expertise"`
	Specializations []string  `json:"specializations"`
	Synthetic       Synthetic `json:"synthetic"`
}

// Synthetic flags fields whose values were generated, not parsed.
type Synthetic struct {
	Phone           bool `json:"phone"`
	Email           bool `json:"email"`
	ExperienceYears bool `json:"experience_years"`
	Rating          bool `json:"rating"`
	Reviews         bool `json:"reviews"`
	FeePerHour      bool `json:"fee_per_hour"`
	Expertise       bool `json:"expertise"`
	Specializations bool `json:"specializations"`
}

// Estimate fills the non-extractable attributes of rec. The generator is
// seeded from the record identity so repeated imports produce the same
// values. Experience is derived from the registration year when there is one.
func Estimate(rec Record, asOf time.Time) Estimates {
	rng := seeded(rec.ID, rec.Name)

	est := Estimates{
		Rating:     float64(35+rng.IntN(16)) / 10,
		Reviews:    5 + rng.IntN(196),
		FeePerHour: 1000 + rng.IntN(4001),
		Expertise:  ExpertiseAreas[rng.IntN(len(ExpertiseAreas))],
		Synthetic: Synthetic{
			Phone:           rec.PhoneSynthetic,
			Email:           rec.EmailSynthetic,
			Rating:          true,
			Reviews:         true,
			FeePerHour:      true,
			Expertise:       true,
			Specializations: true,
		},
	}

	n := 1 + rng.IntN(3)
	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		s := ExpertiseAreas[rng.IntN(len(ExpertiseAreas))]
		if !seen[s] {
			seen[s] = true
			est.Specializations = append(est.Specializations, s)
		}
	}

	if year, ok := registrationYear(rec); ok {
		est.ExperienceYears = max(1, asOf.Year()-year)
	} else {
		est.ExperienceYears = 5 + rng.IntN(21)
		est.Synthetic.ExperienceYears = true
	}
	return est
}

// EnrollmentNumber formats the roster file number the way the Bar Council
// register does, D/<file>/<year>. Missing parts default to 0 and 2020.
func EnrollmentNumber(rec Record) string {
	file := "0"
	if rec.FileNumber != nil {
		file = *rec.FileNumber
	}
	year := "2020"
	if y, ok := registrationYear(rec); ok {
		year = strconv.Itoa(y)
	}
	return fmt.Sprintf("D/%s/%s", file, year)
}

func registrationYear(rec Record) (int, bool) {
	if rec.RegistrationDate == nil {
		return 0, false
	}
	parts := strings.Split(*rec.RegistrationDate, "/")
	y, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return y, true
}

func seeded(id, name string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(id))
	a := h.Sum64()
	h.Write([]byte("|" + name))
	return rand.New(rand.NewPCG(a, h.Sum64()))
}
