package doctor

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Specialties is the closed set of departments a doctor can belong to.
var Specialties = []string{
	"cardiology",
	"dermatology",
	"endocrinology",
	"gastroenterology",
	"neurology",
	"oncology",
	"orthopedics",
	"pediatrics",
	"psychiatry",
	"radiology",
}

func ValidSpecialty(s string) bool {
	return slices.Contains(Specialties, strings.ToLower(s))
}

const MaxExperienceYears = 70

type Doctor struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Specialty  string
	Phone      *string
	Experience *int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
