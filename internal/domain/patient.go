package domain

import "time"

// PatientProfile carries the demographic attributes used for campaign
// targeting. Read-only from the matcher's perspective.
type PatientProfile struct {
	UserID        string
	DateOfBirth   *time.Time
	Gender        string
	State         string
	LGA           string
	MonthlyIncome *float64
}

// AgeAt derives the patient's age at the given instant. ok is false when
// no date of birth is on file.
func (p *PatientProfile) AgeAt(now time.Time) (int, bool) {
	if p.DateOfBirth == nil {
		return 0, false
	}
	dob := *p.DateOfBirth
	age := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
