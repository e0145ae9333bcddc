package models

// Pet is the read-only slice of the pet profile this service needs: species
// and age select the vitals range bracket. Profile CRUD lives elsewhere.
type Pet struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Species  string  `json:"species" db:"type"`
	AgeYears float64 `json:"age_years" db:"age"`
	Owner    string  `json:"owner" db:"user_email"`
}
