package models

import (
	"fmt"
	"time"
)

// DietDateLayout is the canonical storage form of a meal's diet date: UTC,
// fixed-width nanoseconds. Strings in this layout sort lexically in
// chronological order, which the streak computation relies on.
const DietDateLayout = "2006-01-02T15:04:05.000000000Z"

// Meal represents one logged meal.
type Meal struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID   string    `json:"session_id" gorm:"type:varchar(36);not null;index"`
	UserID      *string   `json:"user_id" gorm:"type:varchar(36);index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:varchar(255);not null"`
	IsOnTheDiet bool      `json:"is_on_the_diet" gorm:"not null"`
	DateDiet    string    `json:"date_diet" gorm:"type:varchar(40);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the table created by the migrations.
func (Meal) TableName() string { return "daily_meals" }

// MealSummary is the trimmed projection returned by the summary listing.
type MealSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsOnTheDiet bool   `json:"is_on_the_diet"`
	DateDiet    string `json:"date_diet"`
}

// Summary projects the meal onto its summary fields.
func (m Meal) Summary() MealSummary {
	return MealSummary{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		IsOnTheDiet: m.IsOnTheDiet,
		DateDiet:    m.DateDiet,
	}
}

// FormatDietDate renders t in DietDateLayout.
func FormatDietDate(t time.Time) string {
	return t.UTC().Format(DietDateLayout)
}

// ParseDietDate parses a caller supplied RFC 3339 date-time. The UTC year
// must stay within 0000-9999 so the stored form keeps its fixed width.
func ParseDietDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid diet date %q: %w", s, err)
	}
	if year := t.UTC().Year(); year < 0 || year > 9999 {
		return time.Time{}, fmt.Errorf("invalid diet date %q: UTC year %d out of range", s, year)
	}
	return t, nil
}
