package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Meal is the per-user, per-day, per-slot aggregate. The composite unique
// index is the storage-level guarantee that at most one row exists per key.
//
// Templates reuse the same table with IsTemplate set; a template's Date keeps
// the full creation timestamp, so template rows never collide with daily rows
// (whose dates are truncated to midnight) or with each other.
type Meal struct {
	gorm.Model
	UserID   uint      `gorm:"uniqueIndex:idx_user_date_slot;not null" json:"userId"`
	Date     time.Time `gorm:"uniqueIndex:idx_user_date_slot" json:"date"`
	MealType string    `gorm:"uniqueIndex:idx_user_date_slot;size:16" json:"mealType"`

	// Comma-joined FoodEntry ids in insertion order. A deleted entry can leave
	// a dangling id here; reads skip ids that no longer resolve.
	FoodRefs string `gorm:"type:text" json:"-"`

	PhotoURL string `json:"photoUrl,omitempty"`
	PhotoKey string `json:"-"`

	IsTemplate bool       `gorm:"index" json:"isTemplate"`
	Name       string     `json:"name,omitempty"`
	Items      []MealItem `json:"items,omitempty"`

	// Precomputed totals, maintained for templates only. Daily meals derive
	// totals from their food entries at read time.
	TotalCalories float64 `json:"totalCalories,omitempty"`
	TotalProtein  float64 `json:"totalProtein,omitempty"`
	TotalCarbs    float64 `json:"totalCarbs,omitempty"`
	TotalFat      float64 `json:"totalFat,omitempty"`
}

// MealItem is one embedded food of a template, with serving-scaled nutrients.
type MealItem struct {
	gorm.Model
	MealID uint `gorm:"index;not null" json:"mealId"`

	FdcID       int    `json:"fdcId"`
	Description string `json:"description"`

	ServingAmount float64 `json:"servingAmount"`
	ServingUnit   string  `json:"servingUnit"`
	GramWeight    float64 `json:"gramWeight"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (m *Meal) FoodIDs() []uint {
	if m.FoodRefs == "" {
		return nil
	}
	parts := strings.Split(m.FoodRefs, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

func (m *Meal) SetFoodIDs(ids []uint) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	m.FoodRefs = strings.Join(parts, ",")
}

func (m *Meal) AppendFoodID(id uint) {
	if m.FoodRefs == "" {
		m.FoodRefs = strconv.FormatUint(uint64(id), 10)
		return
	}
	m.FoodRefs += "," + strconv.FormatUint(uint64(id), 10)
}

func (m *Meal) RemoveFoodID(id uint) {
	ids := m.FoodIDs()
	kept := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	m.SetFoodIDs(kept)
}
