package models

import (
	"time"

	"gorm.io/gorm"
)

// One logged food. Nutrient columns hold the serving-scaled amounts,
// never the raw per-100g basis.
type FoodEntry struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`

	FdcID       int    `gorm:"not null" json:"fdcId"`
	Description string `json:"description"`
	BrandOwner  string `json:"brandOwner,omitempty"`
	BrandName   string `json:"brandName,omitempty"`

	ServingAmount float64 `json:"servingAmount"`
	ServingUnit   string  `json:"servingUnit"`
	GramWeight    float64 `json:"gramWeight"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`

	MealType string    `gorm:"size:16" json:"mealType"` // breakfast|lunch|dinner|snack
	Date     time.Time `gorm:"index" json:"date"`       // truncated to YYYY-MM-DD
	LoggedAt time.Time `json:"loggedAt"`                // full timestamp, used for ordering
}
