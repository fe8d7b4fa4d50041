package services

import (
	"fmt"
	"testing"

	"github.com/userChris26/Macros-sub000/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.FoodEntry{},
		&models.Meal{},
		&models.MealItem{},
		&models.Follow{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     email,
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeNutrition serves canned food details keyed by fdcId.
type fakeNutrition struct {
	foods    map[int]*FoodDetail
	results  []FoodSearchResult
	err      error
	getCalls int
}

func (f *fakeNutrition) Search(query string) ([]FoodSearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeNutrition) GetFood(fdcID int) (*FoodDetail, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.foods[fdcID]
	if !ok {
		return nil, fmt.Errorf("%w: food %d", ErrNotFound, fdcID)
	}
	return d, nil
}

// fakeStorage records uploads and deletions in memory.
type fakeStorage struct {
	uploads    int
	deleted    []string
	failUpload bool
	failDelete bool
}

func (f *fakeStorage) UploadBase64(base64Data, keyPrefix string) (string, string, error) {
	if f.failUpload {
		return "", "", fmt.Errorf("storage rejected the payload")
	}
	f.uploads++
	key := fmt.Sprintf("%s/obj-%d.jpg", keyPrefix, f.uploads)
	return "https://cdn.test/" + key, key, nil
}

func (f *fakeStorage) Delete(key string) error {
	if f.failDelete {
		return fmt.Errorf("storage delete failed")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

// fakeMailer records sent mail.
type fakeMailer struct {
	verifications map[string]string
	resets        map[string]string
	err           error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{verifications: map[string]string{}, resets: map[string]string{}}
}

func (f *fakeMailer) SendVerificationEmail(to, code string) error {
	if f.err != nil {
		return f.err
	}
	f.verifications[to] = code
	return nil
}

func (f *fakeMailer) SendResetEmail(to, code string) error {
	if f.err != nil {
		return f.err
	}
	f.resets[to] = code
	return nil
}

// basisFood is the canonical test food: per-100g basis of 200 kcal,
// 10 g protein, 5 g fat, 20 g carbs, served per gram.
func basisFood(fdcID int) *FoodDetail {
	return &FoodDetail{
		FdcID:       fdcID,
		Description: "Test Food",
		ServingUnit: "g",
		GramWeight:  1,
		Nutrients: map[int]float64{
			nutrientEnergy:  200,
			nutrientProtein: 10,
			nutrientFat:     5,
			nutrientCarbs:   20,
		},
	}
}
