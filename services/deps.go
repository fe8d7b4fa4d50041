package services

// External collaborators, injected at startup. utils.S3Storage, utils.SESMailer
// and FdcService are the production implementations; tests swap in fakes.

// ObjectStorage holds the photo binaries. Upload returns the public URL and
// the storage key needed to delete the object later.
type ObjectStorage interface {
	UploadBase64(base64Data, keyPrefix string) (url string, key string, err error)
	Delete(key string) error
}

// Mailer sends transactional mail. Failures are reported, not fatal; callers
// decide whether a missing mail should fail the request.
type Mailer interface {
	SendVerificationEmail(to, code string) error
	SendResetEmail(to, code string) error
}

// NutritionSource is the external food database.
type NutritionSource interface {
	Search(query string) ([]FoodSearchResult, error)
	GetFood(fdcID int) (*FoodDetail, error)
}
