package main

import (
	"log"

	"github.com/userChris26/Macros-sub000/config"
	"github.com/userChris26/Macros-sub000/controllers"
	"github.com/userChris26/Macros-sub000/routes"
	"github.com/userChris26/Macros-sub000/services"
	"github.com/userChris26/Macros-sub000/utils"
)

func main() {
	cfg := config.Load()
	db := config.InitDB(cfg)

	storage, err := utils.NewS3Storage(cfg.AWSRegion, cfg.S3Bucket, cfg.CloudFrontURL)
	if err != nil {
		log.Fatalf("S3 init failed: %v", err)
	}
	mailer, err := utils.NewSESMailer(cfg.AWSRegion, cfg.SESFrom)
	if err != nil {
		log.Fatalf("SES init failed: %v", err)
	}

	fdc := services.NewFdcService(cfg.FdcAPIKey)
	recognition, err := services.NewRecognitionService(cfg.AWSRegion, fdc)
	if err != nil {
		log.Fatalf("Rekognition init failed: %v", err)
	}

	secret := []byte(cfg.JWTSecret)
	authSvc := services.NewAuthService(db, mailer, secret)
	userSvc := services.NewUserService(db, storage)
	entrySvc := services.NewFoodEntryService(db, fdc)
	mealSvc := services.NewMealService(db, fdc, storage)
	socialSvc := services.NewSocialService(db)

	r := routes.SetupRouter(
		secret,
		controllers.NewAuthController(authSvc),
		controllers.NewUserController(userSvc),
		controllers.NewFoodController(fdc, entrySvc, recognition),
		controllers.NewMealController(mealSvc),
		controllers.NewSocialController(socialSvc),
	)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
