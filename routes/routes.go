package routes

import (
	"github.com/userChris26/Macros-sub000/controllers"
	"github.com/userChris26/Macros-sub000/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	jwtSecret []byte,
	auth *controllers.AuthController,
	user *controllers.UserController,
	food *controllers.FoodController,
	meal *controllers.MealController,
	social *controllers.SocialController,
) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	// Public auth routes
	api.POST("/register", auth.Register)
	api.POST("/login", auth.Login)
	api.POST("/verify-email", auth.VerifyEmail)
	api.POST("/forgot-password", auth.ForgotPassword)
	api.POST("/reset-password", auth.ResetPassword)
	api.POST("/refresh-token", auth.Refresh)

	protected := api.Group("")
	protected.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		protected.GET("/user/:userId", user.GetUser)
		protected.PUT("/user/:userId", user.UpdateUser)
		protected.DELETE("/user/:userId", user.DeleteUser)
		protected.GET("/users/search", user.SearchUsers)
		protected.POST("/upload-profile-pic/:userId", user.UploadProfilePic)
		protected.DELETE("/delete-profile-pic/:userId", user.DeleteProfilePic)
		protected.GET("/dashboard/stats/:userId", user.DashboardStats)

		protected.GET("/searchfoods", food.SearchFoods)
		protected.GET("/food/:fdcId", food.FoodDetails)
		protected.POST("/recognizefood", food.RecognizeFood)
		protected.POST("/addfood", food.AddFood)
		protected.POST("/getfoodentries", food.GetFoodEntries)
		protected.POST("/deletefoodentry", food.DeleteFoodEntry)

		protected.GET("/meal/:userId/:date/:mealType", meal.GetMeal)
		protected.POST("/meal/photo", meal.UploadMealPhoto)
		protected.DELETE("/meal/photo", meal.DeleteMealPhoto)

		protected.POST("/addmeal", meal.AddTemplate)
		protected.POST("/getmeals", meal.GetTemplates)
		protected.POST("/deletemeal", meal.DeleteTemplate)
		protected.PUT("/updatemeal/:mealId", meal.UpdateTemplate)
		protected.GET("/mealtemplate/:mealId", meal.GetTemplate)
		protected.POST("/addmealtoday", meal.AddMealToday)

		protected.POST("/follow", social.Follow)
		protected.DELETE("/follow", social.Unfollow)
		protected.GET("/followers/:userId", social.Followers)
		protected.GET("/following/:userId", social.Following)
		protected.GET("/feed/:userId", social.Feed)
	}

	return r
}
