package routes

import (
	"bo_backend_project/admin"
	"bo_backend_project/controllers"
	"bo_backend_project/middleware"
	"bo_backend_project/services/marketdata"
	"bo_backend_project/services/scheduleapi"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes sets up all API and admin routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, svc *marketdata.Service, feed *scheduleapi.Service) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	boardController := controllers.NewBoardController(db)
	scheduleController := controllers.NewScheduleController(db, feed)
	financeController := controllers.NewFinanceController(svc)

	adminAuth := admin.NewAuthController(db)
	adminDashboard := admin.NewDashboardController(db, svc)

	// API v1 group
	api := router.Group("/api/v1")
	{
		api.POST("/auth/login", authController.Login)

		authed := api.Group("")
		authed.Use(middleware.JWTAuthMiddleware())
		{
			// Board routes
			boards := authed.Group("/boards")
			{
				boards.GET("", boardController.GetBoards)
				boards.POST("", boardController.CreateBoard)
				boards.GET("/:id", boardController.GetBoard)
				boards.PUT("/:id", boardController.UpdateBoard)
				boards.DELETE("/:id", boardController.DeleteBoard)
				boards.GET("/:id/posts", boardController.GetBoardPosts)
				boards.POST("/:id/posts", boardController.CreatePost)
			}

			// Post routes
			posts := authed.Group("/posts")
			{
				posts.GET("/:id", boardController.GetPost)
				posts.PUT("/:id", boardController.UpdatePost)
				posts.DELETE("/:id", boardController.DeletePost)
			}

			// Schedule routes
			schedules := authed.Group("/schedules")
			{
				schedules.GET("", scheduleController.GetSchedules)
				schedules.POST("", scheduleController.CreateSchedule)
				schedules.POST("/sync-api", scheduleController.SyncFromFeed)
				schedules.GET("/:id", scheduleController.GetSchedule)
				schedules.PUT("/:id", scheduleController.UpdateSchedule)
				schedules.DELETE("/:id", scheduleController.DeleteSchedule)
			}

			// Financial data collection routes
			finance := authed.Group("/finance")
			{
				finance.GET("/fetch-data", financeController.FetchAll)
				finance.GET("/disclosure-info", financeController.DatasetHandler(marketdata.DatasetDisclosure))
				finance.GET("/capital-increase-info", financeController.DatasetHandler(marketdata.DatasetCapitalIncrease))
				finance.GET("/bonus-issuance-info", financeController.DatasetHandler(marketdata.DatasetBonusIssuance))
				finance.GET("/stock-issuance", financeController.DatasetHandler(marketdata.DatasetStockIssuance))
				finance.GET("/stock-price", financeController.DatasetHandler(marketdata.DatasetStockPrice))
				finance.GET("/stock-quotes", financeController.StockQuotes)
				finance.GET("/kospi-index", financeController.DatasetHandler(marketdata.DatasetKospiIndex))
				finance.GET("/kosdaq-index", financeController.DatasetHandler(marketdata.DatasetKosdaqIndex))
			}
		}
	}

	// Admin UI routes
	router.GET("/admin/login", adminAuth.LoginPage)
	router.POST("/admin/login", adminAuth.Login)
	router.GET("/admin/logout", adminAuth.Logout)

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(adminAuth.AuthMiddleware())
	{
		adminRoutes.GET("", adminDashboard.Dashboard)
		adminRoutes.GET("/finance-data", adminDashboard.FinanceDataPage)
		adminRoutes.POST("/finance-data/run", adminDashboard.RunCollection)
		adminRoutes.GET("/finance-data/ws", adminDashboard.StreamCollection)
	}
}
