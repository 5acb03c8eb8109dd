package app

import (
	"mealmate_backend/internal/config"
	"mealmate_backend/internal/middleware"
	"mealmate_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 个人资料与位置
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)
		authGroup.PUT("/user/location", c.user.UpdateLocation)
		authGroup.GET("/user/friend-locations", c.user.GetFriendLocations)

		// 好友关系
		friends := authGroup.Group("/friends")
		{
			friends.GET("", c.friend.ListFriends)
			friends.GET("/search", c.friend.Search)
			friends.GET("/requests", c.friend.ListPendingRequests)
			friends.POST("/requests", c.friend.SendRequest)
			friends.POST("/requests/accept", c.friend.AcceptRequest)
			friends.POST("/requests/decline", c.friend.DeclineRequest)
			friends.PUT("/location-visibility", c.friend.SetLocationVisibility)
			friends.DELETE("/:friendId", c.friend.RemoveFriend)
		}

		// 饭团
		squads := authGroup.Group("/squads")
		{
			squads.POST("", c.squad.Create)
			squads.GET("", c.squad.ListMine)
			squads.GET("/:id", c.squad.Get)
			squads.PUT("/:id", c.squad.UpdateMetadata)
			squads.DELETE("/:id", c.squad.Delete)
			squads.POST("/:id/members", c.squad.AddMember)
			squads.DELETE("/:id/members/:userId", c.squad.RemoveMember)
			squads.POST("/:id/transfer", c.squad.TransferOwnership)
		}

		// 饭局
		meals := authGroup.Group("/meals")
		{
			meals.POST("", c.meal.Create)
			meals.GET("", c.meal.ListMine)
			meals.GET("/open", c.meal.GetOpenMeals)
			meals.GET("/:id", c.meal.Get)
			meals.DELETE("/:id", c.meal.Delete)
			meals.POST("/:id/join", c.meal.Join)
			meals.POST("/:id/respond", c.meal.RespondInvite)
			meals.POST("/:id/squad-respond", c.meal.RespondSquadInvite)
		}

		// 约饭广播
		pings := authGroup.Group("/pings")
		{
			pings.POST("", c.ping.Create)
			pings.GET("", c.ping.ListActive)
			pings.POST("/:id/respond", c.ping.Respond)
			pings.POST("/:id/dismiss", c.ping.Dismiss)
			pings.DELETE("/:id", c.ping.Cancel)
		}
	}
}
