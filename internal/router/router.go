package router

import (
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/gateway"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/handler"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/repository"
	"github.com/gin-gonic/gin"
)

func Setup(store *repository.Store, gw *gateway.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "algoarena-server",
		})
	})

	userRepo := repository.NewUserRepository(store)
	contestRepo := repository.NewContestRepository(store)
	paymentRepo := repository.NewPaymentRepository(store)

	authHandler := handler.NewAuthHandler(cfg.JWT)
	userHandler := handler.NewUserHandler(logic.NewUserLogic(userRepo))
	contestHandler := handler.NewContestHandler(logic.NewContestLogic(contestRepo))
	paymentHandler := handler.NewPaymentHandler(logic.NewPaymentLogic(paymentRepo, contestRepo, gw, cfg), cfg.URLs)

	// 令牌签发
	r.POST("/jwt", authHandler.IssueToken)

	// 用户相关路由
	users := r.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.GetUsers)
		users.PATCH("/:id/toggle-block", userHandler.ToggleBlock)
		users.PATCH("/:id/role", userHandler.ChangeRole)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// 竞赛相关路由
	contests := r.Group("/contests")
	{
		contests.POST("", contestHandler.CreateContest)
		contests.GET("", contestHandler.GetContests)
		contests.GET("/email", contestHandler.GetContestsByCreator)
		contests.PUT("/update/:id", contestHandler.UpdateContest)
		contests.PATCH("/confirm/:id", contestHandler.ConfirmContest)
		contests.DELETE("/delete/:id", contestHandler.DeleteContest)
	}
	r.GET("/top-creators", contestHandler.GetTopCreators)
	r.GET("/search", contestHandler.SearchContests)

	// 支付相关路由，success/fail/cancel为网关异步回调
	r.POST("/initiate-payment", paymentHandler.InitiatePayment)
	r.POST("/payment/success/:tranId", paymentHandler.PaymentSuccess)
	r.POST("/payment/fail/:tranId", paymentHandler.PaymentFail)
	r.POST("/payment/cancel/:tranId", paymentHandler.PaymentCancel)
	r.GET("/payment-history", paymentHandler.GetPaymentHistory)
	r.PATCH("/payment-history/:transactionId", paymentHandler.AttachReceipt)

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
