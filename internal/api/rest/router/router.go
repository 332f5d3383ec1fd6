package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rumazq/fintrack-server/internal/api/rest/handler"
	"github.com/rumazq/fintrack-server/internal/api/rest/middleware"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
	"github.com/rumazq/fintrack-server/internal/service"
)

// Router wires the HTTP handlers and middleware onto a gin engine.
type Router struct {
	authService        *service.Auth
	tokenService       *service.Token
	transactionService *service.Transaction
	dashboardService   *service.Dashboard
	chatService        *service.Chat
	storage            model.Storage
	contextManager     model.ContextManager
	allowedOrigins     []string
	logger             *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	tokenService *service.Token,
	transactionService *service.Transaction,
	dashboardService *service.Dashboard,
	chatService *service.Chat,
	storage model.Storage,
	contextManager model.ContextManager,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:        authService,
		tokenService:       tokenService,
		transactionService: transactionService,
		dashboardService:   dashboardService,
		chatService:        chatService,
		storage:            storage,
		contextManager:     contextManager,
		allowedOrigins:     allowedOrigins,
		logger:             logger,
	}
}

// Register builds the gin engine with all routes and middleware attached.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	logging := middleware.NewLogging(r.logger)
	engine.Use(logging.Handle)
	engine.Use(middleware.CORS(r.allowedOrigins))

	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	api := engine.Group("/api/v1")
	r.registerAuthRoutes(api, authenticate)
	r.registerIncomeRoutes(api, authenticate)
	r.registerExpenseRoutes(api, authenticate)
	r.registerDashboardRoutes(api, authenticate)
	r.registerChatRoutes(api, authenticate)

	return engine
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	authHandler := handler.NewAuth(r.authService, r.tokenService, r.contextManager, r.logger)
	uploadHandler := handler.NewUpload(r.storage, r.logger)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/reset-password-security", authHandler.ResetPasswordSecurity)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)

	auth.GET("/getUser", authenticate.Handle, authHandler.GetUser)
	auth.PUT("/update-user", authenticate.Handle, authHandler.UpdateUser)
	auth.PUT("/update-tour-status", authenticate.Handle, authHandler.UpdateTourStatus)
	auth.POST("/upload-image", authenticate.Handle, uploadHandler.UploadImage)
}

func (r *Router) registerIncomeRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	incomeHandler := handler.NewIncome(r.transactionService, r.contextManager, r.logger)

	income := api.Group("/income", authenticate.Handle)
	income.POST("/add", incomeHandler.Add)
	income.GET("/get", incomeHandler.List)
	income.PUT("/:id", incomeHandler.Update)
	income.DELETE("/:id", incomeHandler.Delete)
	income.GET("/downloadexcel", incomeHandler.DownloadExcel)
}

func (r *Router) registerExpenseRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	expenseHandler := handler.NewExpense(r.transactionService, r.contextManager, r.logger)

	expense := api.Group("/expense", authenticate.Handle)
	expense.POST("/add", expenseHandler.Add)
	expense.GET("/get", expenseHandler.List)
	expense.PUT("/:id", expenseHandler.Update)
	expense.DELETE("/:id", expenseHandler.Delete)
	expense.GET("/downloadexcel", expenseHandler.DownloadExcel)
}

func (r *Router) registerDashboardRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	dashboardHandler := handler.NewDashboard(r.dashboardService, r.contextManager, r.logger)

	dashboard := api.Group("/dashboard", authenticate.Handle)
	dashboard.GET("", dashboardHandler.Overview)
	dashboard.GET("/transactions", dashboardHandler.Transactions)
}

func (r *Router) registerChatRoutes(api *gin.RouterGroup, authenticate *middleware.Authenticate) {
	chatHandler := handler.NewChat(r.chatService, r.contextManager, r.logger)

	chat := api.Group("/chat", authenticate.Handle)
	chat.POST("", chatHandler.Send)
	chat.GET("", chatHandler.History)
	chat.DELETE("", chatHandler.Clear)
}
