// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/gearguard-backend/internal/config"
	"github.com/javajoker/gearguard-backend/internal/handlers"
	"github.com/javajoker/gearguard-backend/internal/middleware"
	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/store"
)

// Services groups everything the routes dispatch to.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Assets        *services.AssetService
	Requests      *services.RequestService
	Assignments   *services.AssignmentService
	Employees     *services.EmployeeService
	Subscriptions *services.SubscriptionService
	Analytics     *services.AnalyticsService

	// UploadDir is served under /uploads when images are stored locally.
	UploadDir string
}

// NewServices wires the services over one store and the external providers.
func NewServices(cfg *config.Config, s store.Store, uploader services.ImageUploader, provider services.PaymentProvider) *Services {
	return &Services{
		Auth:        services.NewAuthService(s, cfg.JWT.TTL()),
		Users:       services.NewUserService(s),
		Assets:      services.NewAssetService(s, uploader),
		Requests:    services.NewRequestService(s, services.RequestConfig{EnforceSeatLimit: cfg.EnforceSeatLimit}),
		Assignments: services.NewAssignmentService(s),
		Employees:   services.NewEmployeeService(s, cfg.DefaultAvatar),
		Subscriptions: services.NewSubscriptionService(s, provider, services.SubscriptionConfig{
			Currency:   cfg.Payment.Currency,
			SiteDomain: cfg.Frontend.BaseURL,
		}),
		Analytics: services.NewAnalyticsService(s),
	}
}

// Initialize builds the engine. The returned func stops the rate limiters'
// background cleanup.
func Initialize(cfg *config.Config, s store.Store, svc *Services) (*gin.Engine, func()) {
	healthHandler := handlers.NewHealthHandler(s)
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Users)
	assetHandler := handlers.NewAssetHandler(svc.Assets)
	requestHandler := handlers.NewRequestHandler(svc.Requests)
	assignmentHandler := handlers.NewAssignmentHandler(svc.Assignments)
	employeeHandler := handlers.NewEmployeeHandler(svc.Employees)
	paymentHandler := handlers.NewPaymentHandler(svc.Subscriptions)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)

	generalLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	sensitiveLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.SensitivePerSecond), cfg.RateLimit.SensitiveBurst)
	stop := func() {
		generalLimiter.Stop()
		sensitiveLimiter.Stop()
	}

	r := gin.New()
	r.MaxMultipartMemory = services.MaxImageSize + 1<<20

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(generalLimiter.Middleware())

	if svc.UploadDir != "" {
		r.Static("/uploads", svc.UploadDir)
	}

	users := s.Users()
	auth := middleware.AuthRequired()
	hrOnly := middleware.RequireRole(users, models.RoleHR)
	employeeOnly := middleware.RequireRole(users, models.RoleEmployee)
	owner := middleware.RequireOwner("email")
	sensitive := sensitiveLimiter.Middleware()

	// Public routes
	r.GET("/health", healthHandler.Health)
	r.POST("/jwt", sensitive, authHandler.IssueToken)
	r.POST("/users", userHandler.CreateUser)
	r.GET("/packages", paymentHandler.ListPackages)
	r.POST("/webhooks/stripe", paymentHandler.StripeWebhook)

	// Own account
	r.GET("/users/role/:email", auth, owner, userHandler.GetRole)
	r.GET("/user/:email", auth, owner, userHandler.GetUser)
	r.PATCH("/user/update/:email", auth, owner, userHandler.UpdateProfile)

	// HR routes
	hr := r.Group("")
	hr.Use(auth, hrOnly)
	{
		hr.POST("/asset", sensitive, assetHandler.CreateAsset)
		hr.GET("/asset", assetHandler.ListAssets)
		hr.DELETE("/asset/:id", assetHandler.DeleteAsset)

		hr.GET("/request", requestHandler.ListRequests)
		hr.PATCH("/request/approve/:id", requestHandler.ApproveRequest)
		hr.PATCH("/request/reject/:id", requestHandler.RejectRequest)

		hr.GET("/employees", employeeHandler.ListEmployees)
		hr.GET("/employees/stats", employeeHandler.Stats)
		hr.PATCH("/employees/remove/:id", employeeHandler.RemoveEmployee)

		hr.POST("/create-checkout-session", sensitive, paymentHandler.CreateCheckoutSession)
		hr.GET("/verify-session", paymentHandler.VerifySession)
		hr.GET("/payments", paymentHandler.ListPayments)

		hr.GET("/analytics/asset-types", analyticsHandler.AssetTypeSplit)
		hr.GET("/analytics/top-requested", analyticsHandler.TopRequested)
	}

	// Employee routes
	employee := r.Group("")
	employee.Use(auth, employeeOnly)
	{
		employee.GET("/assets/available", assetHandler.ListAvailableAssets)

		employee.POST("/request", requestHandler.SubmitRequest)
		employee.GET("/my-requests", requestHandler.ListMyRequests)

		employee.GET("/my-asset", assignmentHandler.ListMyAssets)
		employee.PATCH("/asset/return/:id", assignmentHandler.ReturnAsset)

		employee.GET("/myTeam/companies", employeeHandler.ListTeamCompanies)
		employee.GET("/myTeam/list", employeeHandler.ListTeam)
	}

	return r, stop
}
