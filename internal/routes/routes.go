package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/guard"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/handlers"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/pkg/config"
)

type AppHandlers struct {
	Pages   *handlers.PagesHandlers
	Auth    *handlers.AuthHandlers
	Catalog *handlers.CatalogHandlers
	Planner *handlers.PlannerHandlers
	Loading *handlers.LoadingHandlers
	Results *handlers.ResultsHandlers
	Profile *handlers.ProfileHandlers
}

func Setup(r *gin.Engine, sessions *session.Manager, cfg *config.Config, log *zap.Logger) {
	h := setupDependencies(sessions, cfg, log)
	setupRouter(r, h, sessions, log)
}

func setupDependencies(sessions *session.Manager, cfg *config.Config, log *zap.Logger) *AppHandlers {
	return &AppHandlers{
		Pages:   handlers.NewPagesHandlers(sessions, log),
		Auth:    handlers.NewAuthHandlers(sessions, log),
		Catalog: handlers.NewCatalogHandlers(sessions, log),
		Planner: handlers.NewPlannerHandlers(sessions, log),
		Loading: handlers.NewLoadingHandlers(sessions, log),
		Results: handlers.NewResultsHandlers(sessions, cfg, log),
		Profile: handlers.NewProfileHandlers(sessions, log),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, sessions *session.Manager, log *zap.Logger) {
	// Public pages
	public := r.Group("/")
	{
		public.GET("/", h.Pages.Home)
		public.GET("/about", h.Pages.About)

		public.GET("/destinations", h.Catalog.Destinations)
		public.GET("/destinations/:slug", h.Catalog.DestinationDetail)
		public.POST("/destinations/:slug/leave", h.Catalog.LeaveDestination)
		public.GET("/hotels", h.Catalog.Hotels)
		public.GET("/hotels/:hotelId", h.Catalog.HotelDetail)
		public.GET("/food", h.Catalog.Food)
		public.GET("/reviews", h.Catalog.Reviews)

		// Publicly shared itinerary behind its share token
		public.GET("/trip/:token", h.Results.SharedTrip)
	}

	// Auth routes
	authGroup := r.Group("/")
	{
		authGroup.GET("/login", h.Auth.LoginPage)
		authGroup.GET("/register", h.Auth.RegisterPage)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Planner flow. The whole sequence is public: when generation or any
	// other upstream call answers 401, respondError destroys the visitor
	// session and bounces to /login.
	plannerGroup := r.Group("/planner")
	{
		plannerGroup.GET("", h.Planner.Page)
		plannerGroup.PATCH("/form", h.Planner.UpdateForm)
		plannerGroup.POST("/form/reset", h.Planner.ResetForm)
		plannerGroup.POST("/submit", h.Planner.Submit)
		plannerGroup.POST("/package", h.Planner.ChoosePackage)
		plannerGroup.GET("/packages", h.Planner.ServerPackages)
	}

	loadingGroup := r.Group("/loading")
	{
		loadingGroup.GET("", h.Loading.Page)
		loadingGroup.GET("/status", h.Loading.Status)
		loadingGroup.POST("/retry", h.Loading.Retry)
		loadingGroup.POST("/leave", h.Loading.Leave)
	}

	resultsGroup := r.Group("/results")
	{
		resultsGroup.GET("", h.Results.Page)
		resultsGroup.POST("/share", h.Results.Share)
		resultsGroup.GET("/share/qr", h.Results.ShareQR)
		resultsGroup.POST("/leave", h.Results.Leave)
	}

	r.POST("/reviews", h.Catalog.AddReview)
	r.DELETE("/reviews/:reviewId", h.Catalog.RemoveReview)

	// Guarded routes: the profile family plus its saved-trips view.
	protected := r.Group("/")
	protected.Use(guard.Middleware(sessions, log))
	{
		protected.GET("/profile", h.Profile.Page)
		protected.PATCH("/profile", h.Profile.Update)
		protected.POST("/profile/password", h.Profile.ChangePassword)
		protected.POST("/profile/password/dismiss", h.Profile.DismissPasswordNotice)
		protected.GET("/profile/saved", h.Profile.SavedPlans)
		protected.DELETE("/profile/saved/:itineraryId", h.Profile.RemoveSavedPlan)

		protected.GET("/trips", h.Profile.Trips)
		protected.POST("/trips/:itineraryId/save", h.Profile.SaveTrip)
		protected.DELETE("/trips/:itineraryId/save", h.Profile.UnsaveTrip)
		protected.DELETE("/trips/:itineraryId", h.Profile.DeleteTrip)
	}

	// 404 handler - must be last
	r.NoRoute(func(c *gin.Context) {
		log.Info("404 - Page not found",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("ip", c.ClientIP()),
		)
		h.Pages.NotFound(c)
	})
}
