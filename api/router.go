package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendmoni/auth"
	"trendmoni/services"
	"trendmoni/utils"
)

// Deps are the components the HTTP API is served from.
type Deps struct {
	Authority   *auth.Authority
	Profiles    *services.ProfileService
	Datasets    *services.DatasetCache
	Recommender *services.RecommendationService
	Logger      *utils.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogging(d.Logger))

	h := NewHandler(d)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/niches", h.ListNiches)

	authGroup := router.Group("/auth")
	authGroup.POST("/anonymous", h.SignInAnonymous)
	authGroup.POST("/token", h.SignInWithToken)
	authGroup.POST("/signup", h.SignUp)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", RequireAuth(d.Authority), h.Logout)

	profile := router.Group("/profile", RequireAuth(d.Authority))
	profile.GET("", h.GetProfile)
	profile.PUT("", h.PutProfile)
	profile.PATCH("", h.PatchProfile)

	dashboard := router.Group("/dashboard", RequireAuth(d.Authority))
	dashboard.GET("", h.Dashboard)
	dashboard.GET("/:view", h.DashboardView)

	return router
}
