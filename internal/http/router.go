package httpx

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/you/notesvc/internal/http/handlers"
	"github.com/you/notesvc/internal/http/middleware"
)

// BuildRouter assembles the route table. Protected groups run the bearer
// guard then the casbin role check.
func BuildRouter(
	ah *handlers.AuthHandlers,
	oh *handlers.OAuthHandlers,
	nh *handlers.NoteHandlers,
	ph *handlers.PolicyHandlers,
	jwtmw *middleware.AuthMW,
	cb *middleware.CasbinMW,
	clientURL string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/api/auth")
	auth.POST("/request-otp", ah.RequestOTP)
	auth.POST("/verify-otp", ah.VerifyOTP)
	auth.GET("/google", oh.GoogleLogin)
	auth.GET("/google/callback", oh.GoogleCallback)

	v := r.Group("/api").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.GET("/notes", nh.List)
	v.POST("/notes", nh.Create)
	v.DELETE("/notes/:id", nh.Delete)

	adm := r.Group("/api/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
