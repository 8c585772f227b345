package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/notesvc/internal/config"
	httpx "github.com/you/notesvc/internal/http"
	"github.com/you/notesvc/internal/http/handlers"
	"github.com/you/notesvc/internal/http/middleware"
	"github.com/you/notesvc/internal/infrastructure/auth"
	"github.com/you/notesvc/internal/infrastructure/database"
	"github.com/you/notesvc/internal/infrastructure/notifications"
	"github.com/you/notesvc/internal/infrastructure/oauth"
	"github.com/you/notesvc/internal/infrastructure/repositories"
	"github.com/you/notesvc/internal/services"

	"github.com/you/notesvc/domain"
)

func Run(cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	rc := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rc.Ping(context.Background()); err != nil {
		return err
	}

	// Infrastructure services
	hasher := auth.NewOTPHasher()
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL, cfg.SessionExtendedTTL)
	mailer := notifications.NewSMTPService(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPassword, cfg.EmailFrom)

	var provider domain.IdentityProvider
	if cfg.GoogleClientID != "" {
		gp, err := oauth.NewGoogleProvider(context.Background(), cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return err
		}
		provider = gp
	} else {
		log.Println("google: client id not set, federated login disabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(gdb)
	noteRepo := repositories.NewNoteRepository(gdb)
	stateRepo := repositories.NewStateRepository(rc.Client, cfg.OTPTTL)

	// Services
	authSvc := services.NewAuthService(userRepo, hasher, tokenSvc, mailer, cfg.OTPTTL)
	noteSvc := services.NewNoteService(noteRepo)
	policySvc := services.NewPolicyService(cas.E)

	// Handlers
	authH := handlers.NewAuthHandlers(authSvc)
	oauthH := handlers.NewOAuthHandlers(authSvc, stateRepo, provider, cfg.ClientURL)
	noteH := handlers.NewNoteHandlers(noteSvc)
	polH := handlers.NewPolicyHandlers(policySvc)

	// Middleware
	jwtMW := middleware.NewAuthMW(tokenSvc, userRepo)
	casbinMW := middleware.NewCasbinMW(cas.E)

	r := httpx.BuildRouter(authH, oauthH, noteH, polH, jwtMW, casbinMW, cfg.ClientURL)

	policies, _ := cas.E.GetPolicy()
	if len(policies) == 0 {
		cas.E.AddPolicy("role_user", "/api/auth/me", "GET")
		cas.E.AddPolicy("role_user", "/api/notes", "(GET|POST)")
		cas.E.AddPolicy("role_user", "/api/notes/*", "DELETE")
		cas.E.AddPolicy("role_admin", "/api/admin/*", "(GET|POST|DELETE)")
		_ = cas.E.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
