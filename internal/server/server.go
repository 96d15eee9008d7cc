package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/mmml-co/mmml-backend/internal/auth/domain"
	authoauth "github.com/mmml-co/mmml-backend/internal/auth/oauth"
	"github.com/mmml-co/mmml-backend/internal/auth/session"
	"github.com/mmml-co/mmml-backend/internal/config"
	coupondomain "github.com/mmml-co/mmml-backend/internal/coupon/domain"
	intakedomain "github.com/mmml-co/mmml-backend/internal/intake/domain"
	obslogger "github.com/mmml-co/mmml-backend/internal/observability/logger"
	"github.com/mmml-co/mmml-backend/internal/ratelimit"
	webhookdomain "github.com/mmml-co/mmml-backend/internal/webhook/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug:           cfg.Environment != "production",
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	genID      *snowflake.Node
	authsvc    authdomain.Service
	oauthsvc   authoauth.Service
	sessions   *session.Manager
	couponSvc  coupondomain.Service
	intakeSvc  intakedomain.Service
	webhookSvc webhookdomain.Service
	limiter    *ratelimit.SubmissionLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	GenID      *snowflake.Node
	Authsvc    authdomain.Service
	OAuthsvc   authoauth.Service
	Sessions   *session.Manager
	CouponSvc  coupondomain.Service
	IntakeSvc  intakedomain.Service
	WebhookSvc webhookdomain.Service
	Limiter    *ratelimit.SubmissionLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		genID:      p.GenID,
		authsvc:    p.Authsvc,
		oauthsvc:   p.OAuthsvc,
		sessions:   p.Sessions,
		couponSvc:  p.CouponSvc,
		intakeSvc:  p.IntakeSvc,
		webhookSvc: p.WebhookSvc,
		limiter:    p.Limiter,
	}

	svc.registerAuthRoutes()
	svc.registerIntakeRoutes()
	svc.registerPaymentRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.WebAuthRequired(), s.Me)
	auth.POST("/change-password", s.WebAuthRequired(), s.ChangePassword)
	auth.GET("/oauth", s.OAuthLogin)
}

func (s *Server) registerIntakeRoutes() {
	throttled := s.engine.Group("/", s.SubmissionRateLimit())

	throttled.POST("/users/", s.CreateUser)
	throttled.POST("/event-registrations/", s.CreateEventRegistration)
	throttled.POST("/waitlist-registrations/", s.CreateWaitlistRegistration)
	throttled.POST("/contact-messages/", s.CreateContactMessage)
	throttled.POST("/speaker-applications/", s.CreateSpeakerApplication)
	throttled.POST("/sponsorship-inquiries/", s.CreateSponsorshipInquiry)
	throttled.POST("/partnership-proposals/", s.CreatePartnershipProposal)
	throttled.POST("/volunteer-applications/", s.CreateVolunteerApplication)
}

func (s *Server) registerPaymentRoutes() {
	s.engine.POST("/event-registration-webhook/", s.PaymentWebhook)
	s.engine.POST("/apply", s.ApplyCoupon)
}
