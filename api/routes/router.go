package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fundlift/fundlift-backend/api/controllers"
	"github.com/fundlift/fundlift-backend/api/middleware"
	"github.com/fundlift/fundlift-backend/internal/campaigns"
	"github.com/fundlift/fundlift-backend/internal/donations"
	"github.com/fundlift/fundlift-backend/internal/identity"
	"github.com/fundlift/fundlift-backend/pkg/config"
	"github.com/fundlift/fundlift-backend/pkg/enums"
	"github.com/fundlift/fundlift-backend/pkg/logger"
	pkgredis "github.com/fundlift/fundlift-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Registry        *prometheus.Registry
	RedisClient     *pkgredis.Client
	Pingers         map[string]controllers.Pinger
	IdentityService identity.Service
	CampaignService campaigns.Service
	DonationService donations.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.RedisClient, logg)).
			Post("/register", controllers.Register(deps.IdentityService, cfg.JWT, logg))
	})

	// public catalog: listings, campaign detail, and donation submission.
	// donations attach a donor when a valid token is present but never
	// require one.
	r.Route("/api/v1/campaigns", func(r chi.Router) {
		r.Get("/", controllers.ListCampaigns(deps.CampaignService, logg))
		r.Get("/{campaignID}", controllers.GetCampaign(deps.CampaignService, deps.DonationService, logg))
		r.With(
			middleware.OptionalAuth(cfg.JWT, logg),
			middleware.Idempotency(deps.RedisClient, logg),
		).Post("/{campaignID}/donations", controllers.SubmitDonation(deps.DonationService, logg))
	})

	r.Route("/api/v1/me", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/ping", controllers.PrivatePing())
		r.Get("/donations", controllers.MyDonations(deps.DonationService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, string(enums.MemberRoleAdmin), string(enums.MemberRoleSuperAdmin)))
		r.Use(middleware.Idempotency(deps.RedisClient, logg))

		r.Get("/ping", controllers.AdminPing())
		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateCampaign(deps.CampaignService, logg))
			r.Post("/{campaignID}/approve", controllers.AdminApproveCampaign(deps.CampaignService, logg))
			r.Post("/{campaignID}/close", controllers.AdminCloseCampaign(deps.CampaignService, logg))
		})
	})

	return r
}
