package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relieffund/relieffund-backend/api/controllers"
	"github.com/relieffund/relieffund-backend/api/middleware"
	"github.com/relieffund/relieffund-backend/internal/auth"
	"github.com/relieffund/relieffund-backend/internal/campaigns"
	"github.com/relieffund/relieffund-backend/internal/disasters"
	"github.com/relieffund/relieffund-backend/internal/donations"
	"github.com/relieffund/relieffund-backend/internal/payments"
	"github.com/relieffund/relieffund-backend/pkg/config"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/redis"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     *redis.Client
	Registry  *prometheus.Registry
	Auth      *auth.Service
	Disasters *disasters.Service
	Campaigns *campaigns.Service
	Donations *donations.Service
	Sessions  *donations.SessionManager
	Initiator payments.Initiator
	Confirmer payments.Confirmer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cachePinger(deps.Redis), logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/nonce", controllers.AuthNonce(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
	})

	donationCtrl := &controllers.DonationController{
		Sessions:         deps.Sessions,
		Campaigns:        deps.Campaigns,
		Donations:        deps.Donations,
		RecipientAddress: cfg.Wallet.RecipientAddress,
		Logg:             logg,
	}
	paymentCtrl := &controllers.PaymentController{
		Initiator: deps.Initiator,
		Confirmer: deps.Confirmer,
		Donations: deps.Donations,
		Logg:      logg,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/disasters", controllers.DisasterList(deps.Disasters, logg))
		r.Get("/disasters/{disasterId}", controllers.DisasterGet(deps.Disasters, logg))
		r.Get("/disasters/{disasterId}/campaigns", controllers.CampaignListByDisaster(deps.Campaigns, logg))
		r.Get("/campaigns/{campaignId}", controllers.CampaignGet(deps.Campaigns, logg))
		r.Get("/campaigns/{campaignId}/donations", donationCtrl.Feed)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			if deps.Redis != nil {
				r.Use(middleware.Idempotency(deps.Redis, logg))
			}

			r.Post("/donations", donationCtrl.Create)
			r.Get("/donations/{sessionId}", donationCtrl.State)
			r.Post("/donations/{sessionId}/amount", donationCtrl.SetAmount)
			r.Post("/donations/{sessionId}/submit", donationCtrl.Submit)
			r.Post("/donations/{sessionId}/complete", donationCtrl.Complete)
			r.Post("/donations/{sessionId}/reset", donationCtrl.Reset)
			r.Delete("/donations/{sessionId}", donationCtrl.Delete)

			r.Post("/payments/initiate", paymentCtrl.Initiate)
			r.Post("/payments/confirm", paymentCtrl.Confirm)
			r.Get("/payments/donation", paymentCtrl.DonationByReference)
		})
	})

	return r
}

func cachePinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
