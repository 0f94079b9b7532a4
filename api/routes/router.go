package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawwelfare/shelter-backend/api/controllers"
	webhookcontrollers "github.com/pawwelfare/shelter-backend/api/controllers/webhooks"
	"github.com/pawwelfare/shelter-backend/api/middleware"
	"github.com/pawwelfare/shelter-backend/internal/adoptions"
	"github.com/pawwelfare/shelter-backend/internal/animals"
	stripewebhook "github.com/pawwelfare/shelter-backend/internal/webhooks/stripe"
	"github.com/pawwelfare/shelter-backend/pkg/config"
	"github.com/pawwelfare/shelter-backend/pkg/db"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
	"github.com/pawwelfare/shelter-backend/pkg/redis"
	"github.com/pawwelfare/shelter-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	animalService animals.Service,
	adoptionService adoptions.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeReplayGuard *stripewebhook.ReplayGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeReplayGuard, logg))
	})

	// The public listing needs no credentials.
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/animals", controllers.ListAnimals(animalService, logg))
		r.Get("/animals/{animalID}", controllers.GetAnimal(animalService, adoptionService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/adoptions", func(r chi.Router) {
			r.Post("/", controllers.SubmitAdoption(adoptionService, logg))
			r.Get("/history", controllers.AdoptionHistory(adoptionService, logg))
			r.Get("/{requestID}", controllers.GetAdoption(adoptionService, logg))
			r.Post("/{requestID}/cancel", controllers.CancelAdoption(adoptionService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create-payment-intent", controllers.CreatePaymentIntent(adoptionService, logg))
			r.Post("/confirm-payment", controllers.ConfirmPayment(adoptionService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/animals", func(r chi.Router) {
				r.Post("/", controllers.CreateAnimal(animalService, logg))
				r.Patch("/{animalID}", controllers.UpdateAnimal(animalService, logg))
				r.Post("/{animalID}/archive", controllers.ArchiveAnimal(animalService, logg))
			})

			r.Route("/adoptions", func(r chi.Router) {
				r.Get("/", controllers.ReviewQueue(adoptionService, logg))
				r.Post("/{requestID}/approve", controllers.ApproveAdoption(adoptionService, logg))
				r.Post("/{requestID}/reject", controllers.RejectAdoption(adoptionService, logg))
			})
		})
	})

	return r
}
