package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tunedrop/backend/internal/config"
	"github.com/tunedrop/backend/internal/handlers"
	appMiddleware "github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/services"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := services.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Firebase Auth (server-side verification of ID tokens). When it is not
	// configured the API falls back to local JWT auth.
	authClient, err := appMiddleware.NewFirebaseAuthClient(
		ctx,
		appMiddleware.FirebaseAuthConfig{
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			CredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		},
	)
	if err != nil {
		log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
	}

	// External clients
	mailer := services.NewMailer(cfg.SendGridAPIKey, cfg.EmailFrom)
	stripeClient := services.NewStripeClient(cfg.StripeSecretKey)

	// Services
	userService := services.NewMongoUserService(ctx, db)
	profileService := services.NewMongoProfileService(ctx, db)
	releaseService := services.NewMongoReleaseService(ctx, db)
	notificationService := services.NewMongoNotificationService(ctx, db)
	fineService := services.NewMongoFineService(ctx, db, profileService)
	payoutService := services.NewMongoPayoutService(ctx, db)
	appealService := services.NewMongoAppealService(ctx, db, profileService, mailer)
	ticketService := services.NewMongoTicketService(ctx, db)
	announcementService := services.NewMongoAnnouncementService(ctx, db)
	settingsService := services.NewMongoSettingsService(db)
	invitationService := services.NewMongoInvitationService(ctx, db, profileService, mailer)
	allowanceService := services.NewMongoAllowanceService(ctx, db)
	royaltyService := services.NewMongoRoyaltyService(ctx, db)

	// Left nil when unconfigured so handlers skip screening entirely.
	var moderation handlers.ArtworkModerator
	if cfg.StorageBucket != "" {
		m, err := services.NewArtworkModerationService(ctx, cfg.StorageBucket, cfg.MaxUploadSizeMB, profileService)
		if err != nil {
			log.Printf("Warning: artwork moderation disabled: %v", err)
		} else {
			moderation = m
		}
	}

	lifecycle := &services.ReleaseLifecycle{
		Releases:      releaseService,
		Profiles:      profileService,
		Notifications: notificationService,
		Mailer:        mailer,
	}

	accountService := &services.AccountService{
		Users:         userService,
		Profiles:      profileService,
		Releases:      releaseService,
		Fines:         fineService,
		Payouts:       payoutService,
		Tickets:       ticketService,
		Notifications: notificationService,
		Royalties:     royaltyService,
		Allowances:    allowanceService,
		Appeals:       appealService,
	}

	eventFeed := services.NewEventFeed(db)
	go eventFeed.Run(ctx)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, profileService, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(profileService, moderation)
	releaseHandler := handlers.NewReleaseHandler(releaseService, lifecycle, allowanceService, moderation)
	fineHandler := handlers.NewFineHandler(fineService)
	payoutHandler := handlers.NewPayoutHandler(payoutService, royaltyService, stripeClient)
	appealHandler := handlers.NewAppealHandler(appealService)
	ticketHandler := handlers.NewTicketHandler(ticketService, profileService, mailer)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	allowanceHandler := handlers.NewAllowanceHandler(allowanceService)
	royaltyHandler := handlers.NewRoyaltyHandler(royaltyService)
	adminUserHandler := handlers.NewAdminUserHandler(profileService, accountService, mailer)
	billingHandler := handlers.NewBillingHandler(stripeClient, fineService)
	eventsHandler := handlers.NewEventsHandler(eventFeed)

	authMiddleware := appMiddleware.JWTAuth(cfg.JWTSecret)
	if authClient != nil {
		authMiddleware = appMiddleware.FirebaseAuth(authClient)
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public auth
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(appMiddleware.Maintenance(settingsService, 30*time.Second))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.GetMine)
				r.Put("/", profileHandler.UpdateMine)
			})

			r.Route("/releases", func(r chi.Router) {
				r.Get("/", releaseHandler.ListMine)
				r.Post("/", releaseHandler.CreateRelease)

				r.Route("/{releaseId}", func(r chi.Router) {
					r.Get("/", releaseHandler.GetRelease)
					r.Put("/", releaseHandler.UpdateRelease)
					r.Delete("/", releaseHandler.DeleteRelease)
					r.Post("/takedown", releaseHandler.RequestTakedown)
				})
			})

			r.Get("/fines", fineHandler.ListMine)

			r.Route("/payouts", func(r chi.Router) {
				r.Get("/", payoutHandler.ListMine)
				r.Post("/", payoutHandler.CreatePayout)
			})

			r.Route("/royalties", func(r chi.Router) {
				r.Get("/", royaltyHandler.ListMine)
				r.Get("/balance", royaltyHandler.Balance)
			})

			r.Post("/appeals", appealHandler.CreateAppeal)

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", ticketHandler.ListMine)
				r.Post("/", ticketHandler.CreateTicket)
				r.Get("/{ticketId}", ticketHandler.GetTicket)
				r.Post("/{ticketId}/reply", ticketHandler.Reply)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.ListMine)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Post("/{notificationId}/read", notificationHandler.MarkRead)
			})

			r.Get("/announcements", announcementHandler.List)
			r.Get("/announcement-bar", announcementHandler.GetBar)
			r.Get("/maintenance", settingsHandler.GetMaintenance)

			r.Get("/allowance", allowanceHandler.GetMine)
			r.Post("/invitations/accept", invitationHandler.Accept)

			r.Route("/billing", func(r chi.Router) {
				r.Post("/checkout", billingHandler.CreateFineCheckout)
				r.Post("/portal", billingHandler.CustomerPortal)
			})

			r.Get("/events", eventsHandler.Stream)

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(appMiddleware.RequireAdmin)

				r.Route("/releases", func(r chi.Router) {
					r.Get("/", releaseHandler.AdminList)
					r.Put("/{releaseId}/status", releaseHandler.UpdateStatus)
					r.Post("/{releaseId}/takedown-review", releaseHandler.ReviewTakedown)
				})

				r.Route("/fines", func(r chi.Router) {
					r.Get("/", fineHandler.AdminList)
					r.Post("/", fineHandler.IssueFine)
					r.Put("/{fineId}/status", fineHandler.SetStatus)
				})

				r.Route("/payouts", func(r chi.Router) {
					r.Get("/", payoutHandler.AdminList)
					r.Post("/{payoutId}/approve", payoutHandler.Approve)
					r.Post("/{payoutId}/reject", payoutHandler.Reject)
					r.Post("/{payoutId}/pay", payoutHandler.Pay)
				})
				r.Get("/stripe/balance", payoutHandler.Balance)

				r.Route("/appeals", func(r chi.Router) {
					r.Get("/", appealHandler.AdminList)
					r.Post("/{appealId}/decide", appealHandler.Decide)
				})

				r.Route("/tickets", func(r chi.Router) {
					r.Get("/", ticketHandler.AdminList)
					r.Post("/{ticketId}/reply", ticketHandler.AdminReply)
					r.Post("/{ticketId}/close", ticketHandler.Close)
				})

				r.Route("/announcements", func(r chi.Router) {
					r.Get("/", announcementHandler.AdminList)
					r.Post("/", announcementHandler.Create)
					r.Put("/{announcementId}", announcementHandler.Update)
					r.Delete("/{announcementId}", announcementHandler.Delete)
				})
				r.Put("/announcement-bar", announcementHandler.SetBar)
				r.Put("/maintenance", settingsHandler.SetMaintenance)

				r.Route("/invitations", func(r chi.Router) {
					r.Get("/", invitationHandler.AdminList)
					r.Post("/", invitationHandler.Create)
				})

				r.Post("/royalties", royaltyHandler.Create)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", adminUserHandler.List)
					r.Put("/{userId}/ban", adminUserHandler.SetBanned)
					r.Put("/{userId}/suspend", adminUserHandler.SetSuspended)
					r.Put("/{userId}/lock", adminUserHandler.SetLocked)
					r.Post("/{userId}/disable-mfa", adminUserHandler.DisableMFA)
					r.Post("/{userId}/email", adminUserHandler.SendEmail)
					r.Post("/{userId}/allowance", allowanceHandler.Grant)
					r.Delete("/{userId}", adminUserHandler.DeleteUser)
				})
			})
		})
	})

	log.Printf("TuneDrop API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
