// File: crewly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewly/config"
	"crewly/cron"
	"crewly/database"
	availabilityRepoPkg "crewly/database/repository/availability"
	bookingRepoPkg "crewly/database/repository/booking"
	jobcardRepoPkg "crewly/database/repository/jobcard"
	timeslotRepoPkg "crewly/database/repository/timeslot"
	"crewly/handlers"
	"crewly/middleware"
	"crewly/routes"
	"crewly/services/assignment"
	"crewly/services/availability"
	"crewly/services/booking"
	"crewly/services/jobcard"
	"crewly/services/notification"
	"crewly/services/payment"
	"crewly/services/slots"
	"crewly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	ctx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := timeslotRepoPkg.EnsureTimeSlotIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure time slot indexes: %v", err)
	}
	if err := bookingRepoPkg.EnsureBookingIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := jobcardRepoPkg.EnsureJobCardIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure job card indexes: %v", err)
	}
	cancelIndexes()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slotRepo := timeslotRepoPkg.NewMongoTimeSlotRepo()
	bkRepo := bookingRepoPkg.NewMongoBookingRepo()
	availRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	cardRepo := jobcardRepoPkg.NewMongoJobCardRepo()

	// services.
	availabilityService := availability.NewService(availRepo)

	slotService := &slots.DefaultService{
		Repo: slotRepo,
	}

	engine := &assignment.DefaultEngine{
		Bookings: bkRepo,
		Resolver: availabilityService,
		Locker:   utils.NewRedisLock(utils.GetLockClient()),
	}

	publisher := notification.NewAsynqPublisher()
	defer publisher.Close()

	lifecycle := &booking.DefaultLifecycle{
		Bookings: bkRepo,
		Slots:    slotRepo,
		Engine:   engine,
		Payments: &payment.StripeGateway{},
		Events:   publisher,
	}
	workflow := &jobcard.DefaultWorkflow{
		Cards:     cardRepo,
		Bookings:  bkRepo,
		Engine:    engine,
		Completer: lifecycle,
	}
	// Lifecycle and workflow reference each other through narrow
	// interfaces; close the loop after both exist.
	lifecycle.JobCards = workflow

	slotHandler := handlers.NewSlotHandler(slotService)
	bookingHandler := handlers.NewBookingHandler(lifecycle)
	jobCardHandler := handlers.NewJobCardHandler(workflow)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Slot endpoints.
		GenerateSlotsHandler:      slotHandler.GenerateSlotsHandler,
		GetSlotHandler:            slotHandler.GetSlotHandler,
		ListSlotsHandler:          slotHandler.ListSlotsHandler,
		ListAvailableSlotsHandler: slotHandler.ListAvailableSlotsHandler,
		BlockSlotHandler:          slotHandler.BlockSlotHandler,
		UnblockSlotHandler:        slotHandler.UnblockSlotHandler,
		UpdateSlotCapacityHandler: slotHandler.UpdateSlotCapacityHandler,
		DeleteSlotHandler:         slotHandler.DeleteSlotHandler,

		// Booking endpoints.
		CreateBookingHandler:     bookingHandler.CreateBookingHandler,
		GetBookingHandler:        bookingHandler.GetBookingHandler,
		ListBookingsHandler:      bookingHandler.ListBookingsHandler,
		ListStaffBookingsHandler: bookingHandler.ListStaffBookingsHandler,
		ConfirmBookingHandler:    bookingHandler.ConfirmBookingHandler,
		CancelBookingHandler:     bookingHandler.CancelBookingHandler,

		// Job card endpoints.
		CreateJobCardHandler:       jobCardHandler.CreateJobCardHandler,
		GetJobCardHandler:          jobCardHandler.GetJobCardHandler,
		GetJobCardByBookingHandler: jobCardHandler.GetJobCardByBookingHandler,
		AssignJobStaffHandler:      jobCardHandler.AssignJobStaffHandler,
		StartJobHandler:            jobCardHandler.StartJobHandler,
		AddStepHandler:             jobCardHandler.AddStepHandler,
		RemoveStepHandler:          jobCardHandler.RemoveStepHandler,
		CompleteStepHandler:        jobCardHandler.CompleteStepHandler,
		CompleteJobHandler:         jobCardHandler.CompleteJobHandler,
		CancelJobHandler:           jobCardHandler.CancelJobHandler,

		// Availability endpoints.
		CreateRuleHandler:     availabilityHandler.CreateRuleHandler,
		DeactivateRuleHandler: availabilityHandler.DeactivateRuleHandler,
		CreateAbsenceHandler:  availabilityHandler.CreateAbsenceHandler,
		DeleteAbsenceHandler:  availabilityHandler.DeleteAbsenceHandler,
		StaffScheduleHandler:  availabilityHandler.StaffScheduleHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Periodic Mongo/Redis health checks behind /health.
	utils.StartHealthMonitor(
		map[string]*redis.Client{
			"cache": utils.GetCacheClient(),
			"lock":  utils.GetLockClient(),
		},
		database.MongoClient,
	)

	// Start the async booking event worker.
	cron.InitEventWorker()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
