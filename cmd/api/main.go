package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/omise/omise-go"

	"github.com/you/badminton-network/internal/consumer"
	"github.com/you/badminton-network/internal/handlers"
	"github.com/you/badminton-network/internal/middlewares"
	"github.com/you/badminton-network/internal/realtime"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/internal/service"
	"github.com/you/badminton-network/pkg/config"
	"github.com/you/badminton-network/pkg/db"
	"github.com/you/badminton-network/pkg/mq"
	"github.com/you/badminton-network/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()

	cfg := must(config.Load())

	shutdown := obs.InitTracer("badminton-api")
	defer func() { _ = shutdown(context.Background()) }()

	// DB
	gdb := db.Open(cfg.PGDSN)
	userRepo := repository.NewUserRepo(gdb)
	courtRepo := repository.NewCourtRepo(gdb)
	bookingRepo := repository.NewBookingRepo(gdb)
	postRepo := repository.NewPostRepo(gdb)
	tournamentRepo := repository.NewTournamentRepo(gdb)
	must(0, userRepo.Migrate())
	must(0, courtRepo.Migrate())
	must(0, bookingRepo.Migrate())
	must(0, postRepo.Migrate())
	must(0, tournamentRepo.Migrate())

	// events out
	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.EventsExchange))
	defer pub.Close()

	// services
	authSvc := service.NewAuthSvc(userRepo,
		time.Duration(cfg.JWTExpireMin)*time.Minute,
		time.Duration(cfg.RefreshExpireHr)*time.Hour)
	userSvc := service.NewUserSvc(userRepo)
	courtSvc := service.NewCourtSvc(courtRepo, pub)
	bookingSvc := service.NewBookingSvc(bookingRepo, courtRepo, pub)
	communitySvc := service.NewCommunitySvc(postRepo, userRepo, pub)
	tournamentSvc := service.NewTournamentSvc(tournamentRepo, userRepo, pub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// realtime hub: every change event published anywhere fans out to the
	// SSE pages connected to this instance
	hub := realtime.NewHub()
	streamCons := must(mq.NewConsumer(cfg.RabbitURL, cfg.EventsExchange, "api.stream.q",
		[]string{"court.*", "tournament.*", "post.*", "reply.*", "booking.*"}))
	defer streamCons.Close()
	must(0, hub.Run(ctx, streamCons))

	// payment.paid -> booking marked PAID
	payCons := must(mq.NewConsumer(cfg.RabbitURL, cfg.EventsExchange, "api.payment.q",
		[]string{"payment.paid"}))
	defer payCons.Close()
	pc := consumer.NewPaymentConsumer(bookingRepo, payCons, pub)
	must(0, pc.Run(ctx))

	r := gin.Default()

	a := handlers.NewAuthHandler(authSvc)
	uh := handlers.NewUserHandler(userSvc)
	ch := handlers.NewCourtHandler(courtSvc, bookingSvc)
	bh := handlers.NewBookingHandler(bookingSvc, userSvc)
	ph := handlers.NewCommunityHandler(communitySvc, userSvc)
	th := handlers.NewTournamentHandler(tournamentSvc)
	sh := handlers.NewStreamHandler(hub)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", a.Register)
		v1.POST("/auth/login", a.Login)

		me := v1.Group("/users/me")
		me.Use(middlewares.JWTAuth())
		me.GET("", uh.GetMe)
		me.PUT("", uh.UpdateMe)
		v1.GET("/users", uh.List)
		v1.GET("/users/:id", uh.GetByID)

		v1.GET("/courts", ch.List)
		v1.GET("/courts/:id", ch.Get)
		v1.GET("/courts/:id/availability", ch.Availability)
		v1.GET("/courts/:id/bookings", bh.ListByCourt)
		v1.POST("/courts", middlewares.JWTAuth(), ch.Create)
		v1.PUT("/courts/:id", middlewares.JWTAuth(), ch.Update)
		v1.DELETE("/courts/:id", middlewares.JWTAuth(), ch.Delete)
		v1.POST("/courts/:id/bookings", middlewares.JWTAuth(), bh.Create)

		secured := v1.Group("")
		secured.Use(middlewares.JWTAuth())
		secured.GET("/bookings", bh.ListMine)
		secured.GET("/bookings/:id", bh.Get)

		v1.GET("/posts", ph.ListPosts)
		v1.GET("/posts/:id", ph.GetPost)
		v1.GET("/posts/:id/stream", sh.PostReplies)
		v1.POST("/posts", middlewares.JWTAuth(), ph.CreatePost)
		v1.POST("/posts/:id/replies", middlewares.JWTAuth(), ph.CreateReply)

		v1.GET("/tournaments", th.List)
		v1.GET("/tournaments/:id", th.Get)
		v1.POST("/tournaments", middlewares.JWTAuth(), th.Create)
		v1.PUT("/tournaments/:id", middlewares.JWTAuth(), th.Update)
		v1.DELETE("/tournaments/:id", middlewares.JWTAuth(), th.Delete)
		v1.POST("/tournaments/:id/register", middlewares.JWTAuth(), th.Register)

		v1.GET("/stream", sh.Directory)

		if cfg.OmiseSecretKey != "" {
			omc := must(omise.NewClient(cfg.OmisePublicKey, cfg.OmiseSecretKey))
			paymentSvc := service.NewPaymentSvc(omc, pub, bookingRepo)
			pay := handlers.NewPaymentHandler(paymentSvc, omc, pub)
			charges := v1.Group("/payments")
			charges.Use(middlewares.JWTAuth())
			charges.POST("/charges", pay.CreateCharge)
			charges.POST("/sources/promptpay", pay.CreatePromptPaySource)
			charges.GET("/charges/:id", pay.GetCharge)
			v1.POST("/payments/webhook", pay.Webhook)
		} else {
			log.Println("[api] omise keys not set, payment routes disabled")
		}
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Println("[api] listening on", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	shutCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = srv.Shutdown(shutCtx)
	log.Println("[api] stopped")
}
