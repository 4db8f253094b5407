// Package main Rentoora rental marketplace API.
//
// @title           Rentoora Rental API
// @version         1.0
// @description     Rental marketplace backend (posts, orders, payments, support).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"github.com/visionmax01/rentoora-backend-rental/app/echoServer"
	adminctrl "github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/admin"
	authctrl "github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/auth"
	feedbackctrl "github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/feedback"
	orderctrl "github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/order"
	paymentctrl "github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/payment"
	postctrl "github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/post"
	ticketctrl "github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/ticket"
	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/validation"
	"github.com/visionmax01/rentoora-backend-rental/config"
	feedbackrepo "github.com/visionmax01/rentoora-backend-rental/repository/feedback"
	khaltirepo "github.com/visionmax01/rentoora-backend-rental/repository/khalti"
	orderrepo "github.com/visionmax01/rentoora-backend-rental/repository/order"
	outboxrepo "github.com/visionmax01/rentoora-backend-rental/repository/outbox"
	paymentrepo "github.com/visionmax01/rentoora-backend-rental/repository/payment"
	postrepo "github.com/visionmax01/rentoora-backend-rental/repository/post"
	storagerepo "github.com/visionmax01/rentoora-backend-rental/repository/storage"
	ticketrepo "github.com/visionmax01/rentoora-backend-rental/repository/ticket"
	userrepo "github.com/visionmax01/rentoora-backend-rental/repository/user"
	adminsvc "github.com/visionmax01/rentoora-backend-rental/service/admin"
	authsvc "github.com/visionmax01/rentoora-backend-rental/service/auth"
	feedbacksvc "github.com/visionmax01/rentoora-backend-rental/service/feedback"
	"github.com/visionmax01/rentoora-backend-rental/service/notify"
	ordersvc "github.com/visionmax01/rentoora-backend-rental/service/order"
	paymentsvc "github.com/visionmax01/rentoora-backend-rental/service/payment"
	postsvc "github.com/visionmax01/rentoora-backend-rental/service/post"
	ticketsvc "github.com/visionmax01/rentoora-backend-rental/service/ticket"
	"github.com/visionmax01/rentoora-backend-rental/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	ur := userrepo.New(db)
	pr := postrepo.New(db)
	or := orderrepo.New(db)
	payr := paymentrepo.New(db)
	tr := ticketrepo.New(db)
	fr := feedbackrepo.New(db)
	obr := outboxrepo.New(db)
	kr := khaltirepo.NewHTTP(cfg.KhaltiSecretKey)

	store, err := storagerepo.NewS3(ctx, storagerepo.Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Error("s3 init failed", "err", err)
		os.Exit(1)
	}

	// mail outbox
	sender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	outbox := notify.NewOutbox(db, obr, sender, log)

	// services
	as := authsvc.New(ur, store, outbox, cfg.JWTSecret)
	ps := postsvc.New(pr, store)
	osvc := ordersvc.New(db, or, pr, ur, outbox)
	pays := paymentsvc.New(db, kr, payr, or, pr)
	ts := ticketsvc.New(tr)
	fs := feedbacksvc.New(fr, log)
	adms := adminsvc.New(ur, pr, store)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, Storage: store, V: v, Log: log}
	postC := &postctrl.Controller{Svc: ps, Storage: store, V: v, Log: log}
	orderC := &orderctrl.Controller{Svc: osvc, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: pays, V: v, Log: log}
	ticketC := &ticketctrl.Controller{Svc: ts, V: v, Log: log}
	feedbackC := &feedbackctrl.Controller{Svc: fs, V: v, Log: log}
	adminC := &adminctrl.Controller{Svc: adms, V: v, Log: log}

	// background jobs: outbox dispatch every minute, feedback purge nightly
	sched := cron.New()
	if _, err := sched.AddFunc("@every 1m", func() {
		if n, err := outbox.DispatchPending(context.Background()); err != nil {
			log.Error("outbox dispatch", "err", err)
		} else if n > 0 {
			log.Info("outbox dispatched", "count", n)
		}
	}); err != nil {
		log.Error("cron outbox", "err", err)
		os.Exit(1)
	}
	if _, err := sched.AddFunc("0 0 * * *", func() {
		if _, err := fs.PurgeExpired(context.Background()); err != nil {
			log.Error("feedback purge", "err", err)
		}
	}); err != nil {
		log.Error("cron feedback", "err", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e, cfg.AllowedOrigins)
	e.Validator = validation.New()

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Post:     postC,
		Order:    orderC,
		Payment:  paymentC,
		Ticket:   ticketC,
		Feedback: feedbackC,
		Admin:    adminC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + port))
}
