package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"latecomer/internal/attendance"
	"latecomer/internal/config"
	"latecomer/internal/notify"
	"latecomer/internal/queue"
	"latecomer/internal/store"
	"latecomer/internal/student"
)

// The notifier runs the daily late-report schedule and delivers the
// queued emails. Scheduling and delivery live in one process so the
// in-memory queue backend works for single-node deployments.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL, store.Pool{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr, cfg.RedisTimeout)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "latecomer:reports")
	}

	studentRepo := student.NewRepository(db.Client)
	countsCache := attendance.NewRedisCountsCache(redisClient.Client, time.Minute)
	scans := attendance.NewService(attendance.NewRepository(db.Client), studentRepo, countsCache)

	notifier := notify.New(scans, q, cfg.DeptEmails, cfg.OversightEmail)

	var mailer notify.Mailer
	if cfg.SMTPAddr != "" {
		mailer = &notify.SMTPMailer{
			Addr: cfg.SMTPAddr,
			Host: cfg.SMTPHost,
			From: cfg.MailFrom,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPassword,
		}
		log.Printf("SMTP delivery via %s", cfg.SMTPAddr)
	} else {
		mailer = notify.LogMailer{}
		log.Println("SMTP_ADDR not set, emails are logged only")
	}

	go func() {
		if err := notify.ConsumeAndSend(ctx, q, mailer); err != nil && ctx.Err() == nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	c := cron.New(cron.WithLocation(attendance.IST))
	if _, err := c.AddFunc(cfg.NotifyCron, func() {
		if err := notifier.RunDaily(ctx); err != nil {
			log.Printf("daily report run failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("invalid NOTIFY_CRON %q: %v", cfg.NotifyCron, err)
	}
	c.Start()
	log.Printf("notifier started, schedule %q (Asia/Kolkata)", cfg.NotifyCron)

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	log.Println("notifier exited")
}
