package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"standards-backend/internal/config"
	"standards-backend/internal/db"
	api "standards-backend/internal/http"
	"standards-backend/internal/notify"
	"standards-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	conn, err := config.Connect(env)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer conn.Close()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureSchema(bootCtx, conn); err != nil {
		bootCancel()
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	bootCancel()

	notifier := &notify.Dispatcher{
		From:       env.MailFrom,
		OpsMailbox: env.OpsMailbox,
	}
	if env.SMTPHost != "" {
		notifier.Sender = notify.NewSMTPSender(env.SMTPHost, env.SMTPPort, env.SMTPUser, env.SMTPPass)
	}

	var store storage.Uploader
	if env.S3Bucket != "" {
		s3store, err := storage.NewS3Uploader(context.Background(), env)
		if err != nil {
			log.Fatalf("s3 setup failed: %v", err)
		}
		store = s3store
	}

	r := api.NewRouter(env, api.Deps{DB: conn, Notifier: notifier, Store: store})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	notifier.Wait()

	log.Println("server stopped cleanly.")
}
