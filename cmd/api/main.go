package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helpinghand-api/internal/application/token"
	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/helpinghand-api/internal/infrastructure/jwt"
	"github.com/helpinghand-api/internal/infrastructure/smtp"
	"github.com/helpinghand-api/internal/infrastructure/sns"
	"github.com/helpinghand-api/internal/pkg/cipher"
	transporthttp "github.com/helpinghand-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	signer, err := jwtinfra.NewProvider(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}
	tokenCipher, err := cipher.New(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token cipher: %v", err)
	}

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	issuer := token.NewIssuer(token.IssuerDeps{
		Signer:   signer,
		Cipher:   tokenCipher,
		UserRepo: userRepo,
		TTL:      cfg.JWTExpiration,
		TestMode: cfg.AppEnv == "test",
	})

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:  userRepo,
		OTPRepo:   dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs),
		Mailer:    mailer,
		SMSSender: smsSender,
		Issuer:    issuer,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
