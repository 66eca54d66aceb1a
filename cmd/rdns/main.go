package main

import (
	"context"
	"fmt"
	"os"
	"time"

	v1 "go_rdns/api/v1"
	reverseapi "go_rdns/api/v1/reverse"
	"go_rdns/internal/auth"
	"go_rdns/internal/cache"
	"go_rdns/internal/config"
	"go_rdns/internal/db"
	"go_rdns/internal/dns"
	"go_rdns/internal/logging"
	"go_rdns/internal/records"
	"go_rdns/internal/reverse"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.StringP("config", "c", "", "INI config file (environment variables are used when empty)")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password for BASIC_PASS_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// 1. Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}
	mainLog := logging.Component(log, "main")
	mainLog.Info("configuration loaded")

	if cfg.Auth.PasswordHash != "" && !auth.IsHash(cfg.Auth.PasswordHash) {
		mainLog.Fatal("BASIC_PASS_HASH is not a bcrypt hash")
	}

	// 2. Initialize MySQL
	gormDB, err := db.OpenMySQL(context.Background(), cfg.MySQL.DSN, logging.GormLogger(log))
	if err != nil {
		mainLog.WithError(err).Fatal("failed to initialize MySQL")
	}
	defer db.Close(gormDB)
	mainLog.Info("MySQL connected")

	// 3. Reverse resolver, optionally behind the Redis cache
	resolver, err := newResolver(cfg, log)
	if err != nil {
		mainLog.WithError(err).Fatal("failed to initialize resolver")
	}

	svc := reverse.NewService(&reverse.Config{
		Store:     records.NewStore(gormDB),
		Resolver:  dns.NewPTRResolver(resolver, cfg.DNS.Concurrency, logging.Component(log, "ptr-resolver")),
		Logger:    logging.Component(log, "reverse"),
		TTL:       cfg.TTL,
		MinPrefix: cfg.CIDRMinPrefix,
	})

	// 4. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	handler := reverseapi.NewHandler(svc, logging.Component(log, "api"))
	authenticator := auth.NewBasicAuthenticator(cfg.Auth.User, cfg.Auth.Password, cfg.Auth.PasswordHash)
	v1.SetupRouter(r, handler, authenticator, logging.Component(log, "http"))

	mainLog.WithFields(logrus.Fields{
		"addr":     config.HTTPAddr,
		"resolver": cfg.DNS.Resolver,
	}).Info("server starting")

	if err := r.Run(config.HTTPAddr); err != nil {
		mainLog.WithError(err).Fatal("failed to start server")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromINI(path)
	}
	return config.Load()
}

func newResolver(cfg *config.Config, log *logrus.Logger) (dns.Resolver, error) {
	timeout := time.Duration(cfg.DNS.TimeoutSec) * time.Second

	var resolver dns.Resolver
	switch cfg.DNS.Resolver {
	case "miekg":
		r, err := dns.NewExchangeResolver(cfg.DNS.Server, timeout)
		if err != nil {
			return nil, err
		}
		resolver = r
	default:
		r, err := dns.NewNetResolver(cfg.DNS.Server, timeout)
		if err != nil {
			return nil, err
		}
		resolver = r
	}

	if cfg.Redis.Addr == "" {
		return resolver, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	ptrCache := cache.NewPTRCache(client, logging.Component(log, "ptr-cache"))
	ttl := time.Duration(cfg.Redis.CacheTTLSec) * time.Second
	return dns.NewCachedResolver(resolver, ptrCache, ttl), nil
}
