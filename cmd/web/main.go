package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/httpx"
	"storefront/internal/httpx/views"
	kafkax "storefront/internal/kafka"
	"storefront/internal/orders"
	"storefront/internal/postgres"
	"storefront/internal/rates"
	"storefront/internal/redisx"
	"storefront/internal/stores"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	placed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	placed.Start(ctx)
	updated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderUpdated, 1024)
	updated.Start(ctx)

	pages, err := views.New()
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}

	cartRepo := &cart.Repo{DB: db}
	catalogRepo := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	storeRepo := &stores.Repo{DB: db}
	customers := &auth.Customers{DB: db}
	sessions := &auth.Sessions{Redis: rdb, Customers: customers, TTL: cfg.SessionTTL}

	rateSource := &rates.Cached{Next: rates.NewClient(cfg.RatesBaseURL), Redis: rdb}

	site := &httpx.Site{
		Log:      log,
		Views:    pages,
		Flash:    &httpx.RedisFlash{Redis: rdb},
		Sessions: sessions,
		Auth:     customers,
		Carts:    cartRepo,
		Catalog:  catalogRepo,
		Stores:   storeRepo,
		Orders:   orderRepo,
		Checkout: &checkout.Service{
			Carts:    cartRepo,
			Orders:   orderRepo,
			Stores:   storeRepo,
			Rates:    rateSource,
			Producer: placed,
			Log:      log,
			Service:  cfg.ServiceName,
		},
		OrderAdmin: &orders.Admin{
			Repo:     orderRepo,
			Producer: updated,
			Log:      log,
			Service:  cfg.ServiceName,
		},
		StoreAdmin: &stores.Admin{Repo: storeRepo, Log: log},
	}

	router := httpx.NewRouter()
	site.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	placed.Close()
	updated.Close()
	cancel()
	placed.WaitClosed()
	updated.WaitClosed()
}
