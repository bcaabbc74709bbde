package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/georgemunganga/wegmans2/internal/cli"
	"github.com/georgemunganga/wegmans2/internal/config"
	"github.com/georgemunganga/wegmans2/internal/database"
	"github.com/georgemunganga/wegmans2/internal/messaging"
	"github.com/georgemunganga/wegmans2/internal/modules/auth"
	"github.com/georgemunganga/wegmans2/internal/modules/cart"
	"github.com/georgemunganga/wegmans2/internal/modules/customer"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/reorder"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/georgemunganga/wegmans2/internal/session"
)

func main() {
	log.SetPrefix("[wegmans2] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{In: os.Stdin, Out: os.Stdout, Open: open}
	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// openPublisher connects to every configured broker. Events are best effort,
// so a broker that cannot be reached is logged and skipped.
func openPublisher(cfg *config.Config) messaging.Publisher {
	var brokers messaging.Fanout
	if cfg.AMQPURL != "" {
		p, err := messaging.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("RabbitMQ event publishing disabled: %v", err)
		} else {
			brokers = append(brokers, p)
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Printf("Kafka event publishing disabled: %v", err)
		} else {
			brokers = append(brokers, p)
		}
	}
	switch len(brokers) {
	case 0:
		return messaging.Nop{}
	case 1:
		return brokers[0]
	}
	return brokers
}

// open connects to PostgreSQL and the event broker and builds the services.
func open(ctx context.Context, cfg *config.Config) (session.Deps, error) {
	db, err := database.Open(ctx, database.Options{
		Driver:         cfg.DatabaseDriver,
		DSN:            cfg.DatabaseURL,
		MaxOpenConns:   cfg.MaxOpenConns,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		return session.Deps{}, err
	}

	publisher := openPublisher(cfg)

	// ── Catalog ──────────────────────────────────────────────
	storeService := store.NewService(store.NewPostgresRepository(db))
	productService := product.NewService(product.NewPostgresRepository(db))
	vendorService := vendor.NewService(vendor.NewPostgresRepository(db))

	// ── Customers & Sales ────────────────────────────────────
	customerService := customer.NewService(customer.NewPostgresRepository(db))
	salesService := sales.NewService(sales.NewPostgresRepository(db))
	checkoutRepo := cart.NewPostgresRepository(db)

	// ── Administration ───────────────────────────────────────
	reorderService := reorder.NewService(
		reorder.NewPostgresRepository(db),
		storeService, productService, vendorService,
		reorder.Options{Attempts: cfg.ReorderAttempts, Publisher: publisher},
	)
	authService := auth.NewService(cfg.Admins, cfg.AdminJWTSecret)

	return session.Deps{
		DB:        db,
		Publisher: publisher,
		Stores:    storeService,
		Products:  productService,
		Customers: customerService,
		Vendors:   vendorService,
		Sales:     salesService,
		Reorders:  reorderService,
		Auth:      authService,
		Checkout:  checkoutRepo,
	}, nil
}
