package cmd

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/gateway"
	"github.com/vibast-solutions/ms-go-donations/app/mailer"
	"github.com/vibast-solutions/ms-go-donations/app/receipt"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/config"
)

// application holds every wired service of one process.
type application struct {
	cfg   *config.Config
	db    *sql.DB
	redis *redis.Client

	donations *service.DonationService
	receipts  *service.ReceiptService
	content   *service.ContentService
	contacts  *service.ContactService
	auth      *service.AuthService

	categories          *service.CRUDService[entity.DonationCategory]
	events              *service.CRUDService[entity.Event]
	donationCards       *service.CRUDService[entity.DonationCard]
	eventDonationCards  *service.CRUDService[entity.EventDonationCard]
	bankDetails         *service.CRUDService[entity.BankDetails]
	categoryBankDetails *service.CRUDService[entity.CategoryBankDetails]
	eventBankDetails    *service.CRUDService[entity.EventBankDetails]
	banners             *service.CRUDService[entity.Banner]
	gallery             *service.CRUDService[entity.GalleryImage]
	videos              *service.CRUDService[entity.Video]
	quotes              *service.CRUDService[entity.Quote]
	testimonials        *service.CRUDService[entity.Testimonial]
	blogPosts           *service.CRUDService[entity.BlogPost]
	users               *service.CRUDService[entity.User]
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := factory.ConfigureLogging(cfg.Log.Level); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

func mustOpenDB(cfg *config.Config) *sql.DB {
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}
	return db
}

func mustOpenRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		logrus.WithError(err).Fatal("Failed to ping redis")
	}
	return client
}

func mustCreateApplication() (*application, func()) {
	cfg := mustLoadConfig()
	db := mustOpenDB(cfg)
	redisClient := mustOpenRedis(cfg)

	donationRepo := repository.NewDonationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	eventRepo := repository.NewEventRepository(db)
	cardRepo := repository.NewDonationCardRepository(db)
	eventCardRepo := repository.NewEventDonationCardRepository(db)
	categoryBankRepo := repository.NewCategoryBankDetailsRepository(db)
	eventBankRepo := repository.NewEventBankDetailsRepository(db)
	blogRepo := repository.NewBlogPostRepository(db)
	userRepo := repository.NewUserRepository(db)

	renderer, err := receipt.NewRenderer()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize receipt renderer")
	}

	catalog := service.DonationCatalog{
		Categories: categoryRepo,
		Events:     eventRepo,
		Cards:      cardRepo,
		EventCards: eventCardRepo,
	}

	payu := gateway.NewPayUProvider(gateway.PayUConfig{
		MerchantKey: cfg.Gateway.MerchantKey,
		Salt:        cfg.Gateway.Salt,
		PaymentURL:  cfg.Gateway.PaymentURL,
		VerifyURL:   cfg.Gateway.VerifyURL,
		HTTPTimeout: cfg.Gateway.HTTPTimeout,
	})

	receipts := service.NewReceiptService(donationRepo, catalog, renderer, mailer.NewSMTPMailer(cfg.Mail), cfg)
	donations := service.NewDonationService(
		donationRepo,
		repository.NewDonationEventRepository(db),
		repository.NewDonationCallbackRepository(db),
		repository.NewCheckoutRepository(redisClient, cfg.Redis.CheckoutTTL),
		userRepo,
		catalog,
		gateway.NewRegistry(payu),
		receipts,
		cfg,
	)

	app := &application{
		cfg:       cfg,
		db:        db,
		redis:     redisClient,
		donations: donations,
		receipts:  receipts,
		content: service.NewContentService(
			categoryRepo,
			eventRepo,
			cardRepo,
			eventCardRepo,
			categoryBankRepo,
			eventBankRepo,
			blogRepo,
		),
		contacts: service.NewContactService(repository.NewContactMessageRepository(db)),
		auth:     service.NewAuthService(userRepo, cfg.Auth),

		categories:          service.NewCategoryService(categoryRepo),
		events:              service.NewEventService(eventRepo),
		donationCards:       service.NewDonationCardService(cardRepo),
		eventDonationCards:  service.NewEventDonationCardService(eventCardRepo),
		bankDetails:         service.NewBankDetailsService(repository.NewBankDetailsRepository(db)),
		categoryBankDetails: service.NewCategoryBankDetailsService(categoryBankRepo),
		eventBankDetails:    service.NewEventBankDetailsService(eventBankRepo),
		banners:             service.NewBannerService(repository.NewBannerRepository(db)),
		gallery:             service.NewGalleryService(repository.NewGalleryRepository(db)),
		videos:              service.NewVideoService(repository.NewVideoRepository(db)),
		quotes:              service.NewQuoteService(repository.NewQuoteRepository(db)),
		testimonials:        service.NewTestimonialService(repository.NewTestimonialRepository(db)),
		blogPosts:           service.NewBlogPostService(blogRepo),
		users:               service.NewUserService(userRepo),
	}

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close redis client")
		}
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return app, cleanup
}
