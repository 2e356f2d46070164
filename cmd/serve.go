package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-donations/app/controller"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	donationgrpc "github.com/vibast-solutions/ms-go-donations/app/grpc"
	"github.com/vibast-solutions/ms-go-donations/app/middleware"
	"github.com/vibast-solutions/ms-go-donations/app/storage"
	"github.com/vibast-solutions/ms-go-donations/app/types"
	"github.com/vibast-solutions/ms-go-donations/config"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start the HTTP (Echo) API and the gRPC health server for the donations service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	app, cleanup := mustCreateApplication()
	defer cleanup()
	cfg := app.cfg

	images, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		logrus.WithError(err).Warn("Upload storage unavailable, uploads are disabled")
		images, _ = storage.New(context.Background(), config.StorageConfig{MaxUploadBytes: cfg.Storage.MaxUploadBytes})
	}

	e := setupHTTPServer(app, images)
	grpcSrv, lis := setupGRPCServer(app)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(app *application, images *storage.ImageStore) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	donationController := controller.NewDonationController(app.donations, app.receipts, app.cfg.App.FrontendBaseURL)
	publicController := controller.NewPublicController(app.content, app.contacts)
	adminController := controller.NewAdminController(app.donations, app.contacts, images)
	authController := controller.NewAuthController(app.auth)

	categories := controller.NewCRUDController(app.categories, payloadOf[entity.DonationCategory, types.CategoryPayload])
	events := controller.NewCRUDController(app.events, payloadOf[entity.Event, types.EventPayload])
	donationCards := controller.NewCRUDController(app.donationCards, payloadOf[entity.DonationCard, types.DonationCardPayload])
	eventDonationCards := controller.NewCRUDController(app.eventDonationCards, payloadOf[entity.EventDonationCard, types.EventDonationCardPayload])
	bankDetails := controller.NewCRUDController(app.bankDetails, payloadOf[entity.BankDetails, types.BankDetailsPayload])
	categoryBankDetails := controller.NewCRUDController(app.categoryBankDetails, payloadOf[entity.CategoryBankDetails, types.CategoryBankDetailsPayload])
	eventBankDetails := controller.NewCRUDController(app.eventBankDetails, payloadOf[entity.EventBankDetails, types.EventBankDetailsPayload])
	banners := controller.NewCRUDController(app.banners, payloadOf[entity.Banner, types.BannerPayload])
	gallery := controller.NewCRUDController(app.gallery, payloadOf[entity.GalleryImage, types.GalleryImagePayload])
	videos := controller.NewCRUDController(app.videos, payloadOf[entity.Video, types.VideoPayload])
	quotes := controller.NewCRUDController(app.quotes, payloadOf[entity.Quote, types.QuotePayload])
	testimonials := controller.NewCRUDController(app.testimonials, payloadOf[entity.Testimonial, types.TestimonialPayload])
	blogPosts := controller.NewCRUDController(app.blogPosts, payloadOf[entity.BlogPost, types.BlogPostPayload])
	users := controller.NewCRUDController(app.users, payloadOf[entity.User, types.UserPayload])

	e.GET("/health", donationController.Health)

	e.POST("/donations", donationController.InitiateDonation)
	e.GET("/donation/:txnid", donationController.GetDonation)
	e.GET("/donation/:txnid/checkout", donationController.GetCheckout)
	e.GET("/donation/:txnid/receipt", donationController.GetReceipt)
	e.POST("/payments/:provider/:outcome", donationController.GatewayReturn)
	e.POST("/webhooks/providers/:provider", donationController.ProviderWebhook)

	e.GET("/categories", categories.ListActive)
	e.GET("/categories/:id", publicController.GetCategory)
	e.GET("/events", events.ListActive)
	e.GET("/events/:id", publicController.GetEvent)
	e.GET("/bank-details", bankDetails.ListActive)
	e.GET("/banners", banners.ListActive)
	e.GET("/gallery", gallery.ListActive)
	e.GET("/videos", videos.ListActive)
	e.GET("/quotes", quotes.ListActive)
	e.GET("/testimonials", testimonials.ListActive)
	e.GET("/blog", blogPosts.ListActive)
	e.GET("/blog/:slug", publicController.GetBlogPost)
	e.POST("/contact", publicController.SubmitContact)

	e.POST("/auth/login", authController.Login)

	admin := e.Group("/admin", middleware.NewAdminAuthMiddleware(app.auth).RequireAdmin())
	registerCRUD(admin, "/categories", categories)
	registerCRUD(admin, "/events", events)
	registerCRUD(admin, "/donation-cards", donationCards)
	registerCRUD(admin, "/event-donation-cards", eventDonationCards)
	registerCRUD(admin, "/bank-details", bankDetails)
	registerCRUD(admin, "/category-bank-details", categoryBankDetails)
	registerCRUD(admin, "/event-bank-details", eventBankDetails)
	registerCRUD(admin, "/banners", banners)
	registerCRUD(admin, "/gallery", gallery)
	registerCRUD(admin, "/videos", videos)
	registerCRUD(admin, "/quotes", quotes)
	registerCRUD(admin, "/testimonials", testimonials)
	registerCRUD(admin, "/blog-posts", blogPosts)
	registerCRUD(admin, "/users", users)

	admin.GET("/donations", adminController.ListDonations)
	admin.GET("/donations/:id", adminController.GetDonation)
	admin.DELETE("/donations/:id", adminController.DeleteDonation)
	admin.GET("/messages", adminController.ListMessages)
	admin.PUT("/messages/:id/read", adminController.MarkMessageRead)
	admin.DELETE("/messages/:id", adminController.DeleteMessage)
	admin.POST("/uploads", adminController.Upload)

	return e
}

func registerCRUD[T any](group *echo.Group, path string, ctrl *controller.CRUDController[T]) {
	group.GET(path, ctrl.List)
	group.POST(path, ctrl.Create)
	group.GET(path+"/:id", ctrl.Get)
	group.PUT(path+"/:id", ctrl.Update)
	group.DELETE(path+"/:id", ctrl.Delete)
}

// payloadOf allocates the write schema P of entity T.
func payloadOf[T any, P any, PT interface {
	*P
	types.EntityPayload[T]
}]() types.EntityPayload[T] {
	return PT(new(P))
}

func setupGRPCServer(app *application) (*grpc.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(app.cfg.GRPC.Host, app.cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			donationgrpc.RecoveryInterceptor(),
			donationgrpc.RequestIDInterceptor(),
			donationgrpc.LoggingInterceptor(),
		),
	)

	healthServer := donationgrpc.NewServer(map[string]donationgrpc.Check{
		"mysql": app.db.PingContext,
		"redis": func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		},
	})
	healthServer.Register(grpcSrv)

	return grpcSrv, lis
}
