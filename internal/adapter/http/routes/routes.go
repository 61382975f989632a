package routes

import (
	"log"
	"strconv"

	_ "flowtier/docs" // This will be auto-generated
	"flowtier/internal/adapter/http/handlers"
	"flowtier/internal/adapter/persistence/repository"
	"flowtier/internal/config"
	"flowtier/internal/infrastructure/notify"
	"flowtier/internal/infrastructure/payments"
	"flowtier/internal/usecase"
	"flowtier/internal/usecase/interfaces"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.New()

// Run will start the server
func Run(cfg *config.Config) {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := getRoutes(cfg); err != nil {
		log.Fatalf("Failed to wire the application: %v", err)
	}

	err := router.Run(":" + strconv.Itoa(cfg.App.Port))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg *config.Config) error {
	repo, err := repository.NewProposalFileRepository(cfg.Storage.DataDir)
	if err != nil {
		return err
	}

	settings := notify.LoadSettings(cfg.Storage.WebhookConfigFile)
	sink := notify.NewWebhookSink(settings)

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPago.AccessToken)
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	proposalUseCase := usecase.NewProposalUseCase(repo, sink)
	paymentUseCase := usecase.NewPaymentUseCase(repo, paymentGateway, sink, cfg.App.BaseURL)

	proposalHandler := handlers.NewProposalHandler(proposalUseCase)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase)
	webhookConfigHandler := handlers.NewWebhookConfigHandler(settings)
	pageHandler := handlers.NewPageHandler(proposalUseCase, cfg.Storage.StaticDir)

	api := router.Group("/api")
	addPingRoutes(router.Group("/"))
	addProposalRoutes(api, cfg.App.APIKey, proposalHandler, paymentHandler, webhookConfigHandler)

	router.Static("/static", cfg.Storage.StaticDir)

	// Proposal pages live at the path root, which gin cannot express as a
	// wildcard next to /api and /static. Unmatched requests fall through here.
	router.NoRoute(pageHandler.ServeProposalPage)

	return nil
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization", "X-Source", "X-API-Key"},
		ExposeHeaders: []string{"Content-Length"},
	}))
}
