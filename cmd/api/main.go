package main

import (
	"log"

	_ "flowtier/docs"
	"flowtier/internal/adapter/http/routes"
	"flowtier/internal/config"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Flowtier Proposals API
// @version         1.0
// @description     Sales proposal service: form-built documents, e-signature, hosted checkout.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	routes.Run(cfg)
}
