package main

import (
	"log"

	_ "careconnect/docs"
	"careconnect/internal/adapter/http/routes"
	"careconnect/internal/config"

	_ "github.com/joho/godotenv/autoload"
)

// @title           CareConnect Booking & Payments API
// @version         1.0
// @description     Childcare marketplace bookings with escrowed Mercado Pago payments.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	routes.Run(cfg)
}
