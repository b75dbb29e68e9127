package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/mkadima/hms-backend/config"
	"github.com/mkadima/hms-backend/internal/routes"
	"github.com/mkadima/hms-backend/pkg/storage/mariadb"
	"github.com/mkadima/hms-backend/ws"
)

func main() {
	cfg := config.LoadConfig()
	db := mariadb.Connect()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "X-Tenant-Slug"},
	}))

	routes.Init(e, db)
	e.GET("/ws/dashboard", ws.ServeWS(ws.HubInstance))

	log.Printf("Server listening on port %s...", cfg.Port)
	log.Fatal(e.Start(":" + cfg.Port))
}
