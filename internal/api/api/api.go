package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"rsvpbook/cmd/middleware"
	"rsvpbook/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	// Guest-facing flow, keyed by invitation code.
	apiGroup.GET("/rsvp/:code", r.Service.LookupFamilyByCode)
	apiGroup.POST("/families/:id/rsvp", r.Service.SubmitRSVP)

	// Admin dashboard. Authentication is fronted by the deployment proxy.
	apiGroup.GET("/families", r.Service.ListAllFamilies)
	apiGroup.POST("/families", r.Service.CreateFamily)
	apiGroup.POST("/families/:id/guests", r.Service.AddGuest)
	apiGroup.GET("/families/:id/qr", r.Service.FamilyQR)
	apiGroup.POST("/families/:id/remind", r.Service.ScheduleReminder)
	apiGroup.DELETE("/guests/:id", r.Service.RemoveGuest)
	apiGroup.POST("/import", r.Service.ImportFamilies)
	apiGroup.GET("/wedding", r.Service.GetWeddingDetails)
	apiGroup.PUT("/wedding", r.Service.UpsertWeddingDetails)
	apiGroup.GET("/report", r.Service.GetReport)
	apiGroup.POST("/setup", r.Service.InitializeSampleData)

	app.GET("/", func(c *ginext.Context) {
		c.File("./frontend/index.html")
	})
	app.GET("/rsvp/:code", func(c *ginext.Context) {
		c.File("./frontend/rsvp.html")
	})
	app.GET("/adm", func(c *ginext.Context) {
		c.File("./frontend/adm.html")
	})
	app.Static("/frontend", "./frontend")

	return app
}
