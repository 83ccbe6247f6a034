package router

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"
)

type Handler interface {
	ListBookings(c *ginext.Context)
	CheckAvailability(c *ginext.Context)
	GetBooking(c *ginext.Context)
	GetUserBookings(c *ginext.Context)
	CreateBooking(c *ginext.Context)
	UpdateBooking(c *ginext.Context)
	ReviewBooking(c *ginext.Context)
	CancelBooking(c *ginext.Context)
	DeleteBooking(c *ginext.Context)
}

func InitRouter(mode string, h Handler, mw ...ginext.HandlerFunc) *ginext.Engine {
	router := ginext.New(mode)
	router.Use(mw...)

	Register(router, h)

	router.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	return router
}

// Register mounts the booking API under /api.
func Register(router *ginext.Engine, h Handler) {
	api := router.Group("/api")
	{
		api.GET("/bookings", h.ListBookings)
		api.GET("/bookings/availability", h.CheckAvailability)
		api.GET("/bookings/user/:userId", h.GetUserBookings)
		api.GET("/bookings/:id", h.GetBooking)

		api.POST("/bookings", h.CreateBooking)
		api.PUT("/bookings/:id", h.UpdateBooking)
		api.PUT("/bookings/:id/review", h.ReviewBooking)
		api.PUT("/bookings/:id/cancel", h.CancelBooking)
		api.DELETE("/bookings/:id", h.DeleteBooking)
	}
}
