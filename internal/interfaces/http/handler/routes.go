package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/interfaces/http/router"
)

// InvoiceRoutes creates the API route group for the invoice endpoints.
// invoiceMiddleware (e.g. the rate limiter) applies to the invoice routes only.
func InvoiceRoutes(invoices *InvoiceHandler, system *SystemHandler, invoiceMiddleware ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("api", "")
	group.GET("/health", system.Health)

	limited := group.Group("invoices", "")
	limited.Use(invoiceMiddleware...)
	limited.POST("/create-invoice", invoices.CreateInvoice)
	limited.POST("/preview-invoice", invoices.PreviewInvoice)

	return group
}

// RootRoutes creates the route group mounted at the server root
func RootRoutes(system *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("root", "").GET("", system.Root)
}
