package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, clientHandler *ClientHandler, orderHandler *OrderHandler, paymentHandler *PaymentHandler, expenseHandler *ExpenseHandler, reportHandler *ReportHandler, imageHandler *ImageHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Client routes
	clients := api.Group("/clients")
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)
	clients.GET("/:id/outstanding", clientHandler.GetOutstanding)
	clients.GET("/:id/orders", orderHandler.GetClientOrders)
	clients.GET("/:id/payments", paymentHandler.GetClientPayments)

	// Order routes
	orders := api.Group("/orders")
	orders.POST("", orderHandler.CreateOrder)
	orders.GET("", orderHandler.GetOrders)
	orders.GET("/pending-total", orderHandler.GetPendingTotal)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PUT("/:id", orderHandler.UpdateOrder)
	orders.DELETE("/:id", orderHandler.DeleteOrder)
	orders.PATCH("/:id/deliver", orderHandler.DeliverOrder)
	orders.GET("/:id/payments", paymentHandler.GetOrderPayments)

	// Payment routes
	payments := api.Group("/payments")
	payments.POST("", paymentHandler.CreatePayment)
	payments.GET("", paymentHandler.GetPayments)
	payments.PUT("/:id", paymentHandler.UpdatePayment)
	payments.DELETE("/:id", paymentHandler.DeletePayment)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/categories", expenseHandler.GetCategories)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/dashboard", reportHandler.GetDashboard)
	reports.GET("/clients", reportHandler.GetClientActivity)
	reports.GET("/clients/:id", reportHandler.GetClientStatement)
	reports.GET("/orders", reportHandler.GetOrderReport)
	reports.GET("/payments", reportHandler.GetPaymentReport)
	reports.GET("/expenses", reportHandler.GetExpenseReport)
	reports.GET("/expense-categories", reportHandler.GetCategorySummary)
	reports.GET("/expense-persons", reportHandler.GetPersonSummary)

	// Image routes
	images := api.Group("/images")
	images.POST("", imageHandler.UploadImage)
	images.GET("", imageHandler.GetImage)
	images.DELETE("", imageHandler.DeleteImage)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)
}
