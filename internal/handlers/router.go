package handlers

import (
	"github.com/chachabrian/tvdefleet-backend/internal/middleware"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Dependencies are the collaborators the routes need. Optional ones may be nil.
type Dependencies struct {
	Store     *store.Store
	JWTSecret string
	Hub       *services.Hub
	Storage   *services.Storage
	Mailer    *utils.Mailer
	Push      *services.PushNotifier
	Redis     *redis.Client
	Bolt      services.BoltClient
	SyncLock  services.SyncLock
	BoltCreds services.BoltCredentials
}

// RegisterRoutes mounts the /api tree on r
func RegisterRoutes(r gin.IRouter, d Dependencies) {
	s := d.Store
	notifier := &PaymentsNotifier{Store: s, Hub: d.Hub, Mailer: d.Mailer}
	auth := middleware.AuthMiddleware(d.JWTSecret)
	staff := middleware.StaffOnly()
	admin := middleware.AdminOnly()

	api := r.Group("/api")
	{
		api.POST("/auth/login", Login(s, d.JWTSecret))

		// WebSocket connection
		if d.Hub != nil {
			api.GET("/ws", auth, WebSocketHandler(d.Hub))
		}

		protected := api.Group("/")
		protected.Use(auth)
		{
			protected.GET("/me", GetProfile())
			protected.GET("/driver/summary", GetDriverSummary(s))
			protected.GET("/rentals", GetRentals(s))
			protected.POST("/rentals/:id/interest", middleware.RequireRoles("driver"), RequestRental(s))

			backoffice := protected.Group("/")
			backoffice.Use(staff)
			{
				drivers := backoffice.Group("/drivers")
				{
					drivers.GET("", GetDrivers(s))
					drivers.GET("/export", ExportDrivers(s))
					drivers.GET("/:id", GetDriver(s))
					drivers.POST("", CreateDriver(s))
					drivers.PUT("/:id", UpdateDriver(s))
					drivers.PATCH("/:id/status", ToggleDriverStatus(s))
				}

				vehicles := backoffice.Group("/vehicles")
				{
					vehicles.GET("", GetVehicles(s))
					vehicles.GET("/:id", GetVehicle(s))
					vehicles.POST("", CreateVehicle(s))
					vehicles.PUT("/:id", UpdateVehicle(s))
					vehicles.PATCH("/:id/status", ToggleVehicleStatus(s))
					vehicles.GET("/:id/history", GetVehicleHistory(s))
					vehicles.POST("/:id/history", AddMaintenanceEntry(s))
				}

				expenses := backoffice.Group("/expenses")
				{
					expenses.GET("", GetExpenses(s))
					expenses.GET("/export", ExportExpenses(s))
					expenses.POST("", CreateExpense(s))
					expenses.PUT("/:id", UpdateExpense(s))
					expenses.PATCH("/:id/status", UpdateExpenseStatus(s))
					if d.Storage != nil {
						expenses.POST("/:id/receipt", UploadReceipt(s, d.Storage))
					}
				}

				rentals := backoffice.Group("/rentals")
				{
					rentals.POST("", CreateRental(s))
					rentals.PUT("/:id", UpdateRental(s))
					rentals.POST("/:id/approve", admin, ApproveRental(s, d.Mailer))
					rentals.POST("/:id/reject", admin, RejectRental(s))
				}

				payments := backoffice.Group("/payments")
				{
					payments.GET("", GetPayments(s))
					payments.GET("/export", ExportPayments(s))
					payments.GET("/export.xlsx", ExportPaymentsXLSX(s))
					payments.GET("/preview-net", PreviewNet(s))
					payments.PATCH("/:id/status", UpdatePaymentStatus(s, notifier))
					payments.POST("/bulk-paid", BulkMarkPaid(s, notifier))
					payments.POST("/pay-all", PayAll(s, notifier))
					payments.POST("/import", ImportPayments(s, d.Storage))
				}

				backoffice.GET("/finance/stats", GetFinanceStats(s))
				backoffice.GET("/dashboard", GetDashboard(s))

				if d.Bolt != nil && d.SyncLock != nil {
					backoffice.POST("/bolt/sync", SyncBolt(s, d.Bolt, d.SyncLock, d.Redis, d.BoltCreds))
				}
				backoffice.GET("/bolt/last-sync", GetLastBoltSync(d.Redis))

				notifications := backoffice.Group("/notifications")
				{
					notifications.GET("", GetNotifications(s))
					notifications.POST("/read-all", MarkNotificationsRead(s))
					notifications.POST("/check", RunExpirationChecks(s))
					notifications.POST("/devices", RegisterDevice(d.Push))
					notifications.DELETE("/devices", RemoveDevice(d.Push))
				}

				adminOnly := backoffice.Group("/")
				adminOnly.Use(admin)
				{
					adminOnly.GET("/settings", GetSettings(s))
					adminOnly.PUT("/settings", UpdateSettings(s))
					adminOnly.GET("/users", GetUsers(s))
					adminOnly.POST("/users", CreateUser(s))
					adminOnly.POST("/data/reset-earnings", ResetEarnings(s))
					adminOnly.POST("/data/clear", ClearAllData(s))
				}
			}
		}
	}
}
