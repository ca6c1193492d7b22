package routes

import (
	"net/http"

	"locationsguard/constants"
	"locationsguard/controllers"
	_ "locationsguard/docs"
	middlewares "locationsguard/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine, s *Services) {
	authController := controllers.NewAuthController(s.Auth)
	categoryController := controllers.NewCategoryController(s.Categories)
	vehicleController := controllers.NewVehicleController(controllers.VehicleControllerOptions{
		Vehicles:     s.Vehicles,
		Reservations: s.Reservations,
		Booking:      s.Booking,
		Dashboard:    s.Dashboard,
	})
	clientController := controllers.NewClientController(s.Clients, s.Reservations)
	reservationController := controllers.NewReservationController(s.Reservations, s.Booking)
	dashboardController := controllers.NewDashboardController(s.Dashboard)

	router.Use(middlewares.SessionMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	staff := middlewares.AuthMiddleware(s.Tokens, constants.RoleAgent, constants.RoleAdmin)
	admin := middlewares.AuthMiddleware(s.Tokens, constants.RoleAdmin)

	router.GET("/ws", middlewares.WebsocketAuthMiddleware(s.Tokens, constants.RoleAgent, constants.RoleAdmin), func(c *gin.Context) {
		if err := s.Hub.HandleRequest(c.Writer, c.Request); err != nil {
			s.Logger.Warn("websocket upgrade from %s: %v", c.ClientIP(), err)
		}
	})

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", authController.Login)
	v1.POST("/auth/google", authController.LoginGoogle)
	v1.GET("/profile", staff, authController.GetProfile)

	//categories
	v1.GET("/categories", staff, categoryController.GetCategories)
	v1.GET("/categories/:id", staff, categoryController.GetCategoryByID)
	v1.POST("/categories", admin, categoryController.CreateCategory)
	v1.PUT("/categories/:id", admin, categoryController.UpdateCategory)
	v1.DELETE("/categories/:id", admin, categoryController.DeleteCategory)

	//vehicles
	v1.GET("/vehicles", staff, vehicleController.GetVehicles)
	v1.GET("/vehicles/search", staff, vehicleController.SearchVehicles)
	v1.GET("/vehicles/:id", staff, vehicleController.GetVehicleByID)
	v1.POST("/vehicles", admin, vehicleController.CreateVehicle)
	v1.PUT("/vehicles/:id", admin, vehicleController.UpdateVehicle)
	v1.DELETE("/vehicles/:id", admin, vehicleController.DeleteVehicle)
	v1.PUT("/vehicles/:id/availability", staff, vehicleController.SetAvailability)
	v1.GET("/vehicles/:id/reservations", staff, vehicleController.GetVehicleReservations)
	v1.GET("/vehicles/:id/availability", staff, vehicleController.CheckAvailability)
	v1.GET("/vehicles/:id/calendar", staff, vehicleController.GetCalendar)

	//clients
	v1.GET("/clients", staff, clientController.GetClients)
	v1.GET("/clients/:id", staff, clientController.GetClientByID)
	v1.POST("/clients", staff, clientController.CreateClient)
	v1.PUT("/clients/:id", staff, clientController.UpdateClient)
	v1.DELETE("/clients/:id", admin, clientController.DeleteClient)
	v1.GET("/clients/:id/reservations", staff, clientController.GetClientReservations)

	//reservations
	v1.GET("/reservations", staff, reservationController.GetReservations)
	v1.GET("/reservations/:id", staff, reservationController.GetReservationByID)
	v1.POST("/reservations", staff, reservationController.CreateReservation)
	v1.PUT("/reservations/:id", staff, reservationController.UpdateReservation)
	v1.DELETE("/reservations/:id", staff, reservationController.DeleteReservation)
	v1.PUT("/reservations/:id/status", staff, reservationController.ChangeStatus)
	v1.PUT("/reservations/:id/paid", staff, reservationController.MarkPaid)

	v1.GET("/dashboard", staff, dashboardController.GetDashboard)
}
