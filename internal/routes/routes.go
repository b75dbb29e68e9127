package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	appointmentControllers "github.com/mkadima/hms-backend/internal/appointments/controllers"
	appointmentServices "github.com/mkadima/hms-backend/internal/appointments/services"
	billingControllers "github.com/mkadima/hms-backend/internal/billing/controllers"
	billingServices "github.com/mkadima/hms-backend/internal/billing/services"
	"github.com/mkadima/hms-backend/internal/common/middlewares"
	dashboardControllers "github.com/mkadima/hms-backend/internal/dashboard/controllers"
	dashboardServices "github.com/mkadima/hms-backend/internal/dashboard/services"
	inventoryControllers "github.com/mkadima/hms-backend/internal/inventory/controllers"
	inventoryServices "github.com/mkadima/hms-backend/internal/inventory/services"
	patientControllers "github.com/mkadima/hms-backend/internal/patients/controllers"
	patientServices "github.com/mkadima/hms-backend/internal/patients/services"
	staffControllers "github.com/mkadima/hms-backend/internal/staff/controllers"
	staffModels "github.com/mkadima/hms-backend/internal/staff/models"
	staffServices "github.com/mkadima/hms-backend/internal/staff/services"
	tenantControllers "github.com/mkadima/hms-backend/internal/tenants/controllers"
	tenantServices "github.com/mkadima/hms-backend/internal/tenants/services"
)

// Init wires all services, controllers and route groups.
func Init(e *echo.Echo, db *sql.DB) {
	tenantService := tenantServices.NewTenantService(db)
	patientService := patientServices.NewPatientService(db)
	appointmentService := appointmentServices.NewAppointmentService(db)
	acteService := billingServices.NewActeService(db)
	billingService := billingServices.NewBillingService(db)
	inventoryService := inventoryServices.NewInventoryService(db)
	staffService := staffServices.NewStaffService(db)
	dashboardService := dashboardServices.NewDashboardService(patientService, appointmentService, inventoryService, billingService)

	patientController := patientControllers.NewPatientController(patientService)
	appointmentController := appointmentControllers.NewAppointmentController(appointmentService)
	acteController := billingControllers.NewActeController(acteService)
	billingController := billingControllers.NewBillingController(billingService)
	inventoryController := inventoryControllers.NewInventoryController(inventoryService)
	staffController := staffControllers.NewStaffController(staffService)
	dashboardController := dashboardControllers.NewDashboardController(dashboardService)
	tenantController := tenantControllers.NewTenantController(tenantService)

	jwt := middlewares.JWTMiddleware()
	tenant := middlewares.TenantMiddleware(tenantService)

	api := e.Group("/api")

	// Public, no JWT: auth and the login-page hospital picker
	api.POST("/login/", staffController.Login)
	api.POST("/token/refresh/", staffController.Refresh)
	api.GET("/tenants/", tenantController.ListTenants)

	api.GET("/me/", staffController.Me, jwt)

	// Patients: every role
	patients := api.Group("/patients", jwt, tenant,
		middlewares.RequireRole(staffModels.Roles...))
	patients.GET("/", patientController.ListPatients)
	patients.POST("/", patientController.CreatePatient)
	patients.GET("/:id/", patientController.GetPatient)
	patients.PUT("/:id/", patientController.UpdatePatient)
	patients.DELETE("/:id/", patientController.DeletePatient)

	// Appointments: front-desk and clinical roles
	appointments := api.Group("/appointments", jwt, tenant,
		middlewares.RequireRole(staffModels.RoleAdmin, staffModels.RoleReception, staffModels.RoleDoctor, staffModels.RoleNurse))
	appointments.GET("/", appointmentController.ListAppointments)
	appointments.POST("/", appointmentController.CreateAppointment)
	appointments.GET("/:id/", appointmentController.GetAppointment)
	appointments.PUT("/:id/", appointmentController.UpdateAppointment)
	appointments.DELETE("/:id/", appointmentController.DeleteAppointment)

	// Acte catalog: admins manage it, doctors and billing read it
	actes := api.Group("/actes", jwt, tenant,
		middlewares.RequireRole(staffModels.RoleAdmin, staffModels.RoleDoctor, staffModels.RoleBilling))
	actes.GET("/", acteController.ListActes)
	actes.POST("/", acteController.CreateActe)

	// Billing: billing desk and admins
	billing := api.Group("/billing", jwt, tenant,
		middlewares.RequireRole(staffModels.RoleAdmin, staffModels.RoleBilling))
	billing.GET("/", billingController.ListBilling)
	billing.POST("/", billingController.CreateBilling)
	billing.GET("/totals/", billingController.Totals)
	billing.GET("/:id/", billingController.GetBilling)
	billing.PUT("/:id/", billingController.UpdateBilling)
	billing.DELETE("/:id/", billingController.DeleteBilling)
	billing.POST("/:id/add_payment/", billingController.AddPayment)
	billing.POST("/:id/pay/", billingController.Pay)

	// Inventory shares the billing desk gate
	inventory := api.Group("/inventory", jwt, tenant,
		middlewares.RequireRole(staffModels.RoleAdmin, staffModels.RoleBilling))
	inventory.GET("/", inventoryController.ListItems)
	inventory.POST("/", inventoryController.CreateItem)
	inventory.GET("/:id/", inventoryController.GetItem)
	inventory.PUT("/:id/", inventoryController.UpdateItem)
	inventory.DELETE("/:id/", inventoryController.DeleteItem)

	// Staff management: admin only
	staff := api.Group("/staff", jwt, tenant,
		middlewares.RequireRole(staffModels.RoleAdmin))
	staff.GET("/", staffController.ListStaff)
	staff.POST("/", staffController.CreateStaff)
	staff.POST("/:id/create_user/", staffController.CreateUser)
	staff.DELETE("/:id/", staffController.DeleteStaff)

	// Dashboard: any authenticated role
	api.GET("/dashboard/", dashboardController.Summary, jwt, tenant,
		middlewares.RequireRole(staffModels.Roles...))
}
