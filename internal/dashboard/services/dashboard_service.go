package services

import (
	"github.com/google/uuid"

	appointmentServices "github.com/mkadima/hms-backend/internal/appointments/services"
	billingModels "github.com/mkadima/hms-backend/internal/billing/models"
	billingServices "github.com/mkadima/hms-backend/internal/billing/services"
	inventoryServices "github.com/mkadima/hms-backend/internal/inventory/services"
	patientServices "github.com/mkadima/hms-backend/internal/patients/services"
)

// Summary is the dashboard payload: headline counts plus the latest
// per-currency billing totals.
type Summary struct {
	Patients          int                       `json:"patients"`
	AppointmentsToday int                       `json:"appointments_today"`
	LowStockItems     int                       `json:"low_stock_items"`
	BillingTotals     []billingModels.TotalsRow `json:"billing_totals"`
}

type DashboardService struct {
	Patients     *patientServices.PatientService
	Appointments *appointmentServices.AppointmentService
	Inventory    *inventoryServices.InventoryService
	Billing      *billingServices.BillingService
}

func NewDashboardService(
	patients *patientServices.PatientService,
	appointments *appointmentServices.AppointmentService,
	inventory *inventoryServices.InventoryService,
	billing *billingServices.BillingService,
) *DashboardService {
	return &DashboardService{
		Patients:     patients,
		Appointments: appointments,
		Inventory:    inventory,
		Billing:      billing,
	}
}

func (s *DashboardService) Summary(tenant *uuid.UUID) (*Summary, error) {
	patients, err := s.Patients.CountPatients(tenant)
	if err != nil {
		return nil, err
	}
	today, err := s.Appointments.CountToday(tenant)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.Inventory.CountLowStock(tenant)
	if err != nil {
		return nil, err
	}
	totals, err := s.Billing.Totals(tenant)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Patients:          patients,
		AppointmentsToday: today,
		LowStockItems:     lowStock,
		BillingTotals:     totals,
	}, nil
}
