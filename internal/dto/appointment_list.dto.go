package dto

import "time"

type AppointmentListDTO struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`

	CustomerName string   `json:"customer_name"`
	Vehicle      string   `json:"vehicle"`
	ServiceNames []string `json:"service_names"`

	BayName        string `json:"bay_name,omitempty"`
	TechnicianName string `json:"technician_name,omitempty"`
}
