package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/salaryconfig"
	"github.com/presensia/attendance-backend-go/internal/handler/http/response"
)

type SalaryConfigHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type salaryConfigHandlerImpl struct {
	salaryConfigService salaryconfig.Service
}

func NewSalaryConfigHandler(salaryConfigService salaryconfig.Service) SalaryConfigHandler {
	return &salaryConfigHandlerImpl{
		salaryConfigService: salaryConfigService,
	}
}

// Upsert implements SalaryConfigHandler.
func (h *salaryConfigHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req salaryconfig.UpsertSalaryConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.salaryConfigService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements SalaryConfigHandler.
func (h *salaryConfigHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	date := r.URL.Query().Get("date")

	result, err := h.salaryConfigService.GetActive(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
