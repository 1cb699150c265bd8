package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/payroll"
	"github.com/presensia/attendance-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	ComputeMonth(w http.ResponseWriter, r *http.Request)
	ComputeCompanyMonth(w http.ResponseWriter, r *http.Request)
	AddLedgerEntry(w http.ResponseWriter, r *http.Request)
	ListLedgerEntries(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

func periodFromQuery(r *http.Request) (year, month int) {
	year, _ = strconv.Atoi(r.URL.Query().Get("year"))
	month, _ = strconv.Atoi(r.URL.Query().Get("month"))
	return year, month
}

// ComputeMonth implements PayrollHandler.
func (h *payrollHandlerImpl) ComputeMonth(w http.ResponseWriter, r *http.Request) {
	year, month := periodFromQuery(r)
	req := payroll.ComputeMonthRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Year:       year,
		Month:      month,
	}

	result, err := h.payrollService.ComputeMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ComputeCompanyMonth implements PayrollHandler.
func (h *payrollHandlerImpl) ComputeCompanyMonth(w http.ResponseWriter, r *http.Request) {
	year, month := periodFromQuery(r)

	result, err := h.payrollService.ComputeCompanyMonth(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AddLedgerEntry implements PayrollHandler.
func (h *payrollHandlerImpl) AddLedgerEntry(w http.ResponseWriter, r *http.Request) {
	var req payroll.AddLedgerEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.payrollService.AddLedgerEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Ledger entry recorded", result)
}

// ListLedgerEntries implements PayrollHandler.
func (h *payrollHandlerImpl) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	year, month := periodFromQuery(r)

	result, err := h.payrollService.ListLedgerEntries(r.Context(), chi.URLParam(r, "employeeID"), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
