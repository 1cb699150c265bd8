package http

import (
	"net/http"

	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/presensia/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetAttendanceReport implements ReportHandler.
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.AttendanceReportRequest{
		StartDate:           q.Get("start_date"),
		EndDate:             q.Get("end_date"),
		DistinguishNoRecord: q.Get("distinguish_no_record") == "true",
	}
	if v := q.Get("employee_id"); v != "" {
		req.EmployeeID = &v
	}

	result, err := h.reportService.GetAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
