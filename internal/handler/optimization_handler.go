package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coderscenter/training-optimizer-api/internal/dto"
	"github.com/coderscenter/training-optimizer-api/internal/models"
	appErrors "github.com/coderscenter/training-optimizer-api/pkg/errors"
	"github.com/coderscenter/training-optimizer-api/pkg/export"
	"github.com/coderscenter/training-optimizer-api/pkg/response"
)

type optimizationRunner interface {
	Submit(ctx context.Context, scheduleID int64, req dto.OptimizeRequest) (dto.JobResponse, error)
	Status(ctx context.Context, jobID string) (dto.JobResponse, error)
	Cancel(ctx context.Context, jobID string) (dto.JobResponse, error)
	Apply(ctx context.Context, jobID string, scheduleID int64) (dto.ApplyResponse, error)
	Result(ctx context.Context, jobID string) (models.OptimizationJob, error)
	DebugJobs(ctx context.Context) map[string]string
}

// OptimizationHandler exposes the optimization job endpoints.
type OptimizationHandler struct {
	service  optimizationRunner
	exporter *export.PDFExporter
}

// NewOptimizationHandler constructs the handler.
func NewOptimizationHandler(svc optimizationRunner, exporter *export.PDFExporter) *OptimizationHandler {
	return &OptimizationHandler{service: svc, exporter: exporter}
}

// Submit starts an optimization run for a schedule. The request body is
// optional; an empty body uses the configured defaults.
func (h *OptimizationHandler) Submit(c *gin.Context) {
	scheduleID, err := parseID(c.Param("scheduleId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}

	var req dto.OptimizeRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid optimization payload"))
			return
		}
	}

	job, err := h.service.Submit(c.Request.Context(), scheduleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job)
}

// Status returns the current snapshot of a job.
func (h *OptimizationHandler) Status(c *gin.Context) {
	job, err := h.service.Status(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Cancel requests termination of a running job.
func (h *OptimizationHandler) Cancel(c *gin.Context) {
	job, err := h.service.Cancel(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Apply writes a completed job's assignments back to the schedule.
func (h *OptimizationHandler) Apply(c *gin.Context) {
	scheduleID, err := parseID(c.Param("scheduleId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}
	result, err := h.service.Apply(c.Request.Context(), c.Param("jobId"), scheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Report renders a completed job's result as a downloadable PDF.
func (h *OptimizationHandler) Report(c *gin.Context) {
	job, err := h.service.Result(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	data := export.Dataset{
		Headers: []string{"Slot", "Topic", "Start", "Subject", "Trainer"},
		Rows:    make([]map[string]string, 0, len(job.Assignments)),
	}
	for _, a := range job.Assignments {
		trainer := a.TrainerName
		if trainer == "" {
			trainer = "unassigned"
		}
		data.Rows = append(data.Rows, map[string]string{
			"Slot":    strconv.FormatInt(a.SlotID, 10),
			"Topic":   a.Topic,
			"Start":   a.StartAt.Format("2006-01-02 15:04"),
			"Subject": strconv.FormatInt(a.SubjectID, 10),
			"Trainer": trainer,
		})
	}

	title := fmt.Sprintf("Optimization Report - Schedule %d", job.ScheduleID)
	pdf, err := h.exporter.RenderReport(title, strings.Split(job.Report, "\n"), data)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=optimization-%s.pdf", job.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// DebugJobs lists all known jobs with their status and creation time.
func (h *OptimizationHandler) DebugJobs(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.DebugJobs(c.Request.Context()))
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
