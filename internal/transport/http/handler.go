package httptransport

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"garage-tracker/internal/engine"
	"garage-tracker/internal/entity"
	"garage-tracker/internal/repository/memory"
	"garage-tracker/internal/service"
)

type Handler struct {
	jobSvc *service.JobService
	repo   service.JobRepository
}

func NewHandler(jobSvc *service.JobService, repo service.JobRepository) *Handler {
	return &Handler{jobSvc: jobSvc, repo: repo}
}

type validationResp struct {
	Errors []string `json:"errors"`
}

type updateStepDTO struct {
	StageIndex int               `json:"stageIndex"`
	StepID     string            `json:"stepId"`
	Status     entity.StepStatus `json:"status"`
	Employee   string            `json:"employee"`
}

// CreateJob godoc
// @Summary Create a repair job
// @Description Validates the intake form, attaches the initial claim/repair/billing stage layout and stores the job.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body service.CreateJobRequest true "intake payload"
// @Success 201 {object} entity.Job
// @Failure 400 {object} validationResp
// @Router /jobs [post]
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req service.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	job, err := h.jobSvc.CreateJob(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, validationResp{Errors: verr.Messages})
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// ListJobs godoc
// @Summary List jobs for the dashboard
// @Description Filters by free-text search, vehicle type, workflow status (all|claim|repair|billing|finished) and start-date range, then paginates.
// @Tags jobs
// @Produce json
// @Param search query string false "matches plate, customer, brand, model, chassis"
// @Param type query string false "vehicle type or all"
// @Param status query string false "all|claim|repair|billing|finished"
// @Param from query string false "start date lower bound (YYYY-MM-DD)"
// @Param to query string false "start date upper bound (YYYY-MM-DD)"
// @Param page query int false "1-based page"
// @Param page_size query int false "items per page"
// @Success 200 {object} service.JobsPage
// @Router /jobs [get]
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := service.JobsQuery{
		Search:  r.URL.Query().Get("search"),
		CarType: r.URL.Query().Get("type"),
		Status:  r.URL.Query().Get("status"),
		From:    r.URL.Query().Get("from"),
		To:      r.URL.Query().Get("to"),
	}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))

	page := service.QueryJobs(h.repo.GetAll(r.Context()), q)
	writeJSON(w, http.StatusOK, page)
}

// GetJob godoc
// @Summary Get job by id
// @Tags jobs
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Router /jobs/{id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobSvc.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// UpdateJob godoc
// @Summary Replace a job (edit form)
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "job id"
// @Param request body entity.Job true "full job"
// @Success 200 {object} entity.Job
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Router /jobs/{id} [put]
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var job entity.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if job.ID != id {
		writeErr(w, http.StatusBadRequest, "id mismatch")
		return
	}

	if err := h.jobSvc.UpdateJob(r.Context(), job); err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "job not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// UpdateStep godoc
// @Summary Save a step action
// @Description Applies a step transition (completed/skipped/processing/pending) to the job and advances the workflow when the stage resolves.
// @Tags progress
// @Accept json
// @Produce json
// @Param id path string true "job id"
// @Param request body updateStepDTO true "step transition"
// @Success 200 {object} entity.Job
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Router /jobs/{id}/steps [post]
func (h *Handler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto updateStepDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	job, err := h.jobSvc.GetJob(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusNotFound, "job not found")
		return
	}

	updated, err := engine.ApplyStepUpdate(job, dto.StageIndex, dto.StepID, dto.Status, dto.Employee)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	// Unknown step id is a deliberate engine no-op; log it, it means the
	// caller's template is out of sync with ours.
	if job.Stages[dto.StageIndex].StepIndex(dto.StepID) < 0 {
		log.Printf("[http] job_id=%s stage=%d step=%s unknown step id, no-op", id, dto.StageIndex, dto.StepID)
		writeJSON(w, http.StatusOK, job)
		return
	}

	if err := h.jobSvc.UpdateJob(r.Context(), updated); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[http] job_id=%s stage=%d step=%s status=%s stage_completed=%t finished=%t",
		id, dto.StageIndex, dto.StepID, dto.Status,
		updated.Stages[dto.StageIndex].IsCompleted, updated.IsFinished,
	)
	writeJSON(w, http.StatusOK, updated)
}

// CompleteStage godoc
// @Summary Explicitly complete the current stage
// @Description Fails with 409 while any step of the current stage is still pending or processing.
// @Tags progress
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Failure 409 {object} apiError
// @Router /jobs/{id}/stages/complete [post]
func (h *Handler) CompleteStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.jobSvc.GetJob(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusNotFound, "job not found")
		return
	}

	updated, err := engine.CompleteCurrentStage(job)
	if err != nil {
		if errors.Is(err, engine.ErrIncompleteStage) {
			writeErr(w, http.StatusConflict, err.Error())
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.jobSvc.UpdateJob(r.Context(), updated); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
