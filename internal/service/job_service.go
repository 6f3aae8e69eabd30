package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"garage-tracker/internal/entity"
)

// Port over the repository (implementation: memory.JobRepository).
type JobRepository interface {
	GetAll(ctx context.Context) []entity.Job
	GetByID(ctx context.Context, id string) (entity.Job, error)
	Insert(ctx context.Context, job entity.Job) error
	Replace(ctx context.Context, job entity.Job) error
}

// ValidationError carries every intake violation at once so the form can
// show all of them, not just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

const dateLayout = "2006-01-02"

// Intake dates may arrive in the Buddhist calendar (543 years ahead of
// Gregorian). Anything past this year is assumed to be one of those.
// Heuristic, not a calendar detector.
const buddhistYearThreshold = 2400

type CreateJobRequest struct {
	Registration     string             `json:"registration" validate:"required"`
	BagNumber        string             `json:"bagNumber" validate:"required"`
	Type             string             `json:"type" validate:"required"`
	Brand            string             `json:"brand" validate:"required"`
	Model            string             `json:"model" validate:"required"`
	Year             string             `json:"year" validate:"required"`
	Color            string             `json:"color" validate:"required"`
	StartDate        string             `json:"startDate" validate:"required"`
	EstimatedEndDate string             `json:"estimatedEndDate" validate:"required"`
	Receiver         string             `json:"receiver" validate:"required"`
	ExcessFee        int                `json:"excessFee"`
	PaymentType      entity.PaymentType `json:"paymentType"`
	InsuranceCompany string             `json:"insuranceCompany"`
	CustomerName     string             `json:"customerName"`
	CustomerPhone    string             `json:"customerPhone"`
	CustomerAddress  string             `json:"customerAddress"`
}

var requiredFieldMessages = map[string]string{
	"Registration":     "registration plate is required",
	"BagNumber":        "chassis/bag number is required",
	"Type":             "vehicle type is required",
	"Brand":            "brand is required",
	"Model":            "model is required",
	"Year":             "year is required",
	"Color":            "color is required",
	"StartDate":        "start date is required",
	"EstimatedEndDate": "estimated end date is required",
	"Receiver":         "receiver name is required",
}

// Field order fixes the order of collected messages.
var requiredFieldOrder = []string{
	"Registration", "BagNumber", "Type", "Brand", "Model", "Year",
	"Color", "StartDate", "EstimatedEndDate", "Receiver",
}

type JobService struct {
	repo     JobRepository
	validate *validator.Validate
}

func NewJobService(repo JobRepository) *JobService {
	return &JobService{
		repo:     repo,
		validate: validator.New(),
	}
}

// CreateJob validates and normalizes the intake payload, builds the job
// with a fresh stage layout, and prepends it to the repository so listings
// stay most-recent-first. On validation failure it returns a
// *ValidationError with every message collected.
func (s *JobService) CreateJob(ctx context.Context, req CreateJobRequest) (entity.Job, error) {
	req = normalize(req)

	if errs := s.collectViolations(req); len(errs) > 0 {
		return entity.Job{}, &ValidationError{Messages: errs}
	}

	job := entity.Job{
		ID:                uuid.NewString(),
		Registration:      req.Registration,
		BagNumber:         req.BagNumber,
		Brand:             req.Brand,
		Type:              req.Type,
		Model:             req.Model,
		Year:              req.Year,
		Color:             req.Color,
		StartDate:         req.StartDate,
		EstimatedEndDate:  req.EstimatedEndDate,
		ExcessFee:         req.ExcessFee,
		Receiver:          req.Receiver,
		PaymentType:       req.PaymentType,
		InsuranceCompany:  req.InsuranceCompany,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerAddress:   req.CustomerAddress,
		Stages:            entity.BuildInitialStages(),
		CurrentStageIndex: 0,
		IsFinished:        false,
	}

	if err := s.repo.Insert(ctx, job); err != nil {
		return entity.Job{}, err
	}
	return job, nil
}

// GetJob returns one job by id.
func (s *JobService) GetJob(ctx context.Context, id string) (entity.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateJob replaces a whole job (the direct-edit path).
func (s *JobService) UpdateJob(ctx context.Context, job entity.Job) error {
	return s.repo.Replace(ctx, job)
}

func (s *JobService) collectViolations(req CreateJobRequest) []string {
	var msgs []string

	missing := map[string]bool{}
	if err := s.validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				missing[fe.StructField()] = true
			}
		}
	}
	for _, field := range requiredFieldOrder {
		if missing[field] {
			msgs = append(msgs, requiredFieldMessages[field])
		}
	}

	if req.PaymentType == entity.PaymentInsurance && strings.TrimSpace(req.InsuranceCompany) == "" {
		msgs = append(msgs, "insurance company name is required for insurance jobs")
	}

	if req.StartDate != "" && req.EstimatedEndDate != "" {
		start, errStart := time.Parse(dateLayout, req.StartDate)
		end, errEnd := time.Parse(dateLayout, req.EstimatedEndDate)
		switch {
		case errStart != nil:
			msgs = append(msgs, "start date is not a valid date")
		case errEnd != nil:
			msgs = append(msgs, "estimated end date is not a valid date")
		case !end.After(start):
			msgs = append(msgs, "estimated end date must be after start date")
		}
	}

	return msgs
}

// normalize trims obvious whitespace, converts Buddhist-calendar dates and
// drops the insurer field on cash jobs, mirroring the intake form.
func normalize(req CreateJobRequest) CreateJobRequest {
	req.Registration = strings.TrimSpace(req.Registration)
	req.BagNumber = strings.TrimSpace(req.BagNumber)
	req.Receiver = strings.TrimSpace(req.Receiver)
	req.StartDate = normalizeBuddhistDate(req.StartDate)
	req.EstimatedEndDate = normalizeBuddhistDate(req.EstimatedEndDate)
	if req.PaymentType != entity.PaymentInsurance {
		req.InsuranceCompany = ""
	}
	return req
}

// normalizeBuddhistDate converts a YYYY-MM-DD date whose year exceeds the
// threshold back to the Gregorian calendar by subtracting 543 years.
// Unparsable input passes through untouched for validation to report.
func normalizeBuddhistDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	if t.Year() > buddhistYearThreshold {
		t = t.AddDate(-543, 0, 0)
	}
	return t.Format(dateLayout)
}
