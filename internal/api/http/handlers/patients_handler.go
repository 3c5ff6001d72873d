package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dietcare-service/internal/api/dto"
	"github.com/spec-kit/dietcare-service/internal/auth"
	"github.com/spec-kit/dietcare-service/internal/service"
	apperrors "github.com/spec-kit/dietcare-service/pkg/util"
)

// PatientsHandler exposes profile and compliance endpoints.
type PatientsHandler struct {
	patients *service.PatientService
}

// NewPatientsHandler constructs handler.
func NewPatientsHandler(patients *service.PatientService) *PatientsHandler {
	return &PatientsHandler{patients: patients}
}

// CreateProfile handles POST /patients/profile.
func (h *PatientsHandler) CreateProfile(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.patients.CreateProfile(c.UserContext(), caller, service.CreateProfileInput{
		UserID:   req.UserID,
		Age:      req.Age,
		HeightCm: req.HeightCm,
		WeightKg: req.WeightKg,
		DietGoal: req.DietGoal,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(envelope(dto.NewProfileResponse(profile)))
}

// GetProfile handles GET /patients/:userId/profile.
func (h *PatientsHandler) GetProfile(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.patients.GetProfile(c.UserContext(), caller, c.Params("userId"))
	if err != nil {
		return err
	}

	return c.JSON(envelope(dto.NewProfileResponse(profile)))
}

// UpdateProfile handles PUT /patients/:userId/profile.
func (h *PatientsHandler) UpdateProfile(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.patients.UpdateProfile(c.UserContext(), caller, c.Params("userId"), service.UpdateProfileInput{
		Age:      req.Age,
		HeightCm: req.HeightCm,
		WeightKg: req.WeightKg,
		DietGoal: req.DietGoal,
	})
	if err != nil {
		return err
	}

	return c.JSON(envelope(dto.NewProfileResponse(profile)))
}

// RecordCompliance handles POST /patients/:userId/compliance.
func (h *PatientsHandler) RecordCompliance(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.RecordComplianceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return apperrors.NewValidationError("date: must be in YYYY-MM-DD format", nil)
		}
		date = parsed
	}

	record, err := h.patients.RecordCompliance(c.UserContext(), caller, c.Params("userId"), service.RecordComplianceInput{
		Date:          date,
		MealsFollowed: req.MealsFollowed,
		MealsTotal:    req.MealsTotal,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(envelope(dto.NewComplianceResponse(record)))
}

// ListCompliance handles GET /patients/:userId/compliance.
func (h *PatientsHandler) ListCompliance(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	records, err := h.patients.ListCompliance(c.UserContext(), caller, c.Params("userId"), c.QueryInt("limit"))
	if err != nil {
		return err
	}

	out := make([]dto.ComplianceResponse, 0, len(records))
	for i := range records {
		out = append(out, dto.NewComplianceResponse(&records[i]))
	}
	return c.JSON(envelope(out))
}
