package handler

import (
	"context"

	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase/certification"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CertificationUsecase interface {
	Recommend(ctx context.Context, userID uuid.UUID, targetRole string) (certification.Result, error)
}

type CertificationHandler struct {
	uc CertificationUsecase
}

func NewCertificationHandler(uc CertificationUsecase) *CertificationHandler {
	return &CertificationHandler{uc: uc}
}

func (h *CertificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/recommendations/certifications", h.Recommend)
}

func (h *CertificationHandler) Recommend(c fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.CertificationRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
		}
	}

	res, err := h.uc.Recommend(c.Context(), userID, req.TargetJobRole)
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, res.Message, dto.NewCertificationsResponse(res))
}
