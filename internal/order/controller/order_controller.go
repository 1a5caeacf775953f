package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bakehouse/internal/domain"
	"bakehouse/internal/dto"
	apperrors "bakehouse/internal/errors"
)

const maxItemsPerOrder = 100

type OrderRepository interface {
	List(ctx context.Context) ([]domain.RemoteOrder, error)
	Create(ctx context.Context, order domain.RemoteOrder) (domain.RemoteOrder, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.RemoteOrder, error)
}

type OrderController struct {
	repo   OrderRepository
	logger *zap.Logger
}

func NewOrderController(repo OrderRepository, logger *zap.Logger) *OrderController {
	return &OrderController{
		repo:   repo,
		logger: logger,
	}
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.repo.List(r.Context())
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	response := make([]dto.RemoteOrder, len(orders))
	for i, o := range orders {
		response[i] = dto.FromRemoteOrder(o)
	}

	c.writeJSON(w, http.StatusOK, response)
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RemoteOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := c.validateCreateRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	order := req.ToDomain()
	order.ID = ""
	order.Status = domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))

	created, err := c.repo.Create(r.Context(), order)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	logger.Info("order stored", zap.String("id", created.ID), zap.String("orderId", created.OrderID))
	c.writeJSON(w, http.StatusCreated, dto.FromRemoteOrder(created))
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("status must be one of %s", statusList()),
		})
		return
	}

	updated, err := c.repo.UpdateStatus(r.Context(), id, status)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	logger.Info("order status stored", zap.String("id", updated.ID), zap.String("status", string(status)))
	c.writeJSON(w, http.StatusOK, dto.FromRemoteOrder(updated))
}

func (c *OrderController) validateCreateRequest(req dto.RemoteOrder) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.OrderID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxItemsPerOrder {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: fmt.Sprintf("items exceeds maximum of %d", maxItemsPerOrder),
		})
	}

	for idx, item := range req.Items {
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", idx),
				Message: "quantity must be at least 1",
			})
		}
		if item.Price < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].price", idx),
				Message: "price must be non-negative",
			})
		}
	}

	if req.Status != "" {
		if _, ok := domain.ParseStatus(req.Status); !ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   "status",
				Message: fmt.Sprintf("status must be one of %s", statusList()),
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *OrderController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *OrderController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code string, message string) {
	response := dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	c.writeJSON(w, statusCode, response)
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	response := validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}

	c.writeJSON(w, http.StatusBadRequest, response)
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func statusList() string {
	names := make([]string, len(domain.Progression))
	for i, s := range domain.Progression {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
