package handler

import (
	"errors"
	"math"

	"restocked-api/internal/model"
	"restocked-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// createTransactionRequest keeps quantity as a float so a fractional
// value is rejected explicitly instead of surfacing as a JSON error.
type createTransactionRequest struct {
	SKU         string                `json:"sku"`
	Type        model.TransactionType `json:"type"`
	Quantity    float64               `json:"quantity"`
	Description string                `json:"description"`
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Quantity <= 0 || req.Quantity != math.Trunc(req.Quantity) || req.Quantity > math.MaxInt32 {
		return c.Status(400).JSON(fiber.Map{"error": "quantity must be a positive number"})
	}

	record, err := h.service.Post(&service.PostTransactionInput{
		SKU:         req.SKU,
		Type:        req.Type,
		Quantity:    int(req.Quantity),
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFoundForSKU):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidTransactionType),
			errors.Is(err, service.ErrValidation):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Failed to create transaction"})
		}
	}

	return c.Status(201).JSON(record)
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	groups, err := h.service.GetAllGrouped()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	return c.JSON(groups)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	record, err := h.service.GetTransactionByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(record)
}
