package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/shopforge/shopforge/app/models"
	"github.com/shopforge/shopforge/app/repository"
)

// HandleListOrders returns recent orders, optionally filtered by status and
// customer email.
func HandleListOrders(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && !isKnownOrderStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown_status"})
	}

	limit := c.QueryInt("limit", 50)
	orders, err := repository.GetGlobalRepositories().Order.List(status, c.Query("email"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "order_list_failed"})
	}

	return c.JSON(fiber.Map{
		"orders": orderResponses(orders),
		"count":  len(orders),
	})
}

// HandleGetOrder returns a single order with its items.
func HandleGetOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_order_id"})
	}

	order, err := repository.GetGlobalRepositories().Order.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order_not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "order_lookup_failed"})
	}

	return c.JSON(orderResponse(*order))
}

func isKnownOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusFailed, models.OrderStatusRefunded:
		return true
	default:
		return false
	}
}

func orderResponse(order models.Order) fiber.Map {
	items := make([]fiber.Map, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fiber.Map{
			"product_id":   item.ProductID,
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"unit_price":   item.UnitPrice,
			"total_price":  item.TotalPrice,
		})
	}

	return fiber.Map{
		"id":               order.ID,
		"payment_provider": order.PaymentProvider,
		"payment_id":       order.PaymentID,
		"customer_email":   order.CustomerEmail,
		"customer_name":    order.CustomerName,
		"total_amount":     order.TotalAmount,
		"currency":         order.Currency,
		"status":           order.Status,
		"items":            items,
		"created_at":       order.CreatedAt,
		"updated_at":       order.UpdatedAt,
	}
}

func orderResponses(orders []models.Order) []fiber.Map {
	out := make([]fiber.Map, 0, len(orders))
	for _, order := range orders {
		out = append(out, orderResponse(order))
	}
	return out
}
