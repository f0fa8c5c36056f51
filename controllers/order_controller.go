package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/middleware"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/adarshh12/grocery-inventory/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderForm represents the order form. Numbers stay strings so the entered
// values can be shown again next to their errors.
type OrderForm struct {
	Product      string `form:"product" binding:"required"`
	Quantity     string `form:"quantity" binding:"required"`
	CustomerName string `form:"customer_name" binding:"required,max=100"`
}

// parse converts the bound form into an order request
func (f OrderForm) parse(errs utils.FieldErrors) services.OrderRequest {
	var req services.OrderRequest

	if _, failed := errs["product"]; !failed {
		id, err := utils.ParseID(f.Product)
		if err != nil {
			errs.Add("product", "Select a valid choice. That choice is not one of the available choices.")
		}
		req.ProductID = id
	}
	if _, failed := errs["quantity"]; !failed {
		n, err := utils.ParsePositive("quantity", f.Quantity)
		errs.Collect(err)
		req.Quantity = n
	}
	req.CustomerName = strings.TrimSpace(f.CustomerName)
	if _, failed := errs["customer_name"]; !failed && req.CustomerName == "" {
		errs.Add("customer_name", "This field is required.")
	}

	return req
}

// ShowOrderForm handles GET /orders/create/
func ShowOrderForm(c *gin.Context) {
	renderOrderPage(c, http.StatusOK, "order_form.html", OrderForm{}, utils.FieldErrors{}, nil)
}

// CreateOrder handles POST /orders/create/ - places an order for the current user
func CreateOrder(c *gin.Context) {
	placeOrder(c, "order_form.html")
}

// placeOrder runs the order flow and re-renders page on rejection
func placeOrder(c *gin.Context, page string) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		serverError(c, "Current user missing on order", err)
		return
	}

	var form OrderForm
	errs := utils.FieldErrors{}
	if err := c.ShouldBind(&form); err != nil {
		errs = utils.BindingErrors(err)
	}
	req := form.parse(errs)
	if errs.Any() {
		renderOrderPage(c, http.StatusBadRequest, page, form, errs, nil)
		return
	}

	order, err := services.NewInventoryService(config.GetDB()).PlaceOrder(c.Request.Context(), user, req)

	var stockErr *services.StockError
	switch {
	case errors.As(err, &stockErr):
		logger.Info(c, "Order rejected",
			zap.Uint("product_id", req.ProductID),
			zap.Int("requested", req.Quantity),
			zap.Int("available", stockErr.Available),
			zap.Bool("out_of_stock", stockErr.OutOfStock()))
		renderOrderPage(c, http.StatusConflict, page, form, errs, &Flash{Kind: "error", Message: stockErr.Error()})
		return
	case errors.Is(err, services.ErrProductNotFound):
		errs.Add("product", "Select a valid choice. That choice is not one of the available choices.")
		renderOrderPage(c, http.StatusNotFound, page, form, errs, nil)
		return
	case errors.Is(err, services.ErrInvalidQuantity):
		errs.Add("quantity", "Ensure this value is greater than or equal to 1.")
		renderOrderPage(c, http.StatusBadRequest, page, form, errs, nil)
		return
	case err != nil:
		serverError(c, "Failed to place order", err)
		return
	}

	logger.Info(c, "Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", order.ProductID),
		zap.Int("quantity", order.Quantity),
		zap.Uint("user_id", user.ID))
	setFlash(c, "success", "Order placed successfully.")
	c.Redirect(http.StatusFound, "/user-dashboard/")
}
