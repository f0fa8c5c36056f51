package controllers

import (
	"net/http"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/middleware"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/adarshh12/grocery-inventory/utils"
	"github.com/gin-gonic/gin"
)

// Dashboard handles GET / - the public landing page
func Dashboard(c *gin.Context) {
	render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title": "Grocery Inventory",
	})
}

// UserDashboard handles GET /user-dashboard/ - products and an order form
func UserDashboard(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		serverError(c, "Current user missing on dashboard", err)
		return
	}
	if middleware.CanAdminister(user) {
		c.Redirect(http.StatusFound, "/products/")
		return
	}

	renderOrderPage(c, http.StatusOK, "user_dashboard.html", OrderForm{}, utils.FieldErrors{}, nil)
}

// UserDashboardOrder handles POST /user-dashboard/ - places an order from the dashboard
func UserDashboardOrder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		serverError(c, "Current user missing on dashboard", err)
		return
	}
	if middleware.CanAdminister(user) {
		c.Redirect(http.StatusFound, "/products/")
		return
	}

	placeOrder(c, "user_dashboard.html")
}

func renderOrderPage(c *gin.Context, status int, page string, form OrderForm, errs utils.FieldErrors, flash *Flash) {
	products, err := services.NewInventoryService(config.GetDB()).ListProducts(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to list products", err)
		return
	}

	title := "Place an order"
	if page == "user_dashboard.html" {
		title = "Dashboard"
	}

	data := gin.H{
		"Title":    title,
		"Products": products,
		"Form":     form,
		"Errors":   errs,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	render(c, status, page, data)
}
