package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/models"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/adarshh12/grocery-inventory/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductForm represents the product create/edit form
type ProductForm struct {
	Name              string `form:"name" binding:"required,max=100"`
	Category          string `form:"category" binding:"required,max=100"`
	Price             string `form:"price" binding:"required"`
	Quantity          string `form:"quantity" binding:"required"`
	LowStockThreshold string `form:"low_stock_threshold"`
}

// productFormFrom fills the form with a stored product
func productFormFrom(p *models.Product) ProductForm {
	return ProductForm{
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price.StringFixed(2),
		Quantity:          itoa(p.Quantity),
		LowStockThreshold: itoa(p.LowStockThreshold),
	}
}

// parse converts the bound form into a product input
func (f ProductForm) parse(errs utils.FieldErrors) services.ProductInput {
	in := services.ProductInput{
		Name:              strings.TrimSpace(f.Name),
		Category:          strings.TrimSpace(f.Category),
		LowStockThreshold: models.DefaultLowStockThreshold,
	}

	if _, failed := errs["name"]; !failed && in.Name == "" {
		errs.Add("name", "This field is required.")
	}
	if _, failed := errs["category"]; !failed && in.Category == "" {
		errs.Add("category", "This field is required.")
	}
	if _, failed := errs["price"]; !failed {
		price, err := utils.ParsePrice(f.Price)
		errs.Collect(err)
		in.Price = price
	}
	if _, failed := errs["quantity"]; !failed {
		n, err := utils.ParseCount("quantity", f.Quantity)
		errs.Collect(err)
		in.Quantity = n
	}
	if strings.TrimSpace(f.LowStockThreshold) != "" {
		n, err := utils.ParseCount("low_stock_threshold", f.LowStockThreshold)
		errs.Collect(err)
		in.LowStockThreshold = n
	}

	return in
}

// bindProductForm binds and validates the submitted product form
func bindProductForm(c *gin.Context) (ProductForm, services.ProductInput, utils.FieldErrors) {
	var form ProductForm
	errs := utils.FieldErrors{}
	if err := c.ShouldBind(&form); err != nil {
		errs = utils.BindingErrors(err)
	}
	return form, form.parse(errs), errs
}

func renderProductForm(c *gin.Context, status int, title, action string, form ProductForm, errs utils.FieldErrors) {
	render(c, status, "product_form.html", gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	})
}

// loadProduct resolves the :id path parameter, rendering 404 when it does not exist
func loadProduct(c *gin.Context) (*models.Product, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		notFound(c, "No product matches the given query.")
		return nil, false
	}

	product, err := services.NewInventoryService(config.GetDB()).GetProduct(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		notFound(c, "No product matches the given query.")
		return nil, false
	}
	if err != nil {
		serverError(c, "Failed to load product", err)
		return nil, false
	}
	return product, true
}

// ListProducts handles GET /products/ - every product with its stock
func ListProducts(c *gin.Context) {
	products, err := services.NewInventoryService(config.GetDB()).ListProducts(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to list products", err)
		return
	}

	render(c, http.StatusOK, "product_list.html", gin.H{
		"Title":    "Products",
		"Products": products,
	})
}

// ShowCreateProduct handles GET /products/create/
func ShowCreateProduct(c *gin.Context) {
	form := ProductForm{LowStockThreshold: itoa(models.DefaultLowStockThreshold)}
	renderProductForm(c, http.StatusOK, "Add product", "/products/create/", form, utils.FieldErrors{})
}

// CreateProduct handles POST /products/create/
func CreateProduct(c *gin.Context) {
	form, in, errs := bindProductForm(c)
	if errs.Any() {
		renderProductForm(c, http.StatusBadRequest, "Add product", "/products/create/", form, errs)
		return
	}

	product, err := services.NewInventoryService(config.GetDB()).CreateProduct(c.Request.Context(), in)
	if err != nil {
		serverError(c, "Failed to create product", err)
		return
	}

	logger.Info(c, "Product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	setFlash(c, "success", "Product \""+product.Name+"\" was added.")
	c.Redirect(http.StatusFound, "/products/")
}

// ShowEditProduct handles GET /products/edit/:id/
func ShowEditProduct(c *gin.Context) {
	product, ok := loadProduct(c)
	if !ok {
		return
	}
	renderProductForm(c, http.StatusOK, "Edit product", editAction(product), productFormFrom(product), utils.FieldErrors{})
}

// UpdateProduct handles POST /products/edit/:id/
func UpdateProduct(c *gin.Context) {
	product, ok := loadProduct(c)
	if !ok {
		return
	}

	form, in, errs := bindProductForm(c)
	if errs.Any() {
		renderProductForm(c, http.StatusBadRequest, "Edit product", editAction(product), form, errs)
		return
	}

	updated, err := services.NewInventoryService(config.GetDB()).UpdateProduct(c.Request.Context(), product.ID, in)
	if errors.Is(err, services.ErrProductNotFound) {
		notFound(c, "No product matches the given query.")
		return
	}
	if err != nil {
		serverError(c, "Failed to update product", err)
		return
	}

	logger.Info(c, "Product updated", zap.Uint("product_id", updated.ID))
	setFlash(c, "success", "Product \""+updated.Name+"\" was updated.")
	c.Redirect(http.StatusFound, "/products/")
}

// ConfirmDeleteProduct handles GET /products/delete/:id/
func ConfirmDeleteProduct(c *gin.Context) {
	product, ok := loadProduct(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "product_confirm_delete.html", gin.H{
		"Title":   "Delete product",
		"Product": product,
	})
}

// DeleteProduct handles POST /products/delete/:id/ - removes the product and its orders
func DeleteProduct(c *gin.Context) {
	product, ok := loadProduct(c)
	if !ok {
		return
	}

	err := services.NewInventoryService(config.GetDB()).DeleteProduct(c.Request.Context(), product.ID)
	if errors.Is(err, services.ErrProductNotFound) {
		notFound(c, "No product matches the given query.")
		return
	}
	if err != nil {
		serverError(c, "Failed to delete product", err)
		return
	}

	logger.Info(c, "Product deleted", zap.Uint("product_id", product.ID))
	setFlash(c, "success", "Product \""+product.Name+"\" was deleted.")
	c.Redirect(http.StatusFound, "/products/")
}

func editAction(p *models.Product) string {
	return "/products/edit/" + itoa(int(p.ID)) + "/"
}
