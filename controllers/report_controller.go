package controllers

import (
	"net/http"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// recentReportLimit is how many earlier reports the report page lists
const recentReportLimit = 10

// StockAlerts handles GET /alerts/ - products at or below their threshold
func StockAlerts(c *gin.Context) {
	alerts, err := services.NewInventoryService(config.GetDB()).LowStockProducts(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to load stock alerts", err)
		return
	}

	render(c, http.StatusOK, "alert_list.html", gin.H{
		"Title":  "Stock alerts",
		"Alerts": alerts,
	})
}

// GenerateReport handles GET and POST /report/ - tallies today's orders into a new report
func GenerateReport(c *gin.Context) {
	db := config.GetDB()
	svc := services.NewReportService(db, services.GetReportArchiver())

	report, err := svc.GenerateDailyReport(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to generate report", err)
		return
	}
	logger.Info(c, "Daily report generated",
		zap.Uint("report_id", report.ID),
		zap.Int64("total_orders", report.TotalOrders),
		zap.String("total_sales", report.TotalSales.StringFixed(2)))

	recent, err := svc.RecentReports(c.Request.Context(), recentReportLimit)
	if err != nil {
		serverError(c, "Failed to list reports", err)
		return
	}

	render(c, http.StatusOK, "report.html", gin.H{
		"Title":  "Daily report",
		"Report": report,
		"Recent": recent,
	})
}
