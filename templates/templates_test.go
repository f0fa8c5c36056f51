package templates

import (
	"bytes"
	"testing"
	"time"

	"github.com/adarshh12/grocery-inventory/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesEveryPage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	pages := []string{
		"dashboard.html", "login.html", "register.html", "user_dashboard.html",
		"order_form.html", "product_list.html", "product_form.html",
		"product_confirm_delete.html", "alert_list.html", "report.html", "error.html",
	}
	for _, page := range pages {
		assert.NotNil(t, tmpl.Lookup(page), page)
	}
}

func TestErrorPageEscapesMessage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "error.html", map[string]interface{}{
		"Title":   "Forbidden",
		"Message": "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<h1>Forbidden</h1>")
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), `href="/login/"`)
}

func TestReportPage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	report := &models.Report{
		ID:          3,
		ReportDate:  time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local),
		TotalOrders: 2,
		TotalSales:  decimal.RequireFromString("30"),
	}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "report.html", map[string]interface{}{
		"Title":  "Daily report",
		"User":   &models.User{Username: "manager", IsAdmin: true},
		"Report": report,
		"Recent": []models.Report{*report},
	})
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, `<dd id="report-date">October 14, 2026</dd>`)
	assert.Contains(t, body, `<dd id="report-sales">30.00</dd>`)
	assert.Contains(t, body, `href="/alerts/"`)
}

func TestMoney(t *testing.T) {
	money := Funcs["money"].(func(decimal.Decimal) string)
	assert.Equal(t, "10.50", money(decimal.RequireFromString("10.5")))
	assert.Equal(t, "0.00", money(decimal.Zero))
}
