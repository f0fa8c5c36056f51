package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/adarshh12/grocery-inventory/models"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/adarshh12/grocery-inventory/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	if os.Getenv("GO_ENV") == "production" {
		panic("refusing to run tests with GO_ENV=production")
	}
	gin.SetMode(gin.TestMode)
	services.PasswordCost = 4
	os.Exit(m.Run())
}

type testApp struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	sessions *services.SessionService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.NewTestDB(t)
	sessions := testutil.UseSessionService(t)
	router, err := SetupRouter(testutil.TestConfig())
	require.NoError(t, err)

	return &testApp{t: t, db: db, router: router, sessions: sessions}
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(user *models.User) *http.Cookie {
	return testutil.SessionCookie(a.t, a.sessions, user)
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func orderForm(product *models.Product, quantity string) url.Values {
	return url.Values{
		"product":       {itoa(product.ID)},
		"quantity":      {quantity},
		"customer_name": {"Jane Doe"},
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
