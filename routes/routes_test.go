package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kariqs/freezy-bites-api/controllers"
	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/models"
	"github.com/Kariqs/freezy-bites-api/realtime"
	"github.com/Kariqs/freezy-bites-api/services"
	"github.com/Kariqs/freezy-bites-api/utils"
)

const testSecret = "test-secret"

type stubNotifier struct {
	err      error
	receipts []services.Receipt
}

func (n *stubNotifier) OrderPlaced(_ context.Context, r services.Receipt) error {
	n.receipts = append(n.receipts, r)
	return n.err
}

type stubAccounts struct{ mails []services.AccountMail }

func (a *stubAccounts) SendAccountMail(_ context.Context, m services.AccountMail) error {
	a.mails = append(a.mails, m)
	return nil
}

func (a *stubAccounts) last(t *testing.T) services.AccountMail {
	t.Helper()
	require.NotEmpty(t, a.mails)
	return a.mails[len(a.mails)-1]
}

type stubImages struct{ keys []string }

func (s *stubImages) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type testServer struct {
	t        *testing.T
	engine   *gin.Engine
	db       *gorm.DB
	notifier *stubNotifier
	accounts *stubAccounts
	images   *stubImages
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, initializers.SyncDatabase(db))
	initializers.DB = db

	ts := &testServer{t: t, db: db, notifier: &stubNotifier{}, accounts: &stubAccounts{}, images: &stubImages{}}
	controllers.Configure(controllers.Dependencies{
		JWTSecret: testSecret,
		Notifier:  ts.notifier,
		Accounts:  ts.accounts,
		OrderFeed: realtime.NewHub(nil),
		Images:    ts.images,
	})

	ts.engine = gin.New()
	require.NoError(t, SetupRoutes(ts.engine, testSecret))
	return ts
}

func (ts *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	ts.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (ts *testServer) token(id utils.Identity) string {
	ts.t.Helper()
	token, err := utils.GenerateJWT(testSecret, id)
	require.NoError(ts.t, err)
	return token
}

func (ts *testServer) adminToken() string {
	return ts.token(utils.Identity{UserID: 1, Email: "admin@example.com", Role: utils.RoleAdmin})
}

func (ts *testServer) product(sku, price string, stock int) models.Product {
	ts.t.Helper()
	p := models.Product{SKU: sku, Name: sku + " tub", Price: decimal.RequireFromString(price), Stock: stock, Status: models.ProductStatusActive}
	require.NoError(ts.t, ts.db.Create(&p).Error)
	return p
}

func (ts *testServer) stock(id uint) int {
	ts.t.Helper()
	var p models.Product
	require.NoError(ts.t, ts.db.First(&p, id).Error)
	return p.Stock
}

func guestBody(productID uint, qty int) gin.H {
	return gin.H{
		"items": []gin.H{{"productId": productID, "quantity": qty}},
		"guest": gin.H{"email": "guest@example.com", "name": "Guest", "address": "Ngong Rd"},
	}
}

func TestHome(t *testing.T) {
	ts := newTestServer(t)
	w, body := ts.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body["message"], "Freezy Bites")
}

func TestGuestCheckout(t *testing.T) {
	ts := newTestServer(t)
	p := ts.product("ICE-VAN", "10.00", 5)

	w, body := ts.do(http.MethodPost, "/checkout", "", guestBody(p.ID, 3))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Order placed successfully.", body["message"])
	assert.NotEmpty(t, body["orderRef"])
	assert.NotContains(t, body, "warning")
	total, err := decimal.NewFromString(body["total"].(string))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, ts.stock(p.ID))
	require.Len(t, ts.notifier.receipts, 1)
	assert.Equal(t, "guest@example.com", ts.notifier.receipts[0].Email)
}

func TestCheckoutReceiptFailureIsAWarning(t *testing.T) {
	ts := newTestServer(t)
	ts.notifier.err = errors.New("smtp down")
	p := ts.product("ICE-WARN", "1.00", 5)

	w, body := ts.do(http.MethodPost, "/checkout", "", guestBody(p.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, body["warning"])
	assert.Equal(t, 4, ts.stock(p.ID))
}

func TestCheckoutErrors(t *testing.T) {
	ts := newTestServer(t)
	p := ts.product("ICE-FEW", "1.00", 2)

	w, body := ts.do(http.MethodPost, "/checkout", "", guestBody(p.ID, 3))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, body["message"], "requested 3, available 2")

	w, _ = ts.do(http.MethodPost, "/checkout", "", guestBody(999, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = ts.do(http.MethodPost, "/checkout", "", gin.H{"items": []gin.H{}, "guest": gin.H{"email": "g@example.com", "name": "G"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no items to order", body["message"])

	w, _ = ts.do(http.MethodPost, "/checkout", "", `{"items":[{"productId":1,"quantity":1}],"guest":{"email":"g@example.com","name":"G"},"coupon":"FREE"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodPost, "/checkout", "", gin.H{"items": []gin.H{{"productId": p.ID, "quantity": 0}}, "guest": gin.H{"email": "g@example.com", "name": "G"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodPost, "/checkout", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodPost, "/checkout", "not-a-token", guestBody(p.ID, 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, 2, ts.stock(p.ID))
	var orders int64
	ts.db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestAccountCheckout(t *testing.T) {
	ts := newTestServer(t)
	p := ts.product("ICE-ACC", "4.00", 10)

	w, body := ts.do(http.MethodPost, "/auth/signup", "", gin.H{"email": "member@example.com", "name": "Member", "password": "longenough", "address": "Karen"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, body, "token")
	mail := ts.accounts.last(t)
	assert.Equal(t, services.AccountActivation, mail.Kind)
	assert.Equal(t, "member@example.com", mail.Email)

	w, body = ts.do(http.MethodPost, "/auth/login", "", gin.H{"email": "member@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, body["message"], "not activated")

	w, _ = ts.do(http.MethodPost, "/auth/verify-email/"+mail.Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, body = ts.do(http.MethodPost, "/auth/login", "", gin.H{"email": "member@example.com", "password": "longenough"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := body["token"].(string)

	w, _ = ts.do(http.MethodPost, "/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodPost, "/cart", token, gin.H{"sku": "ICE-ACC", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, body = ts.do(http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8.00", body["subtotal"])

	w, _ = ts.do(http.MethodPost, "/checkout", token, gin.H{"items": []gin.H{{"productId": p.ID, "quantity": 1}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = ts.do(http.MethodPost, "/checkout", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 8, ts.stock(p.ID))

	w, body = ts.do(http.MethodPost, "/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cart is empty", body["message"])

	w, body = ts.do(http.MethodGet, "/me/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["orders"], 1)

	w, body = ts.do(http.MethodPost, "/auth/login", "", gin.H{"email": "MEMBER@example.com", "password": "longenough"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])

	w, _ = ts.do(http.MethodPost, "/auth/login", "", gin.H{"email": "member@example.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupDoesNotExposeGuestOrders(t *testing.T) {
	ts := newTestServer(t)
	p := ts.product("ICE-VIC", "5.00", 10)
	w, _ := ts.do(http.MethodPost, "/checkout", "", gin.H{
		"items": []gin.H{{"productId": p.ID, "quantity": 1}},
		"guest": gin.H{"email": "victim@example.com", "name": "Victim", "phone": "0700111222", "address": "12 Secret Lane"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body := ts.do(http.MethodPost, "/auth/signup", "", gin.H{"email": "victim@example.com", "name": "Attacker", "password": "attacker-pass"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, body, "token")
	assert.NotContains(t, body, "customer")
	assert.NotContains(t, w.Body.String(), "Secret Lane")

	w, body = ts.do(http.MethodPost, "/auth/login", "", gin.H{"email": "victim@example.com", "password": "attacker-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, body, "token")

	w, _ = ts.do(http.MethodPost, "/auth/verify-email/not-the-token", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// only the mailbox owner receives the link
	mail := ts.accounts.last(t)
	assert.Equal(t, "victim@example.com", mail.Email)
}

func TestPasswordResetRoutes(t *testing.T) {
	ts := newTestServer(t)
	w, _ := ts.do(http.MethodPost, "/auth/signup", "", gin.H{"email": "forgot@example.com", "name": "Forgot", "password": "oldpassword"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = ts.do(http.MethodPost, "/auth/verify-email/"+ts.accounts.last(t).Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, unknown := ts.do(http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "nobody@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	sent := len(ts.accounts.mails)

	w, known := ts.do(http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "forgot@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, unknown["message"], known["message"])
	require.Len(t, ts.accounts.mails, sent+1)
	mail := ts.accounts.last(t)
	assert.Equal(t, services.AccountPasswordReset, mail.Kind)

	w, _ = ts.do(http.MethodPost, "/auth/reset-password/"+mail.Token, "", gin.H{"password": "newpassword"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = ts.do(http.MethodPost, "/auth/login", "", gin.H{"email": "forgot@example.com", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do(http.MethodPost, "/auth/reset-password/"+mail.Token, "", gin.H{"password": "newpassword2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(http.MethodGet, "/admin/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	customer := ts.token(utils.Identity{UserID: 3, Email: "c@example.com", Role: utils.RoleCustomer})
	w, _ = ts.do(http.MethodGet, "/admin/inventory", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = ts.do(http.MethodGet, "/admin/admins", ts.adminToken(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = ts.do(http.MethodGet, "/cart", ts.adminToken(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminProductsAndInventory(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()

	w, body := ts.do(http.MethodPost, "/admin/products", admin, gin.H{"sku": "ICE-NEW", "name": "New", "price": "3.50", "stock": 4, "minStock": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(body["product"].(map[string]any)["id"].(float64))

	w, _ = ts.do(http.MethodPost, "/admin/products", admin, gin.H{"sku": "ICE-NEW", "name": "Dup", "price": "1.00", "stock": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = ts.do(http.MethodPost, "/admin/products", admin, gin.H{"sku": "bad sku", "name": "Bad", "price": "1.00", "stock": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodPost, "/admin/products", admin, gin.H{"sku": "ICE-NEG", "name": "Neg", "price": "-1.00", "stock": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.product("ICE-OUT", "2.00", 0)
	ts.product("ICE-FULL", "1.00", 20)

	w, body = ts.do(http.MethodGet, "/admin/inventory", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["outOfStock"])
	assert.Equal(t, float64(1), summary["lowStock"])
	assert.Equal(t, float64(1), summary["inStock"])

	w, body = ts.do(http.MethodGet, "/admin/inventory?stock=low_stock", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["products"], 1)

	w, _ = ts.do(http.MethodGet, "/admin/inventory?stock=lots", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodGet, "/admin/inventory/export", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())

	w, body = ts.do(http.MethodPatch, "/admin/products/"+itoa(id)+"/stock", admin, gin.H{"adjust": -4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "out_of_stock", body["product"].(map[string]any)["status"])

	w, _ = ts.do(http.MethodPatch, "/admin/products/"+itoa(id)+"/stock", admin, gin.H{"adjust": -1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = ts.do(http.MethodPut, "/admin/products/"+itoa(id), admin, gin.H{"name": "Renamed", "price": "4.25"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := body["product"].(map[string]any)
	assert.Equal(t, "Renamed", updated["name"])
	assert.Equal(t, "ICE-NEW", updated["sku"])
	w, _ = ts.do(http.MethodPut, "/admin/products/999", admin, gin.H{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ts.do(http.MethodDelete, "/admin/products/"+itoa(id), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do(http.MethodGet, "/products/"+itoa(id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadProductImage(t *testing.T) {
	ts := newTestServer(t)
	p := ts.product("ICE-IMG", "1.00", 1)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="cone.PNG"`}
	header["Content-Type"] = []string{"image/png"}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/"+itoa(p.ID)+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.adminToken())
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, ts.images.keys, 1)
	assert.True(t, strings.HasPrefix(ts.images.keys[0], "products/ICE-IMG-"))
	assert.True(t, strings.HasSuffix(ts.images.keys[0], ".png"))

	var stored models.Product
	require.NoError(t, ts.db.First(&stored, p.ID).Error)
	assert.Equal(t, "https://cdn.example.com/"+ts.images.keys[0], stored.ImageUrl)
}

func TestAdminOrderLifecycle(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	p := ts.product("ICE-LIFE", "5.00", 3)

	w, body := ts.do(http.MethodPost, "/checkout", "", guestBody(p.ID, 3))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := itoa(uint(body["orderId"].(float64)))

	w, body = ts.do(http.MethodGet, "/admin/orders?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["orders"], 1)

	w, _ = ts.do(http.MethodPatch, "/admin/orders/"+orderID+"/status", admin, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(http.MethodPatch, "/admin/orders/"+orderID+"/payment-status", admin, gin.H{"status": "paid"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(http.MethodPatch, "/admin/orders/"+orderID+"/status", admin, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, ts.stock(p.ID))

	w, body = ts.do(http.MethodGet, "/admin/analytics", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["sales"].(map[string]any)["orders"])

	w, _ = ts.do(http.MethodDelete, "/admin/orders/"+orderID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do(http.MethodGet, "/admin/orders/"+orderID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorefrontContentAndMessages(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()

	w, _ := ts.do(http.MethodPut, "/admin/content/hero", admin, gin.H{"title": "Hero", "body": gin.H{"headline": "Cold treats"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = ts.do(http.MethodPut, "/admin/content/hero", admin, gin.H{"title": "Hero v2", "body": gin.H{"headline": "Colder"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, body := ts.do(http.MethodGet, "/content/hero", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hero v2", body["content"].(map[string]any)["title"])

	w, _ = ts.do(http.MethodPost, "/messages", "", gin.H{"name": "Ann", "email": "ann@example.com", "body": "Do you deliver?"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w, body = ts.do(http.MethodGet, "/admin/messages?unread=true", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["messages"], 1)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
