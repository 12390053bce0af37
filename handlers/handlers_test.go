package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"restaurant-ordering-api/config"
	"restaurant-ordering-api/events"
	"restaurant-ordering-api/handlers"
	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pricing"
	"restaurant-ordering-api/repository"
	"restaurant-ordering-api/routes"
	"restaurant-ordering-api/service"
)

type testServer struct {
	router *gin.Engine
	auth   *middleware.Auth
	cfg    config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Auth.ExposeOTP = true
	db, err := config.OpenDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { config.CloseDB(db) })
	if err := config.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := repository.New(db)
	pub := events.NewLogPublisher(nil)
	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	h := &handlers.Handler{
		Catalog:       service.NewCatalogService(repo),
		Coupons:       service.NewCouponService(repo),
		Orders:        service.NewOrderService(repo, pricing.DefaultRules(), pub),
		Feedback:      service.NewFeedbackService(repo),
		Notifications: service.NewNotificationService(repo, pub),
		Identity:      service.NewIdentityService(repo, service.NewMockOTPProvider(cfg.Auth.OTPTTL)),
		Auth:          auth,
		Config:        cfg,
	}
	r := gin.New()
	routes.SetupRoutes(r, h, auth)
	return &testServer{router: r, auth: auth, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.auth.GenerateToken("", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func cart(coupon string) gin.H {
	return gin.H{
		"customerName": "Ada",
		"couponNumber": coupon,
		"totalAmount":  "0.01",
		"items": []gin.H{{
			"menuItemId":     "2",
			"quantity":       2,
			"customizations": gin.H{"spiceLevel": "mild", "addons": []string{"cheese"}},
		}},
	}
}

func placeOrder(t *testing.T, s *testServer, token string, body interface{}) models.Order {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/orders", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("place order: %d %s", w.Code, w.Body.String())
	}
	var order models.Order
	decode(t, w, &order)
	return order
}

func TestPlaceOrderIgnoresClientTotal(t *testing.T) {
	s := newTestServer(t)
	order := placeOrder(t, s, "", cart("TASTE001"))

	if order.TotalAmount.String() != "38.88" {
		t.Errorf("total = %s, want 38.88", order.TotalAmount)
	}
	if order.CouponNumber != "TASTE001" || order.BillNumber == "" {
		t.Errorf("order = %+v", order)
	}
	if !strings.Contains(s.do(t, http.MethodGet, "/api/orders/"+order.ID, "", nil).Body.String(), `"totalAmount":"38.88"`) {
		t.Error("stored order does not carry the computed total")
	}
}

func TestPlaceOrderErrors(t *testing.T) {
	s := newTestServer(t)
	placeOrder(t, s, "", cart("TASTE001"))

	tests := []struct {
		name  string
		body  interface{}
		code  int
		field string
	}{
		{"coupon used", cart("taste001"), http.StatusConflict, ""},
		{"unknown coupon", cart("NOTREAL"), http.StatusBadRequest, ""},
		{"missing name", gin.H{"items": []gin.H{{"menuItemId": "2", "quantity": 1}}}, http.StatusBadRequest, "customerName"},
		{"empty cart", gin.H{"customerName": "Ada", "items": []gin.H{}}, http.StatusBadRequest, "items"},
		{"unknown item", gin.H{"customerName": "Ada", "items": []gin.H{{"menuItemId": "999", "quantity": 1}}}, http.StatusBadRequest, ""},
		{"bad json", `{"customerName":`, http.StatusBadRequest, ""},
		{"bad quantity type", `{"customerName":"Ada","items":[{"menuItemId":"2","quantity":"two"}]}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/orders", "", tt.body)
			if w.Code != tt.code {
				t.Fatalf("code = %d, want %d: %s", w.Code, tt.code, w.Body.String())
			}
			var body map[string]interface{}
			decode(t, w, &body)
			if body["error"] == nil {
				t.Error("no error message")
			}
			if tt.field != "" && body["field"] != tt.field {
				t.Errorf("field = %v, want %s", body["field"], tt.field)
			}
		})
	}

	var orders []models.Order
	decode(t, s.do(t, http.MethodGet, "/api/orders", "", nil), &orders)
	if len(orders) != 1 {
		t.Errorf("orders = %d, want 1", len(orders))
	}
}

func TestUpdateOrder(t *testing.T) {
	s := newTestServer(t)
	order := placeOrder(t, s, "", cart(""))
	path := "/api/orders/" + order.ID
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPatch, path, "", gin.H{"paymentStatus": "completed", "paymentMethod": "cash"})
	if w.Code != http.StatusOK {
		t.Fatalf("payment: %d %s", w.Code, w.Body.String())
	}
	var paid models.Order
	decode(t, w, &paid)
	if paid.PaymentStatus != models.PaymentCompleted || paid.PaymentMethod != models.PaymentMethodCash || paid.Status != models.StatusReceived {
		t.Errorf("after payment = %s/%s/%s", paid.PaymentStatus, paid.PaymentMethod, paid.Status)
	}

	customer, _ := s.auth.GenerateToken("someone", models.RoleCustomer)
	tests := []struct {
		name  string
		token string
		body  interface{}
		code  int
	}{
		{"status needs token", "", gin.H{"status": "preparing"}, http.StatusUnauthorized},
		{"status needs admin", customer, gin.H{"status": "preparing"}, http.StatusForbidden},
		{"skip ahead", admin, gin.H{"status": "completed"}, http.StatusUnprocessableEntity},
		{"advance", admin, gin.H{"status": "preparing"}, http.StatusOK},
		{"same status", admin, gin.H{"status": "preparing"}, http.StatusOK},
		{"backward", admin, gin.H{"status": "received"}, http.StatusUnprocessableEntity},
		{"paid is final", "", gin.H{"paymentStatus": "failed", "paymentMethod": "upi"}, http.StatusUnprocessableEntity},
		{"nothing to do", "", gin.H{}, http.StatusBadRequest},
		{"unknown status", admin, gin.H{"status": "lost"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPatch, path, tt.token, tt.body)
			if w.Code != tt.code {
				t.Fatalf("code = %d, want %d: %s", w.Code, tt.code, w.Body.String())
			}
		})
	}

	if w := s.do(t, http.MethodPatch, "/api/orders/missing", admin, gin.H{"status": "preparing"}); w.Code != http.StatusNotFound {
		t.Errorf("missing order: %d", w.Code)
	}

	var history []models.OrderStatusHistory
	decode(t, s.do(t, http.MethodGet, path+"/history", "", nil), &history)
	if len(history) != 3 {
		t.Errorf("history = %d entries, want 3", len(history))
	}
}

func TestUpdateOrderPaymentAndStatusTogether(t *testing.T) {
	s := newTestServer(t)
	order := placeOrder(t, s, "", cart(""))
	path := "/api/orders/" + order.ID
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPatch, path, admin, gin.H{"paymentStatus": "completed", "paymentMethod": "cash", "status": "ready"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("skip ahead with payment: %d %s", w.Code, w.Body.String())
	}
	var got models.Order
	decode(t, s.do(t, http.MethodGet, path, "", nil), &got)
	if got.PaymentStatus != models.PaymentPending || got.Status != models.StatusReceived {
		t.Fatalf("refused update left %s/%s", got.PaymentStatus, got.Status)
	}

	w = s.do(t, http.MethodPatch, path, admin, gin.H{"paymentStatus": "completed", "paymentMethod": "upi", "status": "preparing"})
	if w.Code != http.StatusOK {
		t.Fatalf("paid and preparing: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &got)
	if got.PaymentStatus != models.PaymentCompleted || got.PaymentMethod != models.PaymentMethodUPI || got.Status != models.StatusPreparing {
		t.Errorf("after update = %s/%s/%s", got.PaymentStatus, got.PaymentMethod, got.Status)
	}

	var history []models.OrderStatusHistory
	decode(t, s.do(t, http.MethodGet, path+"/history", "", nil), &history)
	if len(history) != 3 {
		t.Fatalf("history = %d entries, want 3", len(history))
	}
	if history[1].Axis != models.AxisPayment || history[2].Axis != models.AxisStatus {
		t.Errorf("history axes = %s, %s", history[1].Axis, history[2].Axis)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)

	var categories []models.Category
	decode(t, s.do(t, http.MethodGet, "/api/categories", "", nil), &categories)
	if len(categories) != 5 {
		t.Errorf("categories = %d", len(categories))
	}

	var items []models.MenuItem
	decode(t, s.do(t, http.MethodGet, "/api/menu-items", "", nil), &items)
	if len(items) != 4 {
		t.Errorf("items = %d", len(items))
	}
	decode(t, s.do(t, http.MethodGet, "/api/menu-items?category=3", "", nil), &items)
	if len(items) != 1 || items[0].Name != "Margherita Pizza" {
		t.Errorf("pizza items = %+v", items)
	}

	if w := s.do(t, http.MethodGet, "/api/menu-items/nope", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing item: %d", w.Code)
	}
	var item models.MenuItem
	decode(t, s.do(t, http.MethodGet, "/api/menu-items/2", "", nil), &item)
	if item.Price.String() != "16.00" {
		t.Errorf("price = %s", item.Price)
	}
}

func TestAdminCatalogWrites(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPut, "/api/admin/menu-items/2", admin, gin.H{
		"name": "Margherita Pizza", "price": "18.00", "categoryId": "3", "isAvailable": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var items []models.MenuItem
	decode(t, s.do(t, http.MethodGet, "/api/menu-items?category=3", "", nil), &items)
	if len(items) != 0 {
		t.Errorf("unavailable item still listed")
	}
	if w := s.do(t, http.MethodPost, "/api/orders", "", cart("")); w.Code != http.StatusBadRequest {
		t.Errorf("ordering unavailable item: %d", w.Code)
	}

	if w := s.do(t, http.MethodDelete, "/api/admin/categories/3", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete category: %d", w.Code)
	}
	var listing struct {
		Count int               `json:"count"`
		Items []models.MenuItem `json:"items"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/admin/menu-items?category=uncategorized", admin, nil), &listing)
	if listing.Count != 1 || listing.Items[0].ID != "2" {
		t.Errorf("uncategorized = %+v", listing)
	}

	w = s.do(t, http.MethodPost, "/api/admin/menu-items", admin, gin.H{"name": "Espresso", "price": 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPost, "/api/admin/menu-items", admin, gin.H{"name": "Bad", "price": "1.234"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("three decimals: %d", w.Code)
	}
}

func TestAdminAccess(t *testing.T) {
	s := newTestServer(t)
	customer, _ := s.auth.GenerateToken("someone", models.RoleCustomer)

	if w := s.do(t, http.MethodGet, "/api/admin/orders", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/admin/orders", customer, nil); w.Code != http.StatusForbidden {
		t.Errorf("customer token: %d", w.Code)
	}

	if w := s.do(t, http.MethodPost, "/api/admin/verify", "", gin.H{"passcode": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong passcode: %d", w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/admin/verify", "", gin.H{"passcode": s.cfg.Auth.AdminPasscode})
	if w.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	var verified struct {
		Valid bool   `json:"valid"`
		Token string `json:"token"`
	}
	decode(t, w, &verified)
	if !verified.Valid || verified.Token == "" {
		t.Fatalf("verify = %+v", verified)
	}

	order := placeOrder(t, s, "", cart(""))
	s.do(t, http.MethodPatch, "/api/orders/"+order.ID, "", gin.H{"paymentStatus": "completed", "paymentMethod": "upi"})
	placeOrder(t, s, "", cart(""))

	w = s.do(t, http.MethodGet, "/api/admin/orders", verified.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin orders: %d", w.Code)
	}
	var dash struct {
		Count   int            `json:"count"`
		Summary map[string]int `json:"order_summary"`
		Revenue string         `json:"total_revenue"`
	}
	decode(t, w, &dash)
	if dash.Count != 2 || dash.Summary["received"] != 2 || dash.Revenue != "38.88" {
		t.Errorf("dashboard = %+v", dash)
	}
}

func TestAdminForceStatus(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	order := placeOrder(t, s, "", cart(""))
	path := "/api/admin/orders/" + order.ID + "/status"

	if w := s.do(t, http.MethodPut, path, admin, gin.H{"status": "completed"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing reason: %d", w.Code)
	}
	w := s.do(t, http.MethodPut, path, admin, gin.H{"status": "completed", "reason": "walked out with food"})
	if w.Code != http.StatusOK {
		t.Fatalf("override: %d %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	decode(t, w, &resp)
	if resp["previous_status"] != "received" || resp["new_status"] != "completed" {
		t.Errorf("resp = %v", resp)
	}
}

func TestCouponCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/coupons/check/taste005", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check: %d", w.Code)
	}
	var check service.CouponCheck
	decode(t, w, &check)
	if !check.Valid || check.AlreadyUsed {
		t.Errorf("check = %+v", check)
	}
	if w := s.do(t, http.MethodGet, "/api/coupons/check/NOPE99", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown: %d", w.Code)
	}

	placeOrder(t, s, "", cart("TASTE005"))
	decode(t, s.do(t, http.MethodGet, "/api/coupons/check/TASTE005", "", nil), &check)
	if check.Valid || !check.AlreadyUsed {
		t.Errorf("after use = %+v", check)
	}
}

func TestFeedbackEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, rating := range []int{0, 6} {
		w := s.do(t, http.MethodPost, "/api/feedback", "", gin.H{"customerName": "Ada", "rating": rating})
		if w.Code != http.StatusBadRequest {
			t.Errorf("rating %d: %d", rating, w.Code)
		}
	}
	for _, rating := range []int{1, 5} {
		w := s.do(t, http.MethodPost, "/api/feedback", "", gin.H{"customerName": "Ada", "rating": rating, "comment": "ok"})
		if w.Code != http.StatusCreated {
			t.Errorf("rating %d: %d %s", rating, w.Code, w.Body.String())
		}
	}
	var all []models.Feedback
	decode(t, s.do(t, http.MethodGet, "/api/feedback", "", nil), &all)
	if len(all) != 2 {
		t.Errorf("feedback = %d", len(all))
	}
}

func TestReceiptAndExport(t *testing.T) {
	s := newTestServer(t)
	order := placeOrder(t, s, "", cart("TASTE009"))

	w := s.do(t, http.MethodGet, "/api/orders/"+order.ID+"/receipt", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("receipt: %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("content type = %s", w.Header().Get("Content-Type"))
	}
	for _, want := range []string{order.BillNumber, "TASTE009", "38.88", s.cfg.Restaurant.Name} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("receipt missing %q", want)
		}
	}

	w = s.do(t, http.MethodGet, "/api/admin/orders/export", s.adminToken(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), ".xlsx") || w.Body.Len() == 0 {
		t.Errorf("export headers = %v", w.Header())
	}
}

func TestNotifyEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/admin/notify", admin, gin.H{"orderId": "any-order", "message": "Table 4 ready"})
	if w.Code != http.StatusCreated {
		t.Fatalf("notify: %d %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodPost, "/api/admin/notify", admin, gin.H{"orderId": "any-order"}); w.Code != http.StatusBadRequest {
		t.Errorf("empty message: %d", w.Code)
	}
	var list struct {
		Count int `json:"count"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/admin/notifications", admin, nil), &list)
	if list.Count != 1 {
		t.Errorf("notifications = %d", list.Count)
	}
}

func TestOTPLoginTiesOrdersToUser(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/send-otp", "", gin.H{"phone": "5550100"})
	if w.Code != http.StatusOK {
		t.Fatalf("send-otp: %d %s", w.Code, w.Body.String())
	}
	var sent struct {
		OTP string `json:"otp"`
	}
	decode(t, w, &sent)

	w = s.do(t, http.MethodPost, "/api/auth/verify-otp", "", gin.H{"phone": "5550100", "otp": sent.OTP})
	if w.Code != http.StatusOK {
		t.Fatalf("verify-otp: %d %s", w.Code, w.Body.String())
	}
	var login struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	decode(t, w, &login)

	order := placeOrder(t, s, login.Token, cart(""))
	if order.UserID != login.User.ID {
		t.Errorf("order user = %q, want %q", order.UserID, login.User.ID)
	}
	placeOrder(t, s, "", cart(""))

	var mine []models.Order
	decode(t, s.do(t, http.MethodGet, "/api/orders?userId="+login.User.ID, "", nil), &mine)
	if len(mine) != 1 {
		t.Errorf("user orders = %d, want 1", len(mine))
	}

	if w := s.do(t, http.MethodPost, "/api/orders", "garbage", cart("")); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/auth/verify-otp", "", gin.H{"phone": "5550100", "otp": sent.OTP}); w.Code != http.StatusUnauthorized {
		t.Errorf("reused otp: %d", w.Code)
	}
}

func TestPublicInfo(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health: %d", w.Code)
	}
	var info map[string]interface{}
	decode(t, s.do(t, http.MethodGet, "/api/config", "", nil), &info)
	if info["restaurantName"] != s.cfg.Restaurant.Name {
		t.Errorf("config = %v", info)
	}
	var sm struct {
		Transitions []map[string]interface{} `json:"state_machine"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/state-machine", "", nil), &sm)
	if len(sm.Transitions) == 0 {
		t.Error("empty state machine")
	}
}
