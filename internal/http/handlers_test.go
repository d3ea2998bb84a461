package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"bloodconnect/internal/cart"
	"bloodconnect/internal/config"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/service"
	"bloodconnect/internal/session"
	"bloodconnect/internal/storage"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	store := repository.NewMemoryStore()
	auth := service.NewAuthService(repository.NewMemoryUsers(store), session.NewMemoryStore(), &config.AuthConfig{
		AdminEmails: []string{"admin@bloodconnect.com"},
		SessionTTL:  time.Hour,
	})
	donations := service.NewDonationService(repository.NewMemoryDonations(store))
	medicines := service.NewMedicineService(store)
	images := service.NewImageService(repository.NewMemoryImages(store), storage.NewLocalStore(t.TempDir(), "/files"))
	return NewServer(zap.NewNop(), auth, donations, medicines, images, cart.NewStore())
}

func doJSON(t *testing.T, s *Server, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func doForm(t *testing.T, s *Server, method, path string, fields map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func signUp(t *testing.T, s *Server, email string) *http.Cookie {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"full_name":        "John Doe",
		"email":            email,
		"phone":            "555-0101",
		"password":         "secret123",
		"confirm_password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %v: %s", w.Code, w.Body.String())
	}
	return findCookie(t, w, "session_token")
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)
	sess := signUp(t, s, "john@example.com")

	w := doJSON(t, s, http.MethodGet, "/api/v1/auth/me", nil, sess)
	if w.Code != http.StatusOK {
		t.Fatalf("me %v", w.Code)
	}
	if got := decode(t, w)["email"]; got != "john@example.com" {
		t.Fatalf("me email %v", got)
	}

	// login works as well, trimmed credentials included
	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email": "  john@example.com ", "password": " secret123 ",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %v: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/logout", nil, sess)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/auth/me", nil, sess)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout %v", w.Code)
	}
}

func TestAuth_BadRequests(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"full_name": "J", "email": "bad email", "phone": "1",
		"password": "p", "confirm_password": "p",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad email %v", w.Code)
	}

	signUp(t, s, "taken@example.com")
	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"full_name": "J", "email": "taken@example.com", "phone": "1",
		"password": "p", "confirm_password": "p",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email": "taken@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password %v", w.Code)
	}
}

func TestDonationFlow(t *testing.T) {
	s := setupServer(t)

	// scheduling requires a session
	w := doJSON(t, s, http.MethodPost, "/api/v1/donations", map[string]any{
		"name": "Sarah", "email": "sarah@example.com", "phone": "1",
		"blood_type": "A+", "donation_date": "2026-09-15",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous schedule %v", w.Code)
	}

	sess := signUp(t, s, "donor@example.com")
	for _, d := range []map[string]any{
		{"name": "Sarah Connor", "email": "sarah@example.com", "phone": "1", "blood_type": "A+", "donation_date": "2026-09-15"},
		{"name": "Mike Ross", "email": "mike@example.com", "phone": "2", "blood_type": "O-", "donation_date": "2026-09-20"},
	} {
		w = doJSON(t, s, http.MethodPost, "/api/v1/donations", d, sess)
		if w.Code != http.StatusCreated {
			t.Fatalf("schedule %v: %s", w.Code, w.Body.String())
		}
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/donations", map[string]any{
		"name": "X", "email": "x@example.com", "phone": "3",
		"blood_type": "Z+", "donation_date": "2026-09-15",
	}, sess)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad blood type %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/donations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list %v", w.Code)
	}

	// search is public; blood type and name narrow together
	w = doJSON(t, s, http.MethodGet, "/api/v1/donations/search?blood_type=A%2B&q=sar", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search %v", w.Code)
	}
	if got := decode(t, w)["count"]; got != float64(1) {
		t.Fatalf("search count %v", got)
	}

	// no blood_type param means the All Types wildcard
	w = doJSON(t, s, http.MethodGet, "/api/v1/donations/search", nil)
	if got := decode(t, w)["count"]; got != float64(2) {
		t.Fatalf("wildcard count %v", got)
	}
}

func TestAdminGate(t *testing.T) {
	s := setupServer(t)

	// anonymous and plain users get sent back to the public root
	w := doJSON(t, s, http.MethodGet, "/api/v1/admin/medicines", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("anonymous: code %v location %q", w.Code, w.Header().Get("Location"))
	}

	user := signUp(t, s, "user@example.com")
	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/medicines", nil, user)
	if w.Code != http.StatusFound {
		t.Fatalf("non-admin: %v", w.Code)
	}

	admin := signUp(t, s, "admin@bloodconnect.com")
	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/medicines", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: %v", w.Code)
	}
}

func TestAdminMedicineCRUD(t *testing.T) {
	s := setupServer(t)
	admin := signUp(t, s, "admin@bloodconnect.com")

	w := doForm(t, s, http.MethodPost, "/api/v1/admin/medicines", map[string]string{
		"name": "Aspirin", "description": "Pain relief", "price": "10.25", "stock": "5",
	}, admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("create %v: %s", w.Code, w.Body.String())
	}
	id, _ := decode(t, w)["id"].(string)
	if id == "" {
		t.Fatalf("no id in %s", w.Body.String())
	}

	w = doForm(t, s, http.MethodPut, "/api/v1/admin/medicines/"+id, map[string]string{
		"name": "Aspirin Forte", "description": "Pain relief", "price": "12.50", "stock": "7",
	}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("update %v: %s", w.Code, w.Body.String())
	}

	// catalogue is public
	w = doJSON(t, s, http.MethodGet, "/api/v1/medicines/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get %v", w.Code)
	}
	if got := decode(t, w)["name"]; got != "Aspirin Forte" {
		t.Fatalf("updated name %v", got)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/medicines/search?q=ASP", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search %v", w.Code)
	}

	w = doForm(t, s, http.MethodPost, "/api/v1/admin/medicines", map[string]string{
		"name": "Broken", "description": "d", "price": "abc", "stock": "5",
	}, admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad price %v", w.Code)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/v1/admin/medicines/"+id, nil, admin)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/medicines/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted %v", w.Code)
	}
}

func TestCartFlow(t *testing.T) {
	s := setupServer(t)
	admin := signUp(t, s, "admin@bloodconnect.com")

	w := doForm(t, s, http.MethodPost, "/api/v1/admin/medicines", map[string]string{
		"name": "Aspirin", "description": "d", "price": "10.25", "stock": "5",
	}, admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed medicine %v", w.Code)
	}
	id, _ := decode(t, w)["id"].(string)

	// first cart request issues the cart cookie
	w = doJSON(t, s, http.MethodGet, "/api/v1/cart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart %v", w.Code)
	}
	cartCk := findCookie(t, w, "cart_session")

	for i := 0; i < 2; i++ {
		w = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine_id": id}, cartCk)
		if w.Code != http.StatusOK {
			t.Fatalf("add item %v: %s", w.Code, w.Body.String())
		}
	}
	body := decode(t, w)
	if got := body["total"]; got != float64(20.5) {
		t.Fatalf("total after two adds %v", got)
	}
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("same medicine must merge into one line, got %d", len(items))
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine_id": "missing"}, cartCk)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown medicine %v", w.Code)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/v1/cart/items/"+id, nil, cartCk)
	if w.Code != http.StatusOK {
		t.Fatalf("remove %v", w.Code)
	}
	if got := decode(t, w)["total"]; got != float64(10.25) {
		t.Fatalf("total after remove %v", got)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/checkout", nil, cartCk)
	if w.Code != http.StatusOK {
		t.Fatalf("checkout %v", w.Code)
	}
	if got := decode(t, w)["message"]; got != "Your order has been placed successfully." {
		t.Fatalf("checkout message %v", got)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/cart", nil, cartCk)
	if got := decode(t, w)["total"]; got != float64(0) {
		t.Fatalf("cart not cleared, total %v", got)
	}
}

func TestCart_SessionsIsolated(t *testing.T) {
	s := setupServer(t)
	admin := signUp(t, s, "admin@bloodconnect.com")
	w := doForm(t, s, http.MethodPost, "/api/v1/admin/medicines", map[string]string{
		"name": "Aspirin", "description": "d", "price": "10", "stock": "5",
	}, admin)
	id, _ := decode(t, w)["id"].(string)

	a := &http.Cookie{Name: "cart_session", Value: "browser-a"}
	b := &http.Cookie{Name: "cart_session", Value: "browser-b"}

	doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"medicine_id": id}, a)
	w = doJSON(t, s, http.MethodGet, "/api/v1/cart", nil, b)
	if got := decode(t, w)["total"]; got != float64(0) {
		t.Fatalf("carts leaked between sessions: %v", got)
	}
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health %v", w.Code)
	}
}
