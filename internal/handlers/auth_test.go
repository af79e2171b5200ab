package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasktrack/backend/internal/handlers"
	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func testCookies() handlers.CookieSettings {
	return handlers.CookieSettings{
		Name:     "jwt",
		MaxAge:   int((15 * 24 * time.Hour).Seconds()),
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
}

func setupAuthRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	tokens := services.NewTokenService("test-secret", time.Hour)
	cookies := testCookies()

	authHandler := handlers.NewAuthHandler(db, services.NewAuthService(), tokens, cookies)
	registerHandler := handlers.NewRegisterHandler(db, services.NewRegisterService(bcrypt.MinCost), tokens, cookies)

	router := gin.New()
	router.POST("/api/auth/signup", registerHandler.Signup)
	router.POST("/api/auth/signin", authHandler.Signin)
	router.POST("/api/auth/logout", authHandler.Logout)
	return db, router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestSignup_CreatesUserAndSetsCookie(t *testing.T) {
	db, router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	cookie := sessionCookie(w, "jwt")
	if cookie == nil || cookie.Value == "" {
		t.Fatal("Expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("Expected session cookie to be HttpOnly")
	}

	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("Response must not expose the password digest: %s", w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "alice@example.com").First(&user).Error; err != nil {
		t.Fatalf("Expected user to be persisted: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Error("Password must be stored hashed")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	_, router := setupAuthRouter(t)

	first := postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("Setup signup failed: %s", first.Body.String())
	}

	w := postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "duplicate_email") {
		t.Errorf("Expected duplicate_email error, got %s", w.Body.String())
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	_, router := setupAuthRouter(t)

	postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	w := postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "s3cret-pass",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "duplicate_username") {
		t.Errorf("Expected duplicate_username error, got %s", w.Body.String())
	}
}

func TestSignup_ShortPassword(t *testing.T) {
	_, router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestSignin_Success(t *testing.T) {
	_, router := setupAuthRouter(t)

	postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	w := postJSON(router, "/api/auth/signin", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if cookie := sessionCookie(w, "jwt"); cookie == nil || cookie.Value == "" {
		t.Error("Expected session cookie on signin")
	}
}

func TestSignin_EmailCaseInsensitive(t *testing.T) {
	_, router := setupAuthRouter(t)

	postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	w := postJSON(router, "/api/auth/signin", map[string]string{
		"email":    "Alice@Example.COM",
		"password": "s3cret-pass",
	})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestSignin_InvalidCredentials(t *testing.T) {
	_, router := setupAuthRouter(t)

	postJSON(router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	// Unknown email and wrong password must be indistinguishable.
	var bodies []string
	for _, creds := range []map[string]string{
		{"email": "nobody@example.com", "password": "s3cret-pass"},
		{"email": "alice@example.com", "password": "wrong-password"},
	} {
		w := postJSON(router, "/api/auth/signin", creds)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}

	if bodies[0] != bodies[1] {
		t.Errorf("Expected identical error bodies, got %q and %q", bodies[0], bodies[1])
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	_, router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	cookie := sessionCookie(w, "jwt")
	if cookie == nil {
		t.Fatal("Expected an expiring session cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("Expected cleared cookie, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestSignup_UsernamePaddedBelowMinimum(t *testing.T) {
	_, router := setupAuthRouter(t)

	// "ab " satisfies the three-character binding but trims to two.
	w := postJSON(router, "/api/auth/signup", map[string]string{
		"username": "ab ",
		"email":    "ab@example.com",
		"password": "s3cret-pass",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid_username") {
		t.Errorf("Expected invalid_username error, got %s", w.Body.String())
	}
}
