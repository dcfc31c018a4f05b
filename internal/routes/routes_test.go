package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillbridge/registration-api/internal/config"
	dbpkg "github.com/skillbridge/registration-api/internal/db"
	"github.com/skillbridge/registration-api/internal/models"
)

const testPassword = "super-secret"

// newRouter monta a API sobre um banco vazio (sem usuários): é o estado
// em que o bootstrap ainda está aberto.
func newRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := dbpkg.SeedSettings(db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:           "test-secret",
		ExecutorPollSeconds: 3600,
	}

	r := gin.New()
	RegisterRoutes(r, db, cfg)
	return r, db
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	r, db := newRouter(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	users := []models.User{
		{Name: "Admin", Email: "admin@example.test", PasswordHash: string(hash), Role: models.RoleAdmin},
		{Name: "Staff", Email: "staff@example.test", PasswordHash: string(hash), Role: models.RoleStaff},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": testPassword,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.Token
}

func TestPublicRegistrationStatus(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/public/registration-status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp["registration_open"] != true {
		t.Fatalf("expected registration open, got %v", resp)
	}
	if resp["registration_fee"] != "5000" {
		t.Fatalf("expected seeded fee, got %v", resp["registration_fee"])
	}
}

func TestSafeActionRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/me/safe-actions", "", gin.H{
		"action_id": "change_registration_fee",
		"new_value": "7500",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStaffRoleCannotInvoke(t *testing.T) {
	r, _ := setupRouter(t)
	token := login(t, r, "staff@example.test")

	w := doJSON(t, r, http.MethodPost, "/api/me/safe-actions", token, gin.H{
		"action_id":     "change_registration_fee",
		"justification": "testing",
		"new_value":     "7500",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d %s", w.Code, w.Body.String())
	}
}

func TestAdminInvokesTier2EndToEnd(t *testing.T) {
	r, db := setupRouter(t)
	token := login(t, r, "admin@example.test")

	w := doJSON(t, r, http.MethodPost, "/api/me/safe-actions", token, gin.H{
		"action_id":     "change_registration_fee",
		"justification": "fee increase for materials",
		"new_value":     "7500",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("invoke failed: %d %s", w.Code, w.Body.String())
	}

	var setting models.Setting
	if err := db.First(&setting, "key = ?", models.SettingRegistrationFee).Error; err != nil {
		t.Fatalf("failed to read setting: %v", err)
	}
	if setting.Value != "7500" {
		t.Fatalf("expected mutated fee, got %s", setting.Value)
	}

	// histórico e audit visíveis pelas rotas de leitura
	w = doJSON(t, r, http.MethodGet, "/api/me/settings/history?key=registration_fee", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history failed: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/me/audit-logs?action_type=change_registration_fee", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("audit listing failed: %d", w.Code)
	}
}

func TestTier3MissingJustificationRejected(t *testing.T) {
	r, _ := setupRouter(t)
	token := login(t, r, "admin@example.test")

	w := doJSON(t, r, http.MethodPost, "/api/me/safe-actions", token, gin.H{
		"action_id": "freeze_system",
		"password":  testPassword,
		"new_value": "true",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}
}

func TestTier3ScheduleAndCancelFlow(t *testing.T) {
	r, _ := setupRouter(t)
	token := login(t, r, "admin@example.test")

	w := doJSON(t, r, http.MethodPost, "/api/me/safe-actions", token, gin.H{
		"action_id":     "freeze_system",
		"justification": "scheduled outage",
		"password":      testPassword,
		"new_value":     "true",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d %s", w.Code, w.Body.String())
	}

	var invokeResp struct {
		PendingID string `json:"pending_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &invokeResp); err != nil || invokeResp.PendingID == "" {
		t.Fatalf("missing pending id: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPatch, "/api/me/pending-actions/"+invokeResp.PendingID+"/cancel", token, gin.H{
		"reason": "outage postponed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("cancel failed: %d %s", w.Code, w.Body.String())
	}

	// segundo cancel: estado inválido → 409
	w = doJSON(t, r, http.MethodPatch, "/api/me/pending-actions/"+invokeResp.PendingID+"/cancel", token, gin.H{
		"reason": "again",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double cancel, got %d", w.Code)
	}
}

func TestBootstrapCreatesFirstSuperadmin(t *testing.T) {
	r, db := newRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Founder",
		"email":    "founder@example.test",
		"password": testPassword,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("bootstrap failed: %d %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.First(&user, "email = ?", "founder@example.test").Error; err != nil {
		t.Fatalf("bootstrap user not persisted: %v", err)
	}
	if user.Role != models.RoleSuperadmin {
		t.Fatalf("expected superadmin, got %s", user.Role)
	}

	// segunda tentativa: a base já tem usuário, cadastro público fecha
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Intruder",
		"email":    "intruder@example.test",
		"password": testPassword,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after bootstrap, got %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterClosedWhenUsersExist(t *testing.T) {
	r, db := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Anon",
		"email":    "anon@example.test",
		"password": testPassword,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("anonymous register must be closed, got %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Error != "registration_closed" {
		t.Fatalf("expected registration_closed, got %q", resp.Error)
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", "anon@example.test").Count(&count)
	if count != 0 {
		t.Fatalf("closed register must not create users")
	}
}

func TestAdminCreatesStaffUser(t *testing.T) {
	r, _ := setupRouter(t)
	token := login(t, r, "admin@example.test")

	w := doJSON(t, r, http.MethodPost, "/api/me/users", token, gin.H{
		"name":     "New Staff",
		"email":    "newstaff@example.test",
		"password": testPassword,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("admin create user failed: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.User.Role != models.RoleStaff {
		t.Fatalf("expected default staff role, got %q", resp.User.Role)
	}
}

func TestStaffCannotCreateUsers(t *testing.T) {
	r, _ := setupRouter(t)
	token := login(t, r, "staff@example.test")

	w := doJSON(t, r, http.MethodPost, "/api/me/users", token, gin.H{
		"name":     "Sneaky",
		"email":    "sneaky@example.test",
		"password": testPassword,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d %s", w.Code, w.Body.String())
	}
}
