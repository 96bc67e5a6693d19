package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hradmin/internal/app/server"
	"hradmin/internal/domain/auth"
	"hradmin/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		FrontendDir:        "frontend/dist",
		SessionCookieName:  "hr_session",
		SessionTTL:         time.Hour,
		SeedAdminUsername:  "admin",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
	}
}

func startApp(t *testing.T) (*httptest.Server, *server.App, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, app, cfg
}

// createUser inserts a login directly; there is no user administration
// endpoint to drive this through.
func createUser(t *testing.T, app *server.App, username, password, role string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	var id string
	err = app.DB.QueryRow(context.Background(), `
    INSERT INTO users (username, email, password_hash, first_name, last_name, role_id)
    VALUES ($1, $2, $3, 'Journey', 'User', (SELECT id FROM roles WHERE name = $4))
    RETURNING id
  `, username, username+"@example.com", hash, role).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, url, err)
	}
	return res.StatusCode, env
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) string {
	t.Helper()
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login failed with status %d", status)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.Token == "" {
		t.Fatalf("login returned no token: %v", err)
	}
	return payload.Token
}

func createdID(t *testing.T, env envelope) string {
	t.Helper()
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.ID == "" {
		t.Fatalf("expected created id in response: %v", err)
	}
	return payload.ID
}

func TestEmployeeAttendanceAndLeaveJourney(t *testing.T) {
	ts, _, cfg := startApp(t)
	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/departments", token, map[string]string{
		"name":        fmt.Sprintf("Engineering-%d", suffix),
		"description": "builds things",
	})
	if status != http.StatusCreated {
		t.Fatalf("create department: status %d", status)
	}

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees", token, map[string]string{
		"firstName": "Journey",
		"lastName":  "Tester",
		"email":     fmt.Sprintf("journey-%d@example.com", suffix),
		"position":  "Engineer",
	})
	if status != http.StatusCreated {
		t.Fatalf("create employee: status %d", status)
	}
	employeeID := createdID(t, env)

	// First check-in of the day succeeds, the second is rejected.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees/"+employeeID+"/check_in", token, nil)
	if status != http.StatusCreated {
		t.Fatalf("check_in: status %d", status)
	}
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees/"+employeeID+"/check_in", token, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate check_in: status %d, want 400", status)
	}
	if env.Error == nil || env.Error.Code != "already_checked_in" {
		t.Fatalf("duplicate check_in error = %+v", env.Error)
	}

	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees/"+employeeID+"/check_out", token, nil)
	if status != http.StatusOK {
		t.Fatalf("check_out: status %d", status)
	}

	today := time.Now().Format("2006-01-02")
	nextWeek := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leaves", token, map[string]string{
		"employeeId": employeeID,
		"leaveType":  "VACATION",
		"startDate":  today,
		"endDate":    nextWeek,
		"reason":     "integration journey",
	})
	if status != http.StatusCreated {
		t.Fatalf("create leave: status %d", status)
	}
	leaveID := createdID(t, env)

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/"+leaveID+"/approve", token, nil)
	if status != http.StatusOK {
		t.Fatalf("approve leave: status %d", status)
	}
	var approved struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &approved); err != nil || approved.Status != "APPROVED" {
		t.Fatalf("approve leave status = %q, want APPROVED", approved.Status)
	}

	// A second approval must fail, the leave already left PENDING.
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/"+leaveID+"/approve", token, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("re-approve leave: status %d, want 400", status)
	}
	if env.Error == nil || env.Error.Code != "invalid_state" {
		t.Fatalf("re-approve error = %+v", env.Error)
	}
}

func TestFinanceSummaryJourney(t *testing.T) {
	ts, _, cfg := startApp(t)
	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/transaction-categories", token, map[string]string{
		"name": fmt.Sprintf("Sales-%d", suffix),
		"type": "INCOME",
	})
	if status != http.StatusCreated {
		t.Fatalf("create category: status %d", status)
	}
	categoryID := createdID(t, env)

	today := time.Now().Format("2006-01-02")
	for _, tx := range []map[string]string{
		{"title": "invoice", "amount": "100.00", "type": "INCOME", "categoryId": categoryID, "paymentMethod": "BANK_TRANSFER", "transactionDate": today},
		{"title": "supplies", "amount": "40.00", "type": "EXPENSE", "paymentMethod": "CASH", "transactionDate": today},
	} {
		status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/transactions", token, tx)
		if status != http.StatusCreated {
			t.Fatalf("create transaction %q: status %d", tx["title"], status)
		}
	}

	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/transactions/summary", token, nil)
	if status != http.StatusOK {
		t.Fatalf("summary: status %d", status)
	}
	var summary struct {
		TotalIncome  string `json:"totalIncome"`
		TotalExpense string `json:"totalExpense"`
		NetBalance   string `json:"netBalance"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	// Monthly summary without params is a validation error.
	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/transactions/monthly-summary", token, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("monthly-summary without params: status %d, want 400", status)
	}
	if env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("monthly-summary error = %+v", env.Error)
	}

	now := time.Now()
	url := fmt.Sprintf("%s/api/v1/transactions/monthly-summary?year=%d&month=%d", ts.URL, now.Year(), int(now.Month()))
	status, _ = doJSON(t, client, http.MethodGet, url, token, nil)
	if status != http.StatusOK {
		t.Fatalf("monthly-summary: status %d", status)
	}
}

func TestCompanyStatsRequiresNoAuth(t *testing.T) {
	ts, _, _ := startApp(t)
	client := ts.Client()

	status, env := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/company-stats", "", nil)
	if status != http.StatusOK {
		t.Fatalf("company-stats: status %d, want 200 without credentials", status)
	}
	var stats struct {
		TotalEmployees   int `json:"totalEmployees"`
		TotalDepartments int `json:"totalDepartments"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
}

func TestLeaveVisibilityScopedToOwnEmployee(t *testing.T) {
	ts, app, cfg := startApp(t)
	client := ts.Client()
	admin := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	workerName := fmt.Sprintf("worker-%d", suffix)
	workerPassword := "Worker123!"
	workerUserID := createUser(t, app, workerName, workerPassword, "employee")

	var employeeIDs [2]string
	for i, payload := range []map[string]string{
		{"firstName": "Own", "lastName": "Leave", "email": fmt.Sprintf("own-%d@example.com", suffix), "userId": workerUserID},
		{"firstName": "Other", "lastName": "Leave", "email": fmt.Sprintf("other-%d@example.com", suffix)},
	} {
		status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees", admin, payload)
		if status != http.StatusCreated {
			t.Fatalf("create employee %d: status %d", i, status)
		}
		employeeIDs[i] = createdID(t, env)
	}

	today := time.Now().Format("2006-01-02")
	nextWeek := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	var leaveIDs [2]string
	for i, employeeID := range employeeIDs {
		status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leaves", admin, map[string]string{
			"employeeId": employeeID,
			"leaveType":  "VACATION",
			"startDate":  today,
			"endDate":    nextWeek,
			"reason":     "scoping journey",
		})
		if status != http.StatusCreated {
			t.Fatalf("create leave %d: status %d", i, status)
		}
		leaveIDs[i] = createdID(t, env)
	}

	worker := login(t, client, ts.URL, workerName, workerPassword)

	// The listing shows the worker only their own employee's leaves.
	status, env := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/leaves", worker, nil)
	if status != http.StatusOK {
		t.Fatalf("list leaves as worker: status %d", status)
	}
	var listed []struct {
		ID         string `json:"id"`
		EmployeeID string `json:"employeeId"`
	}
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode leaves: %v", err)
	}
	sawOwn := false
	for _, lv := range listed {
		if lv.EmployeeID != employeeIDs[0] {
			t.Fatalf("worker listing leaked leave %s of employee %s", lv.ID, lv.EmployeeID)
		}
		if lv.ID == leaveIDs[0] {
			sawOwn = true
		}
	}
	if !sawOwn {
		t.Fatalf("worker listing missed their own leave %s", leaveIDs[0])
	}

	// Another employee's leave is invisible in every form.
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/leaves/"+leaveIDs[1], worker, nil)
	if status != http.StatusNotFound {
		t.Fatalf("get foreign leave: status %d, want 404", status)
	}
	status, _ = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/leaves/"+leaveIDs[1], worker, map[string]string{
		"leaveType": "SICK",
		"startDate": today,
		"endDate":   nextWeek,
	})
	if status != http.StatusNotFound {
		t.Fatalf("update foreign leave: status %d, want 404", status)
	}
	status, _ = doJSON(t, client, http.MethodDelete, ts.URL+"/api/v1/leaves/"+leaveIDs[1], worker, nil)
	if status != http.StatusNotFound {
		t.Fatalf("delete foreign leave: status %d, want 404", status)
	}

	// Their own leave stays reachable, and the admin still sees everything.
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/leaves/"+leaveIDs[0], worker, nil)
	if status != http.StatusOK {
		t.Fatalf("get own leave: status %d", status)
	}
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/leaves/"+leaveIDs[1], admin, nil)
	if status != http.StatusOK {
		t.Fatalf("get leave as admin: status %d", status)
	}
}
