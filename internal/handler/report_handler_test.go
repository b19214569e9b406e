package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/middleware"
	"github.com/lcouture/pennywise/pennywise-backend/internal/service"
	"github.com/lcouture/pennywise/pennywise-backend/internal/testutil"
)

func newReportTestHandler() (*ReportHandler, *testutil.MockBudgetRepository, *testutil.MockTransactionRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	tagRepo := testutil.NewMockTagRepository()
	transactionRepo := testutil.NewMockTransactionRepository(budgetRepo)
	balanceService := service.NewBalanceService(budgetRepo, transactionRepo)
	reportService := service.NewReportService(budgetRepo, tagRepo, transactionRepo, balanceService)
	return NewReportHandler(reportService), budgetRepo, transactionRepo
}

func reportRequest(target, kind string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues(kind)
	c.Set(middleware.ContextKeyUserID, userID)
	return c, rec
}

func TestGetReport_Success(t *testing.T) {
	handler, budgetRepo, transactionRepo := newReportTestHandler()

	userID := uuid.New()
	food := budgetRepo.AddBudget(&domain.Budget{UserID: userID, Name: "food"})
	transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: food.ID,
		Amount:   -5000,
		Date:     time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})

	c, rec := reportRequest("/api/v1/reports/transaction_count?time_bucket_size=one_day&start=2025-01-01&end=2025-01-03", "transaction_count", userID)
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Dates []string `json:"dates"`
		Data  []int64  `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Dates) != 3 {
		t.Fatalf("Expected 3 dates, got %d", len(response.Dates))
	}
	if response.Dates[0] != "2025-01-01" {
		t.Errorf("Expected first date 2025-01-01, got %s", response.Dates[0])
	}
	want := []int64{0, 1, 0}
	for i, value := range want {
		if response.Data[i] != value {
			t.Errorf("Expected data[%d] = %d, got %d", i, value, response.Data[i])
		}
	}
}

func TestGetReport_MissingBucketSize(t *testing.T) {
	handler, _, _ := newReportTestHandler()

	c, rec := reportRequest("/api/v1/reports/income", "income", uuid.New())
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetReport_InvalidBucketSize(t *testing.T) {
	handler, _, _ := newReportTestHandler()

	c, rec := reportRequest("/api/v1/reports/income?time_bucket_size=fortnight", "income", uuid.New())
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetReport_UnknownKind(t *testing.T) {
	handler, _, _ := newReportTestHandler()

	c, rec := reportRequest("/api/v1/reports/bogus?time_bucket_size=one_day", "bogus", uuid.New())
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetReport_HalfOpenRange(t *testing.T) {
	handler, _, _ := newReportTestHandler()

	c, rec := reportRequest("/api/v1/reports/income?time_bucket_size=one_day&start=2025-01-01", "income", uuid.New())
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetReport_EndBeforeStart(t *testing.T) {
	handler, _, _ := newReportTestHandler()

	c, rec := reportRequest("/api/v1/reports/transaction_count?time_bucket_size=one_day&start=2025-01-08&end=2025-01-01", "transaction_count", uuid.New())
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var response struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Errors) != 1 || response.Errors[0].Field != "end" {
		t.Errorf("Expected validation error on field end, got %v", response.Errors)
	}
}

func TestGetReport_MalformedEndDate(t *testing.T) {
	handler, _, _ := newReportTestHandler()

	c, rec := reportRequest("/api/v1/reports/income?time_bucket_size=one_day&start=2025-01-01&end=January+8th", "income", uuid.New())
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var response struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Errors) != 1 || response.Errors[0].Field != "end" {
		t.Errorf("Expected validation error on field end, got %v", response.Errors)
	}
}

func TestGetReport_EmptyUser(t *testing.T) {
	handler, _, _ := newReportTestHandler()

	c, rec := reportRequest("/api/v1/reports/transaction_count?time_bucket_size=one", "transaction_count", uuid.New())
	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Dates []string `json:"dates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Dates) != 0 {
		t.Errorf("Expected empty dates, got %v", response.Dates)
	}
}
