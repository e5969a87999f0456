package handlers

import (
	"context"
	"net/http"

	sb "smart_budget"
	"smart_budget/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseUsername string
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastSignUpEmail    string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password, email string) error {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	m.lastSignUpEmail = email
	return m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseUsername, m.parseErr
}

type mockBudget struct {
	months     []sb.MonthSummary
	record     sb.BudgetRecord
	categories []string
	exportData []byte
	err        error

	lastUsername string
	lastMonth    string
	lastRecord   sb.BudgetRecord
	lastCategory string
	saveCalls    int
}

func (m *mockBudget) ListMonths(ctx context.Context, username string) ([]sb.MonthSummary, error) {
	m.lastUsername = username
	return m.months, m.err
}
func (m *mockBudget) GetMonth(ctx context.Context, username, month string) (sb.BudgetRecord, error) {
	m.lastUsername, m.lastMonth = username, month
	return m.record, m.err
}
func (m *mockBudget) SaveMonth(ctx context.Context, username, month string, rec sb.BudgetRecord) error {
	m.lastUsername, m.lastMonth, m.lastRecord = username, month, rec
	m.saveCalls++
	return m.err
}
func (m *mockBudget) Categories(ctx context.Context, username string) ([]string, error) {
	m.lastUsername = username
	return m.categories, m.err
}
func (m *mockBudget) AddCategory(ctx context.Context, username, name string) error {
	m.lastUsername, m.lastCategory = username, name
	return m.err
}
func (m *mockBudget) RemoveCategory(ctx context.Context, username, name string) error {
	m.lastUsername, m.lastCategory = username, name
	return m.err
}
func (m *mockBudget) Export(ctx context.Context, username string) ([]byte, error) {
	m.lastUsername = username
	return m.exportData, m.err
}

type mockInsights struct {
	summaries []sb.MonthSummary
	trends    []sb.Trend
	insights  []sb.Insight
	summary   sb.MonthSummary
	err       error

	lastUsername string
	lastMonth    string
}

func (m *mockInsights) Summaries(ctx context.Context, username string) ([]sb.MonthSummary, error) {
	m.lastUsername = username
	return m.summaries, m.err
}
func (m *mockInsights) Trends(ctx context.Context, username string) ([]sb.Trend, error) {
	m.lastUsername = username
	return m.trends, m.err
}
func (m *mockInsights) Advise(ctx context.Context, username, month string) ([]sb.Insight, error) {
	m.lastUsername, m.lastMonth = username, month
	return m.insights, m.err
}
func (m *mockInsights) MonthSummary(ctx context.Context, username, month string) (sb.MonthSummary, error) {
	m.lastUsername, m.lastMonth = username, month
	return m.summary, m.err
}

type mockActivity struct {
	resp       []sb.ActivityEvent
	err        error
	lastFilter service.ActivityFilter
	lastUser   string
}

func (m *mockActivity) List(ctx context.Context, username string, f service.ActivityFilter) ([]sb.ActivityEvent, error) {
	m.lastUser = username
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
