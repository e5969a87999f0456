package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sb "smart_budget"
	"smart_budget/internal/service"
)

func newInsightsRouter(insights *mockInsights) *service.Service {
	return &service.Service{
		Authorization: &mockAuth{parseUsername: "alice"},
		Insights:      insights,
	}
}

func TestInsightHandlers_Summaries(t *testing.T) {
	insights := &mockInsights{summaries: []sb.MonthSummary{{Month: "2024-10", Savings: 1000}}}
	r := newTestRouter(newInsightsRouter(insights))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/summary", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Count     int               `json:"count"`
		Summaries []sb.MonthSummary `json:"summaries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 1 || resp.Summaries[0].Savings != 1000 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInsightHandlers_TrendsNotEnoughDataIs400(t *testing.T) {
	insights := &mockInsights{err: service.ErrNotEnoughData}
	r := newTestRouter(newInsightsRouter(insights))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/trends", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for <2 months, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestInsightHandlers_AdvicePassesMonth(t *testing.T) {
	insights := &mockInsights{insights: []sb.Insight{{Severity: sb.SeverityWarning, Message: "spend less"}}}
	r := newTestRouter(newInsightsRouter(insights))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/advice?month=2024-11", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if insights.lastMonth != "2024-11" || insights.lastUsername != "alice" {
		t.Fatalf("args not forwarded: month=%q user=%q", insights.lastMonth, insights.lastUsername)
	}
}

func TestInsightHandlers_AdviceDefaultsToCurrentMonth(t *testing.T) {
	insights := &mockInsights{}
	r := newTestRouter(newInsightsRouter(insights))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/advice", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if insights.lastMonth != sb.CurrentMonthKey() {
		t.Fatalf("expected current month default, got %q", insights.lastMonth)
	}
}
