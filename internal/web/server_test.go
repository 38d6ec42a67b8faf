package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/aporte/internal/domain"
	"go.uber.org/zap"
)

type rebalancerStub struct {
	portfolio *domain.Portfolio
	err       error

	gotHoldings     domain.Holdings
	gotContribution decimal.Decimal
}

func (s *rebalancerStub) Portfolio() *domain.Portfolio { return s.portfolio }

func (s *rebalancerStub) Rebalance(_ context.Context, h domain.Holdings, c decimal.Decimal) (*domain.Report, error) {
	s.gotHoldings, s.gotContribution = h, c
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Report{
		ID: uuid.New(),
		Result: &domain.AllocationResult{
			Reason:       domain.ReasonAllocated,
			Contribution: c,
			Recommendations: []domain.Recommendation{
				{AssetID: "A", Quantity: decimal.NewFromInt(5), Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(50)},
			},
			Spent:    decimal.NewFromInt(50),
			Leftover: c.Sub(decimal.NewFromInt(50)),
		},
	}, nil
}

type storeStub struct {
	records []domain.ReportRecord
	err     error
}

func (s storeStub) RecordsAfter(index uint64) ([]domain.ReportRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.ReportRecord
	for _, r := range s.records {
		if r.Index > index {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, rb *rebalancerStub, store reportReader) http.Handler {
	t.Helper()
	if rb.portfolio == nil {
		p, err := domain.NewPortfolio([]domain.Asset{
			{ID: "A", Name: "Asset A", TargetWeight: decimal.RequireFromString("0.7")},
			{ID: "CDI", Name: "Cash", TargetWeight: decimal.RequireFromString("0.3"), Kind: domain.AssetKindCash},
		})
		require.NoError(t, err)
		rb.portfolio = p
	}
	return NewServer(":0", zap.NewNop(), rb, store).Handler()
}

func TestServer_Index(t *testing.T) {
	h := newTestServer(t, &rebalancerStub{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "APORTE")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Portfolio(t *testing.T) {
	h := newTestServer(t, &rebalancerStub{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"id":"A"`)
	assert.Contains(t, body, `"kind":"cash"`)
	assert.Contains(t, body, `"target_sum":"1"`)
}

func TestServer_Allocate(t *testing.T) {
	rb := &rebalancerStub{}
	h := newTestServer(t, rb, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/allocate", strings.NewReader(`{"holdings":{"A":"3","CDI":12.5},"contribution":"100"}`))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"leftover":"50"`)
	assert.Equal(t, "100", rb.gotContribution.String())
	assert.Equal(t, "3", rb.gotHoldings["A"].String())
	assert.Equal(t, "12.5", rb.gotHoldings["CDI"].String())
}

func TestServer_AllocateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"contribution":`, nil, http.StatusBadRequest},
		{"unknown field", `{"amount":"10"}`, nil, http.StatusBadRequest},
		{"invalid contribution", `{"contribution":"0"}`, errors.Wrap(domain.ErrInvalidContribution, "got 0"), http.StatusBadRequest},
		{"invalid holdings", `{"contribution":"1"}`, domain.ErrInvalidHoldings, http.StatusBadRequest},
		{"no quotes", `{"contribution":"1"}`, domain.ErrNoQuotesAvailable, http.StatusBadGateway},
		{"missing quote", `{"contribution":"1"}`, domain.ErrMissingQuote, http.StatusBadGateway},
		{"configuration", `{"contribution":"1"}`, domain.ErrConfiguration, http.StatusInternalServerError},
		{"timeout", `{"contribution":"1"}`, errors.Wrap(context.DeadlineExceeded, "fetch quotes"), http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &rebalancerStub{err: tt.err}, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/allocate", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestServer_AllocateRejectsGet(t *testing.T) {
	h := newTestServer(t, &rebalancerStub{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/allocate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_AllocationStream(t *testing.T) {
	id := uuid.New()
	store := storeStub{records: []domain.ReportRecord{
		{Index: 1, Report: domain.Report{ID: id, Result: &domain.AllocationResult{Reason: domain.ReasonNothingToAllocate}}},
	}}
	h := newTestServer(t, &rebalancerStub{}, store)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/allocations/stream", nil).WithContext(ctx))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "id: 1\n")
	assert.Contains(t, body, "event: allocation\n")
	assert.Contains(t, body, id.String())
}

func TestServer_AllocationStreamUnavailable(t *testing.T) {
	h := newTestServer(t, &rebalancerStub{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/allocations/stream", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = newTestServer(t, &rebalancerStub{}, storeStub{err: errors.New("corrupt")})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/allocations/stream", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	h := newTestServer(t, &rebalancerStub{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
