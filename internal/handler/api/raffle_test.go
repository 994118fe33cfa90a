//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"raffle-engine/internal/handler/api"
	resdto "raffle-engine/internal/handler/dto/response"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/pkg/errs"
	"raffle-engine/internal/usecase/commands"
	"raffle-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRaffleQueries struct {
	views   map[uuid.UUID]*queries.RaffleView
	listErr error
}

func (f *fakeRaffleQueries) ListActive(context.Context) ([]*queries.RaffleView, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*queries.RaffleView
	for _, v := range f.views {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRaffleQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.RaffleView, error) {
	v, ok := f.views[id]
	if !ok {
		return nil, infra.WrapRepoErr("raffle not found", nil, infra.KindNotFound)
	}
	return v, nil
}

type fakeDrawQueries struct {
	records map[uuid.UUID]*queries.DrawRecordView
}

func (f *fakeDrawQueries) RecordByRaffle(_ context.Context, raffleID uuid.UUID) (*queries.DrawRecordView, error) {
	rec, ok := f.records[raffleID]
	if !ok {
		return nil, infra.WrapRepoErr("draw record not found", nil, infra.KindNotFound)
	}
	return rec, nil
}

type fakePurchases struct {
	receipt *commands.PurchaseReceipt
	err     error
}

func (f *fakePurchases) CreatePurchase(context.Context, uuid.UUID, uuid.UUID) (*commands.PurchaseReceipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

func newTestRouter(raffles queries.RaffleQueries, draws queries.DrawQueries, purchases commands.PurchaseCommands) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := api.NewRaffleHandler(raffles, draws, purchases)

	router := gin.New()
	router.GET("/api/raffles", h.ListActive)
	router.GET("/api/raffles/:id", h.GetRaffle)
	router.GET("/api/raffles/:id/draw", h.GetDrawRecord)
	router.POST("/api/raffles/:id/purchases", h.CreatePurchase)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sampleView(id uuid.UUID) *queries.RaffleView {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &queries.RaffleView{
		ID:             id,
		Name:           "Console",
		Capacity:       100,
		SoldCount:      40,
		UnitPriceCents: 500,
		State:          "open",
		Progress:       40,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestGetRaffle(t *testing.T) {
	id := uuid.New()
	rq := &fakeRaffleQueries{views: map[uuid.UUID]*queries.RaffleView{id: sampleView(id)}}
	router := newTestRouter(rq, &fakeDrawQueries{}, &fakePurchases{})

	t.Run("returns the raffle view", func(t *testing.T) {
		rec := performJSON(t, router, http.MethodGet, "/api/raffles/"+id.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got resdto.RaffleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

		want := resdto.FromRaffleView(rq.views[id])
		assert.Empty(t, cmp.Diff(*want, got))
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := performJSON(t, router, http.MethodGet, "/api/raffles/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown raffle", func(t *testing.T) {
		rec := performJSON(t, router, http.MethodGet, "/api/raffles/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListActive(t *testing.T) {
	id := uuid.New()

	t.Run("lists active raffles", func(t *testing.T) {
		rq := &fakeRaffleQueries{views: map[uuid.UUID]*queries.RaffleView{id: sampleView(id)}}
		router := newTestRouter(rq, &fakeDrawQueries{}, &fakePurchases{})

		rec := performJSON(t, router, http.MethodGet, "/api/raffles", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []resdto.RaffleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, id, got[0].ID)
	})

	t.Run("read store failure maps to 500", func(t *testing.T) {
		rq := &fakeRaffleQueries{listErr: errs.New("connection refused")}
		router := newTestRouter(rq, &fakeDrawQueries{}, &fakePurchases{})

		rec := performJSON(t, router, http.MethodGet, "/api/raffles", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetDrawRecord(t *testing.T) {
	raffleID := uuid.New()
	winner := 38
	winnerUser := uuid.New()
	record := &queries.DrawRecordView{
		ID:                   uuid.New(),
		RaffleID:             raffleID,
		WinningNumber:        &winner,
		WinnerUserID:         &winnerUser,
		Seed:                 raffleID.String() + "-2024-06-01T12:10:00Z-100",
		TotalNumbers:         100,
		ParticipantCount:     62,
		TotalCollectedCents:  50000,
		PrizeCostCents:       40000,
		EstimatedProfitCents: 10000,
		DrawnAt:              time.Date(2024, 6, 1, 12, 10, 0, 0, time.UTC),
	}
	dq := &fakeDrawQueries{records: map[uuid.UUID]*queries.DrawRecordView{raffleID: record}}
	router := newTestRouter(&fakeRaffleQueries{}, dq, &fakePurchases{})

	t.Run("publishes the recomputable record", func(t *testing.T) {
		rec := performJSON(t, router, http.MethodGet, "/api/raffles/"+raffleID.String()+"/draw", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got resdto.DrawRecordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Empty(t, cmp.Diff(*resdto.FromDrawRecordView(record), got))
	})

	t.Run("no record yet", func(t *testing.T) {
		rec := performJSON(t, router, http.MethodGet, "/api/raffles/"+uuid.NewString()+"/draw", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreatePurchase(t *testing.T) {
	raffleID := uuid.New()
	reqBody := gin.H{"user_id": uuid.NewString()}

	t.Run("created purchase returns the receipt", func(t *testing.T) {
		receipt := &commands.PurchaseReceipt{
			PurchaseID:     uuid.New(),
			RaffleID:       raffleID,
			Quantity:       2,
			UnitPriceCents: 500,
			AmountCents:    1000,
		}
		router := newTestRouter(&fakeRaffleQueries{}, &fakeDrawQueries{}, &fakePurchases{receipt: receipt})

		rec := performJSON(t, router, http.MethodPost, "/api/raffles/"+raffleID.String()+"/purchases", reqBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got resdto.PurchaseResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Empty(t, cmp.Diff(*resdto.FromPurchaseReceipt(receipt), got))
	})

	t.Run("missing user id", func(t *testing.T) {
		router := newTestRouter(&fakeRaffleQueries{}, &fakeDrawQueries{}, &fakePurchases{})
		rec := performJSON(t, router, http.MethodPost, "/api/raffles/"+raffleID.String()+"/purchases", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps usecase errors to statuses", func(t *testing.T) {
		testCases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "raffle not found", err: commands.ErrRaffleNotFound, expectCode: http.StatusNotFound},
			{name: "locked out", err: commands.ErrRaffleLockedOut, expectCode: http.StatusConflict},
			{name: "closed", err: commands.ErrRaffleClosed, expectCode: http.StatusConflict},
			{name: "database down", err: errs.New("connection refused"), expectCode: http.StatusInternalServerError},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				router := newTestRouter(&fakeRaffleQueries{}, &fakeDrawQueries{}, &fakePurchases{err: tc.err})
				rec := performJSON(t, router, http.MethodPost, "/api/raffles/"+raffleID.String()+"/purchases", reqBody)
				assert.Equal(t, tc.expectCode, rec.Code)
			})
		}
	})
}
