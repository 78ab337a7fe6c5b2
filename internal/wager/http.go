package wager

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/updown/bet-engine/internal/bank"
	"github.com/updown/bet-engine/internal/metrics"
	"github.com/updown/bet-engine/internal/model"
	"github.com/updown/bet-engine/internal/risk"
)

// --- Request/Response types ---

// PlaceBetRequest is the JSON body for POST /bets.
type PlaceBetRequest struct {
	Bettor        string           `json:"bettor"`
	Stake         int64            `json:"stake"`
	Prediction    model.Prediction `json:"prediction"`
	DurationSecs  int64            `json:"duration_secs"`
	ObservedPrice int64            `json:"observed_price"`
}

// ResolveBetRequest is the JSON body for POST /bets/{betID}/resolve.
type ResolveBetRequest struct {
	FinalPrice int64  `json:"final_price"`
	Resolver   string `json:"resolver"`
}

// SubmitPriceRequest is the JSON body for POST /prices.
type SubmitPriceRequest struct {
	Source    string `json:"source"`
	Price     int64  `json:"price"`
	Timestamp int64  `json:"timestamp,omitempty"` // 0 → current derived time
}

// StatsResponse is an account's stats plus its derived return rate:
// total won as a percentage of total wagered.
type StatsResponse struct {
	model.AccountStats
	ReturnPct string `json:"return_pct"`
}

// PoolResponse is a day pool snapshot plus derived side shares.
type PoolResponse struct {
	model.DailyPool
	RiseShare string `json:"rise_share_pct"`
	DropShare string `json:"drop_share_pct"`
}

// --- HTTP Handlers ---

// HandlePlaceBet handles POST /api/v1/bets.
func (s *Service) HandlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Bettor == "" {
		writeError(w, "bettor is required", http.StatusBadRequest)
		return
	}

	bet, err := s.PlaceBet(r.Context(), req.Bettor, req.Stake, req.Prediction, req.DurationSecs, req.ObservedPrice)
	if err != nil {
		if errors.Is(err, risk.ErrPoolImbalance) {
			metrics.RiskRejections.Inc()
		}
		writeError(w, err.Error(), placeStatus(err))
		return
	}

	metrics.BetsPlaced.WithLabelValues(string(bet.Prediction)).Inc()
	metrics.StakeVolume.WithLabelValues(string(bet.Prediction)).Add(float64(bet.Stake))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(bet)
}

// HandleResolveBet handles POST /api/v1/bets/{betID}/resolve.
func (s *Service) HandleResolveBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "betID"), 10, 64)
	if err != nil {
		writeError(w, "invalid bet id", http.StatusBadRequest)
		return
	}

	var req ResolveBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Resolver == "" {
		req.Resolver = "resolver"
	}

	bet, err := s.ResolveBet(r.Context(), id, req.FinalPrice, req.Resolver)
	if err != nil {
		writeError(w, err.Error(), resolveStatus(err))
		return
	}

	metrics.BetsResolved.WithLabelValues(string(bet.Outcome)).Inc()
	metrics.HouseBalance.Set(float64(s.Counters().HouseBalance))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bet)
}

// HandleGetBet handles GET /api/v1/bets/{betID}.
func (s *Service) HandleGetBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "betID"), 10, 64)
	if err != nil {
		writeError(w, "invalid bet id", http.StatusBadRequest)
		return
	}

	bet, err := s.GetBet(r.Context(), id)
	if err != nil {
		writeError(w, "bet not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bet)
}

// HandleExpiredBets handles GET /api/v1/bets/expired.
func (s *Service) HandleExpiredBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.ExpiredBets(r.Context())
	if err != nil {
		writeError(w, "failed to list expired bets", http.StatusInternalServerError)
		return
	}
	if bets == nil {
		bets = []model.Bet{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bets)
}

// HandleAccountStats handles GET /api/v1/accounts/{account}/stats.
func (s *Service) HandleAccountStats(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	st, err := s.AccountStats(r.Context(), account)
	if err != nil {
		writeError(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	resp := StatsResponse{AccountStats: *st, ReturnPct: "0"}
	if st.TotalWagered > 0 {
		won := decimal.NewFromInt(st.TotalWon)
		wagered := decimal.NewFromInt(st.TotalWagered)
		resp.ReturnPct = won.Mul(decimal.NewFromInt(100)).Div(wagered).Round(2).String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandlePool handles GET /api/v1/pools/{day}. The day parameter is any
// unix timestamp inside the wanted bucket.
func (s *Service) HandlePool(w http.ResponseWriter, r *http.Request) {
	ts, err := strconv.ParseInt(chi.URLParam(r, "day"), 10, 64)
	if err != nil {
		writeError(w, "invalid day", http.StatusBadRequest)
		return
	}

	pool, err := s.PoolForDay(r.Context(), ts)
	if err != nil {
		writeError(w, "failed to load pool", http.StatusInternalServerError)
		return
	}

	resp := PoolResponse{DailyPool: *pool, RiseShare: "0", DropShare: "0"}
	if pool.TotalVolume > 0 {
		total := decimal.NewFromInt(pool.TotalVolume)
		hundred := decimal.NewFromInt(100)
		resp.RiseShare = decimal.NewFromInt(pool.RiseVolume).Mul(hundred).Div(total).Round(2).String()
		resp.DropShare = decimal.NewFromInt(pool.DropVolume).Mul(hundred).Div(total).Round(2).String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleSubmitPrice handles POST /api/v1/prices.
func (s *Service) HandleSubmitPrice(w http.ResponseWriter, r *http.Request) {
	var req SubmitPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.SubmitPrice(r.Context(), req.Source, req.Price, req.Timestamp); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUnauthorizedFeed) {
			status = http.StatusForbidden
		}
		writeError(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// HandleLatestPrice handles GET /api/v1/prices/latest.
func (s *Service) HandleLatestPrice(w http.ResponseWriter, r *http.Request) {
	point, err := s.LatestPrice()
	if err != nil {
		writeError(w, "no price recorded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(point)
}

// --- Error mapping ---

func placeStatus(err error) int {
	switch {
	case errors.Is(err, ErrBetsPaused):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidStake),
		errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidPrediction),
		errors.Is(err, ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, risk.ErrPoolImbalance),
		errors.Is(err, bank.ErrInsufficientFunds):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func resolveStatus(err error) int {
	switch {
	case errors.Is(err, ErrBetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrNotExpired),
		errors.Is(err, ErrTransferFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
