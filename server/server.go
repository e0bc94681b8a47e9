package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"nhbfaucet/faucet"
	"nhbfaucet/server/middleware"
)

// infoRecentLimit bounds how many recent claims the info endpoint reports.
const infoRecentLimit = 10

// Server exposes the faucet over HTTP.
type Server struct {
	faucet  *faucet.Service
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

func New(svc *faucet.Service, limiter *middleware.RateLimiter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{faucet: svc, limiter: limiter, logger: logger}
}

// Router assembles the faucet routes behind CORS, with the claim endpoint
// rate limited per client.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(middleware.CORSConfig{}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/info", s.handleInfo)
		if s.limiter != nil {
			api.With(s.limiter.Middleware()).Post("/claim", s.handleClaim)
		} else {
			api.Post("/claim", s.handleClaim)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

type infoResponse struct {
	Balance      float64             `json:"balance"`
	Wallet       string              `json:"wallet"`
	ClaimAmount  float64             `json:"claimAmount"`
	TotalClaims  uint64              `json:"totalClaims"`
	TotalSent    float64             `json:"totalSent"`
	RecentClaims []recentClaimsEntry `json:"recentClaims"`
}

type recentClaimsEntry struct {
	Wallet string `json:"wallet"`
	Time   int64  `json:"time"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	snap := s.faucet.Snapshot()
	balance := s.faucet.Balance(r.Context())

	recent := snap.Recent
	if len(recent) > infoRecentLimit {
		recent = recent[len(recent)-infoRecentLimit:]
	}
	entries := make([]recentClaimsEntry, 0, len(recent))
	for _, rec := range recent {
		entries = append(entries, recentClaimsEntry{
			Wallet: rec.Wallet,
			Time:   rec.Time.UnixMilli(),
		})
	}

	writeJSON(w, http.StatusOK, infoResponse{
		Balance:      weiToNHB(balance),
		Wallet:       s.faucet.Account(),
		ClaimAmount:  weiToNHB(s.faucet.ClaimAmount()),
		TotalClaims:  snap.TotalClaims,
		TotalSent:    weiToNHB(snap.TotalDispensed),
		RecentClaims: entries,
	})
}

type claimRequest struct {
	Wallet string `json:"wallet"`
}

type claimResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, claimResponse{Success: false, Error: "Invalid wallet address"})
		return
	}

	txHash, err := s.faucet.Claim(r.Context(), req.Wallet)
	if err != nil {
		s.writeClaimError(w, req.Wallet, err)
		return
	}

	writeJSON(w, http.StatusOK, claimResponse{Success: true, TxHash: txHash})
}

// writeClaimError maps orchestrator outcomes onto the HTTP surface. Internal
// failure detail never reaches the caller.
func (s *Server) writeClaimError(w http.ResponseWriter, wallet string, err error) {
	var cooldown *faucet.CooldownActiveError
	switch {
	case errors.Is(err, faucet.ErrInvalidWallet):
		writeJSON(w, http.StatusBadRequest, claimResponse{Success: false, Error: "Invalid wallet address"})
	case errors.Is(err, faucet.ErrInvalidAddress):
		writeJSON(w, http.StatusBadRequest, claimResponse{Success: false, Error: "Invalid NHB address"})
	case errors.As(err, &cooldown):
		writeJSON(w, http.StatusTooManyRequests, claimResponse{
			Success: false,
			Error:   fmt.Sprintf("Please wait %d more hours before claiming again", cooldown.HoursRemaining),
		})
	case errors.Is(err, faucet.ErrInsufficientBalance), errors.Is(err, faucet.ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, claimResponse{Success: false, Error: "Faucet is empty! Check back later."})
	default:
		s.logger.Error("claim failed", "wallet", wallet, "error", err)
		writeJSON(w, http.StatusInternalServerError, claimResponse{Success: false, Error: "Transaction failed. Try again."})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func weiToNHB(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	return decimal.NewFromBigInt(v, -18).InexactFloat64()
}
