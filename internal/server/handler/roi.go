package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/polysnap/polysnap/internal/quant"
)

// ROIHandler serves the stateless round-trip ROI calculator.
type ROIHandler struct {
	logger *slog.Logger
}

// NewROIHandler creates an ROIHandler.
func NewROIHandler(logger *slog.Logger) *ROIHandler {
	return &ROIHandler{logger: logger}
}

// roiRequest carries the scenario inputs. Missing fields keep the defaults of
// a 50-cent entry, settlement exit, and 100 shares.
type roiRequest struct {
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
	Shares    float64 `json:"shares"`
}

// Scenario computes a buy/sell payoff for a fixed share count.
// POST /api/roi
func (h *ROIHandler) Scenario(w http.ResponseWriter, r *http.Request) {
	req := roiRequest{BuyPrice: 0.5, SellPrice: 1.0, Shares: 100}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	writeJSON(w, http.StatusOK, quant.Scenario(req.BuyPrice, req.SellPrice, req.Shares))
}
