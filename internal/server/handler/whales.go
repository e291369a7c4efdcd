package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/polysnap/polysnap/internal/domain"
)

// WhaleSource serves on-chain transfer data. FetchActivity failures degrade
// to an error-tagged summary, so that endpoint never returns a non-200.
type WhaleSource interface {
	FetchActivity(ctx context.Context) domain.TransferSummary
	WalletTrades(ctx context.Context, address common.Address) ([]domain.WalletTrade, error)
}

// WhaleHandler serves the standalone whale-activity endpoint.
type WhaleHandler struct {
	whales WhaleSource
	logger *slog.Logger
}

// NewWhaleHandler creates a WhaleHandler.
func NewWhaleHandler(whales WhaleSource, logger *slog.Logger) *WhaleHandler {
	return &WhaleHandler{
		whales: whales,
		logger: logger,
	}
}

// Whales returns the recent on-chain transfer summary.
// GET /api/whales
func (h *WhaleHandler) Whales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.whales.FetchActivity(r.Context()))
}

// Trades lists one wallet's recent transfers as inferred trades. A missing
// or malformed address and upstream failures all degrade to an empty list.
// GET /api/trades
func (h *WhaleHandler) Trades(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")

	trades := []domain.WalletTrade{}
	if common.IsHexAddress(address) {
		list, err := h.whales.WalletTrades(r.Context(), common.HexToAddress(address))
		if err != nil {
			h.logger.ErrorContext(r.Context(), "wallet trades fetch failed",
				slog.String("address", address),
				slog.String("error", err.Error()),
			)
		} else {
			trades = list
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trades":  trades,
		"address": address,
	})
}
