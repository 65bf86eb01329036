package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"go.uber.org/zap"
)

const (
	msgInvalidRequest = "Invalid request data"
	msgInvalidAddress = "Invalid Ethereum address"
	msgInternal       = "Internal server error"
)

type claimRequest struct {
	Address string `json:"address" validate:"required,len=42"`
}

type claimResponse struct {
	Success       bool       `json:"success"`
	Message       string     `json:"message"`
	TxHash        string     `json:"txHash,omitempty"`
	Amount        string     `json:"amount,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	NextClaimTime *time.Time `json:"nextClaimTime,omitempty"`
}

type statusResponse struct {
	Success       bool       `json:"success"`
	CanClaim      bool       `json:"canClaim"`
	Tracked       bool       `json:"tracked"`
	LastClaimTime *time.Time `json:"lastClaimTime,omitempty"`
	NextClaimTime *time.Time `json:"nextClaimTime,omitempty"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func newClaimResponse(res model.ClaimResult) claimResponse {
	return claimResponse{
		Success:       res.Success,
		Message:       res.Message,
		TxHash:        res.TransferID,
		Amount:        res.Amount,
		Reason:        string(res.Reason),
		NextClaimTime: res.NextClaimAt,
	}
}

// claimStatusCode maps a claim outcome to an HTTP status. Caller-side problems are 400, faucet-side problems 500.
func claimStatusCode(res model.ClaimResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Reason {
	case model.RejectInvalidAddress,
		model.RejectCooldownActive,
		model.RejectFaucetEmpty,
		model.RejectTransferRejected,
		model.RejectInsufficientGasFunds:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *FaucetHandler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (h *FaucetHandler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, errorResponse{Success: false, Message: message})
}
