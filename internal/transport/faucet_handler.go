// Package transport exposes the faucet over HTTP.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/service"
	"go.uber.org/zap"
)

// PathPrefix is where the faucet API is mounted.
const PathPrefix = "/api/faucet"

const maxBodyBytes = 4 << 10

// FaucetHandler serves the faucet JSON API.
type FaucetHandler struct {
	claims   Claimer
	reader   ClaimReader
	info     InfoProvider
	metrics  HTTPMetrics
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFaucetHandler returns a FaucetHandler instance.
func NewFaucetHandler(claims Claimer, reader ClaimReader, info InfoProvider, metrics HTTPMetrics, logger *zap.Logger) *FaucetHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &FaucetHandler{
		claims:   claims,
		reader:   reader,
		info:     info,
		metrics:  metrics,
		validate: validate,
		logger:   logger.Named("faucetHandler"),
	}
}

// Register mounts the faucet routes and the health check on mux.
func (h *FaucetHandler) Register(mux *http.ServeMux) {
	h.handle(mux, "POST "+PathPrefix+"/claim", h.claim)
	h.handle(mux, "GET "+PathPrefix+"/check/{address}", h.check)
	h.handle(mux, "GET "+PathPrefix+"/history/{address}", h.history)
	h.handle(mux, "GET "+PathPrefix+"/recent", h.recent)
	h.handle(mux, "GET "+PathPrefix+"/info", h.faucetInfo)
	mux.HandleFunc("GET /healthz", h.health)
}

func (h *FaucetHandler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		fn(rec, r)
		h.metrics.Observe(pattern, rec.code, started)
	})
}

func (h *FaucetHandler) claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: msgInvalidRequest, Errors: []string{"malformed JSON body"}})
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: msgInvalidRequest, Errors: []string{"body must hold a single JSON object"}})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: msgInvalidRequest, Errors: validationMessages(err)})
		return
	}

	res := h.claims.Claim(r.Context(), model.ClaimRequest{Address: req.Address, SourceIP: clientIP(r)})
	h.writeJSON(w, claimStatusCode(res), newClaimResponse(res))
}

func (h *FaucetHandler) check(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("address")
	st, err := h.reader.Status(r.Context(), addr)
	if errors.Is(err, service.ErrInvalidAddress) {
		h.writeError(w, http.StatusBadRequest, msgInvalidAddress)
		return
	}
	if err != nil {
		h.logger.Error("check claim status failed", zap.String("address", addr), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.writeJSON(w, http.StatusOK, statusResponse{
		Success:       true,
		CanClaim:      st.CanClaim,
		Tracked:       st.Tracked,
		LastClaimTime: st.LastClaimAt,
		NextClaimTime: st.NextClaimAt,
	})
}

func (h *FaucetHandler) history(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("address")
	claims, err := h.reader.History(r.Context(), addr, queryLimit(r))
	if errors.Is(err, service.ErrInvalidAddress) {
		h.writeError(w, http.StatusBadRequest, msgInvalidAddress)
		return
	}
	if err != nil {
		h.logger.Error("read claim history failed", zap.String("address", addr), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: claims})
}

func (h *FaucetHandler) recent(w http.ResponseWriter, r *http.Request) {
	claims, err := h.reader.Recent(r.Context(), queryLimit(r))
	if err != nil {
		h.logger.Error("read recent claims failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: claims})
}

func (h *FaucetHandler) faucetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.info.Info(r.Context())
	if err != nil {
		h.logger.Error("read faucet info failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: info})
}

func (h *FaucetHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryLimit returns the limit query parameter, or 0 (meaning the default) when absent or malformed.
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// clientIP prefers the first X-Forwarded-For hop. The value is advisory and never used for decisions.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		out = append(out, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}
	return out
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
