// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/breaktime/internal/middleware"
	"github.com/hitoshi/breaktime/internal/model"
)

// maxRequestBodyBytes はJSONリクエストボディの上限サイズ。
const maxRequestBodyBytes = 1 << 20

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// decodeJSON はリクエストボディをdstにデコードする。
// 解析に失敗した場合は400レスポンスを書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Invalid request body"))
		return false
	}
	return true
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode >= http.StatusInternalServerError {
			slog.Error("service error",
				slog.String("code", apiErr.Code),
				slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
				slog.String("error", err.Error()),
			)
		}
		middleware.WriteErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error",
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeEmailAlreadyExists:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// isUnauthorized はエラーが未認証を表すかを返す。
func isUnauthorized(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUnauthorized
}
