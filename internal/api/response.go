package api

import (
	"encoding/json"
	"net/http"
)

// Response 統一回應格式
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResponseError 統一錯誤回應格式
type ResponseError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func SuccessJSON(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func CreatedJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

func ErrorJSON(w http.ResponseWriter, status int, err error, message string) {
	msg := message
	if msg == "" && err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, ResponseError{
		Success: false,
		Error:   msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
