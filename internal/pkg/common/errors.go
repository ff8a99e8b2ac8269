package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Response 以此錯誤構建 API 錯誤響應
func (e *CustomError) Response(details string) ErrorResponse {
	return ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤（缺少或空白的必要輸入）
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ClassificationError 表示上游情緒分類服務的失敗（網路、超時、非成功狀態）
type ClassificationError struct {
	Message string // 錯誤信息
	Detail  string // 上游錯誤細節（供診斷使用）
	Err     error  // 原始錯誤
}

// Error 實現 error 介面
func (e *ClassificationError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// NewClassificationError 創建新的分類錯誤
func NewClassificationError(message, detail string, err error) error {
	return &ClassificationError{
		Message: message,
		Detail:  detail,
		Err:     err,
	}
}

// IsClassificationError 檢查是否為分類錯誤
func IsClassificationError(err error) bool {
	var ce *ClassificationError
	return errors.As(err, &ce)
}

// NotFoundError 表示引用的資源不存在（例如未知的菜品 ID）
type NotFoundError struct {
	message string
}

// Error 實現 error 介面
func (e *NotFoundError) Error() string {
	return e.message
}

// NewNotFoundError 創建新的不存在錯誤
func NewNotFoundError(message string) error {
	return &NotFoundError{
		message: message,
	}
}

// IsNotFoundError 檢查是否為不存在錯誤
func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// 預定義錯誤代碼
const (
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 504
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413
	ErrCodeInternalError   = "INTERNAL_ERROR"    // 500

	ErrCodeDishNotFound    = "DISH_NOT_FOUND"         // 404
	ErrCodeClassifierError = "CLASSIFIER_ERROR"       // 500
	ErrCodePaymentGateway  = "PAYMENT_GATEWAY_ERROR"  // 502
)

// 預定義錯誤
var (
	ErrRequestTimeout     = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusGatewayTimeout, nil)
	ErrDishNotFound       = NewError(ErrCodeDishNotFound, "菜品不存在", http.StatusNotFound, nil)
	ErrClassifierError    = NewError(ErrCodeClassifierError, "情緒分類服務錯誤", http.StatusInternalServerError, nil)
	ErrPaymentGatewayDown = NewError(ErrCodePaymentGateway, "支付網關錯誤", http.StatusBadGateway, nil)
)
