package storefront

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 客户端错误分类
var (
	ErrNetwork          = errors.New("storefront: network unavailable")
	ErrUnauthorized     = errors.New("storefront: unauthorized")
	ErrNotFound         = errors.New("storefront: not found")
	ErrServer           = errors.New("storefront: server error, try again later")
	ErrPromoInvalid     = errors.New("storefront: promo code invalid")
	ErrEmptyCart        = errors.New("storefront: cart is empty")
	ErrRequestInFlight  = errors.New("storefront: request already in flight")
	ErrQuantityBelowOne = errors.New("storefront: quantity would drop below one, remove the line instead")
	ErrInvalidMethod    = errors.New("storefront: unsupported delivery or payment method")
	ErrBadRequest       = errors.New("storefront: request rejected")
	ErrConflict         = errors.New("storefront: request conflicts with current state")
	ErrRateLimited      = errors.New("storefront: too many requests")
)

// APIError 服务端返回的错误响应
type APIError struct {
	Status    int    // HTTP 状态码，网络错误时为 0
	Code      int    // 信封中的 status_code
	Message   string // 服务端已本地化的提示
	RequestID string
	Err       error // 分类错误
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (status %d)", e.Err, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", e.Err, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError 字段级校验错误，字段名到消息 key
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "storefront: invalid fields: " + strings.Join(names, ", ")
}

// Field 返回字段的消息 key
func (e *ValidationError) Field(name string) (string, bool) {
	key, ok := e.Fields[name]
	return key, ok
}

// AsValidation 提取字段级校验错误
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

func classifyStatus(status int) error {
	switch {
	case status == 400:
		return ErrBadRequest
	case status == 401:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 409:
		return ErrConflict
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}
