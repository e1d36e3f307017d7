package shared

import (
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/i18n"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName 校验错误使用 json 字段名，与前端表单字段一致
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// BindJSON 绑定请求体，失败时直接返回 400 响应
func BindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			if _, exists := fields[fe.Field()]; exists {
				continue
			}
			fields[fe.Field()] = validationKey(fe.Tag())
		}
		RespondValidation(c, fields)
		return false
	}
	if errors.Is(err, io.EOF) {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return false
	}
	RequestLog(c).Debugw("request_bind_failed", "error", err)
	RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
	return false
}

func validationKey(tag string) string {
	switch tag {
	case "required", "email", "min", "max", "gte", "lte", "oneof":
		return "validation." + tag
	case "gt":
		return "validation.gte"
	default:
		return "validation.invalid"
	}
}

// RespondValidation 返回字段级校验错误，data.fields 为字段到消息 key 的映射
func RespondValidation(c *gin.Context, fields map[string]string) {
	msg := i18n.T(i18n.ResolveLocale(c), "error.validation_failed")
	response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"fields": fields})
}

// ErrorRule 业务错误到接口响应的映射
type ErrorRule struct {
	Target error
	Code   int
	Key    string
}

// RespondServiceError 按规则映射业务错误，未命中的按兜底码处理并记录日志
func RespondServiceError(c *gin.Context, err error, rules []ErrorRule, fallbackCode int, fallbackKey string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		RespondValidation(c, verr.Fields)
		return
	}
	var policyErr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &policyErr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), policyErr.Key(), policyErr.Args()...)
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"fields": map[string]string{"password": policyErr.Key()}})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatRules 合并多组映射规则
func ConcatRules(groups ...[]ErrorRule) []ErrorRule {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]ErrorRule, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
