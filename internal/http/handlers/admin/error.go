package admin

import (
	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type rule = handlershared.ErrorRule

var productAdminRules = []rule{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeBadRequest, Key: "error.category_not_found"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.product_slug_exists"},
}

var categoryAdminRules = []rule{
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.category_slug_exists"},
}

var promoAdminRules = []rule{
	{Target: service.ErrPromoNotFound, Code: response.CodeNotFound, Key: "error.promo_not_found"},
	{Target: service.ErrPromoCodeExists, Code: response.CodeConflict, Key: "error.promo_code_exists"},
}

var orderAdminRules = []rule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, rules []rule) {
	handlershared.RespondServiceError(c, err, rules, response.CodeInternal, "error.internal")
}
