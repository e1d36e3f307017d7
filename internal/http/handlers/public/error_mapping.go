package public

import (
	handlershared "github.com/lingerie-shop/internal/http/handlers/shared"
	"github.com/lingerie-shop/internal/http/response"
	"github.com/lingerie-shop/internal/service"

	"github.com/gin-gonic/gin"
)

type rule = handlershared.ErrorRule

var authErrorRules = []rule{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_failed"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
}

var productErrorRules = []rule{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeNotFound, Key: "error.product_unavailable"},
}

var cartErrorRules = []rule{
	{Target: service.ErrSizeInvalid, Code: response.CodeBadRequest, Key: "error.size_invalid"},
	{Target: service.ErrColorInvalid, Code: response.CodeBadRequest, Key: "error.color_invalid"},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest, Key: "error.insufficient_stock"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrCartBusy, Code: response.CodeConflict, Key: "error.cart_busy"},
}

var promoErrorRules = []rule{
	{Target: service.ErrPromoNotFound, Code: response.CodeBadRequest, Key: "error.promo_invalid"},
	{Target: service.ErrPromoInactive, Code: response.CodeBadRequest, Key: "error.promo_invalid"},
	{Target: service.ErrPromoNotStarted, Code: response.CodeBadRequest, Key: "error.promo_not_started"},
	{Target: service.ErrPromoExpired, Code: response.CodeBadRequest, Key: "error.promo_expired"},
	{Target: service.ErrPromoUsageLimit, Code: response.CodeBadRequest, Key: "error.promo_usage_limit"},
	{Target: service.ErrPromoPerUserLimit, Code: response.CodeBadRequest, Key: "error.promo_per_user_limit"},
	{Target: service.ErrPromoMinAmount, Code: response.CodeBadRequest, Key: "error.promo_min_amount"},
	{Target: service.ErrPromoInvalid, Code: response.CodeBadRequest, Key: "error.promo_invalid"},
}

var orderErrorRules = []rule{
	{Target: service.ErrDeliveryMethodInvalid, Code: response.CodeBadRequest, Key: "error.delivery_method_invalid"},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeBadRequest, Key: "error.order_cancel_forbidden"},
	{Target: service.ErrIdempotencyConflict, Code: response.CodeConflict, Key: "error.idempotency_conflict"},
}

var favoriteErrorRules = []rule{
	{Target: service.ErrFavoriteNotFound, Code: response.CodeNotFound, Key: "error.favorite_not_found"},
}

var (
	cartMutationRules = handlershared.ConcatRules(productErrorRules, cartErrorRules)
	orderCreateRules  = handlershared.ConcatRules(orderErrorRules, productErrorRules, cartErrorRules, promoErrorRules)
	favoriteRules     = handlershared.ConcatRules(favoriteErrorRules, productErrorRules)
)

func respondServiceError(c *gin.Context, err error, rules []rule, fallbackKey string) {
	handlershared.RespondServiceError(c, err, rules, response.CodeInternal, fallbackKey)
}
