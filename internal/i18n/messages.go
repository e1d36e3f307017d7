package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"common.success": "success",

		"error.bad_request":         "Invalid request",
		"error.validation_failed":   "Please check the highlighted fields",
		"error.unauthorized":        "Please sign in to continue",
		"error.forbidden":           "You do not have access to this resource",
		"error.not_found":           "Resource not found",
		"error.internal":            "Something went wrong, please try again later",
		"error.too_many_requests":   "Too many requests, please try again later",
		"error.rate_limited":        "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "Service is busy, please try again later",
		"error.conflict":            "The request conflicts with the current state",
		"error.auth_header_missing": "Authorization header is missing",
		"error.auth_header_invalid": "Authorization header is malformed",
		"error.token_invalid":       "Session is invalid, please sign in again",
		"error.token_revoked":       "Session has expired, please sign in again",
		"error.jwt_secret_missing":  "Authentication is not configured",
		"error.user_id_invalid":     "Invalid user id",
		"error.user_id_type":        "Invalid user id type",
		"error.id_invalid":          "Invalid id",

		"error.login_failed":        "Incorrect email or password",
		"error.login_rate_limited":  "Too many sign-in attempts, retry in %d seconds",
		"error.user_disabled":       "This account has been disabled",
		"error.user_not_found":      "User not found",
		"error.email_invalid":       "Email address is invalid",
		"error.email_exists":        "An account with this email already exists",
		"error.password_incorrect":  "Current password is incorrect",
		"error.password_min_length": "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a digit",
		"error.password_require_special": "Password must contain a special character",

		"error.category_not_found":      "Category not found",
		"error.category_slug_exists":    "Category slug already exists",
		"error.product_not_found":       "Product not found",
		"error.product_unavailable":     "This product is no longer available",
		"error.product_slug_exists":     "Product slug already exists",
		"error.size_invalid":            "Selected size is not available",
		"error.color_invalid":           "Selected color is not available",
		"error.quantity_invalid":        "Quantity must be at least 1",
		"error.insufficient_stock":      "Not enough items in stock",
		"error.cart_item_not_found":     "Item is not in your cart",
		"error.cart_empty":              "Your cart is empty",
		"error.cart_busy":               "Your cart is being updated, please retry",
		"error.favorite_not_found":      "Item is not in your favorites",

		"error.promo_invalid":           "Promo code is invalid",
		"error.promo_not_found":         "Promo code not found",
		"error.promo_inactive":          "Promo code is not active",
		"error.promo_not_started":       "Promo code is not active yet",
		"error.promo_expired":           "Promo code has expired",
		"error.promo_usage_limit":       "Promo code usage limit reached",
		"error.promo_per_user_limit":    "You have already used this promo code",
		"error.promo_min_amount":        "Order total is below the promo code minimum",
		"error.promo_rate_limited":      "Too many promo code attempts, retry in %d seconds",
		"error.promo_code_exists":       "Promo code already exists",

		"error.delivery_method_invalid": "Delivery method is not supported",
		"error.payment_method_invalid":  "Payment method is not supported",
		"error.order_not_found":         "Order not found",
		"error.order_create_failed":     "Could not place the order, please try again",
		"error.order_cancel_forbidden":  "This order can no longer be canceled",
		"error.order_status_invalid":    "Order status transition is not allowed",
		"error.idempotency_conflict":    "This checkout was already submitted with different contents",

		"validation.required": "is required",
		"validation.email":    "must be a valid email",
		"validation.min":      "is too short",
		"validation.max":      "is too long",
		"validation.gte":      "is too small",
		"validation.lte":      "is too large",
		"validation.oneof":    "has an unsupported value",
		"validation.invalid":  "is invalid",

		"email.order_confirmation.subject": "Order %s confirmed",
		"email.order_confirmation.body":    "Thank you for your order %s. Total: %s %s.",
		"email.order_canceled.subject":     "Order %s canceled",
		"email.order_canceled.body":        "Your order %s has been canceled.",
	},
	LocaleUK: {
		"common.success": "успішно",

		"error.bad_request":         "Некоректний запит",
		"error.validation_failed":   "Перевірте виділені поля",
		"error.unauthorized":        "Увійдіть, щоб продовжити",
		"error.forbidden":           "Немає доступу до цього ресурсу",
		"error.not_found":           "Ресурс не знайдено",
		"error.internal":            "Щось пішло не так, спробуйте пізніше",
		"error.too_many_requests":   "Забагато запитів, спробуйте пізніше",
		"error.rate_limited":        "Забагато запитів, повторіть через %d с",
		"error.rate_limit_unavailable": "Сервіс перевантажений, спробуйте пізніше",
		"error.conflict":            "Запит конфліктує з поточним станом",
		"error.auth_header_missing": "Відсутній заголовок авторизації",
		"error.auth_header_invalid": "Некоректний заголовок авторизації",
		"error.token_invalid":       "Сесія недійсна, увійдіть знову",
		"error.token_revoked":       "Сесія завершилась, увійдіть знову",
		"error.jwt_secret_missing":  "Автентифікацію не налаштовано",
		"error.user_id_invalid":     "Некоректний ідентифікатор користувача",
		"error.user_id_type":        "Некоректний тип ідентифікатора користувача",
		"error.id_invalid":          "Некоректний ідентифікатор",

		"error.login_failed":        "Невірна пошта або пароль",
		"error.login_rate_limited":  "Забагато спроб входу, повторіть через %d с",
		"error.user_disabled":       "Обліковий запис заблоковано",
		"error.user_not_found":      "Користувача не знайдено",
		"error.email_invalid":       "Некоректна електронна пошта",
		"error.email_exists":        "Обліковий запис з цією поштою вже існує",
		"error.password_incorrect":  "Поточний пароль невірний",
		"error.password_min_length": "Пароль має містити щонайменше %d символів",
		"error.password_require_upper":   "Пароль має містити велику літеру",
		"error.password_require_lower":   "Пароль має містити малу літеру",
		"error.password_require_number":  "Пароль має містити цифру",
		"error.password_require_special": "Пароль має містити спеціальний символ",

		"error.category_not_found":      "Категорію не знайдено",
		"error.category_slug_exists":    "Категорія з таким slug вже існує",
		"error.product_not_found":       "Товар не знайдено",
		"error.product_unavailable":     "Товар більше недоступний",
		"error.product_slug_exists":     "Товар з таким slug вже існує",
		"error.size_invalid":            "Обраний розмір недоступний",
		"error.color_invalid":           "Обраний колір недоступний",
		"error.quantity_invalid":        "Кількість має бути не менше 1",
		"error.insufficient_stock":      "Недостатньо товару на складі",
		"error.cart_item_not_found":     "Товару немає в кошику",
		"error.cart_empty":              "Ваш кошик порожній",
		"error.cart_busy":               "Кошик оновлюється, повторіть спробу",
		"error.favorite_not_found":      "Товару немає в обраному",

		"error.promo_invalid":           "Промокод недійсний",
		"error.promo_not_found":         "Промокод не знайдено",
		"error.promo_inactive":          "Промокод неактивний",
		"error.promo_not_started":       "Промокод ще не діє",
		"error.promo_expired":           "Термін дії промокоду минув",
		"error.promo_usage_limit":       "Ліміт використань промокоду вичерпано",
		"error.promo_per_user_limit":    "Ви вже використали цей промокод",
		"error.promo_min_amount":        "Сума замовлення менша за мінімальну для промокоду",
		"error.promo_rate_limited":      "Забагато спроб промокоду, повторіть через %d с",
		"error.promo_code_exists":       "Такий промокод вже існує",

		"error.delivery_method_invalid": "Спосіб доставки не підтримується",
		"error.payment_method_invalid":  "Спосіб оплати не підтримується",
		"error.order_not_found":         "Замовлення не знайдено",
		"error.order_create_failed":     "Не вдалося оформити замовлення, спробуйте ще раз",
		"error.order_cancel_forbidden":  "Це замовлення вже не можна скасувати",
		"error.order_status_invalid":    "Недопустима зміна статусу замовлення",
		"error.idempotency_conflict":    "Це замовлення вже надіслано з іншим вмістом",

		"validation.required": "обов'язкове поле",
		"validation.email":    "має бути коректною поштою",
		"validation.min":      "занадто коротке",
		"validation.max":      "занадто довге",
		"validation.gte":      "занадто мале",
		"validation.lte":      "занадто велике",
		"validation.oneof":    "має непідтримуване значення",
		"validation.invalid":  "некоректне значення",

		"email.order_confirmation.subject": "Замовлення %s підтверджено",
		"email.order_confirmation.body":    "Дякуємо за замовлення %s. Сума: %s %s.",
		"email.order_canceled.subject":     "Замовлення %s скасовано",
		"email.order_canceled.body":        "Ваше замовлення %s скасовано.",
	},
}
