package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleEN,
		"uk":                      LocaleUK,
		"uk-UA,uk;q=0.9,en;q=0.8": LocaleUK,
		"en-GB":                   LocaleEN,
		"de-DE":                   LocaleEN,
		"not a tag;;":             LocaleEN,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeLocale(raw), "raw=%q", raw)
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/cart?lang=uk", nil)
	c.Request.Header.Set("Accept-Language", "en-US")

	assert.Equal(t, LocaleUK, ResolveLocale(c))
	assert.Equal(t, LocaleEN, ResolveLocale(nil))
}

func TestTranslateFallbacks(t *testing.T) {
	assert.Equal(t, "Promo code is invalid", T(LocaleEN, "error.promo_invalid"))
	assert.Equal(t, "Промокод недійсний", T(LocaleUK, "error.promo_invalid"))
	assert.Equal(t, "Promo code is invalid", T("fr-FR", "error.promo_invalid"))
	assert.Equal(t, "error.unknown_key", T(LocaleEN, "error.unknown_key"))
	assert.Equal(t, "Password must be at least 8 characters", Sprintf(LocaleEN, "error.password_min_length", 8))
}

func TestLocalesShareKeys(t *testing.T) {
	for key := range messages[LocaleEN] {
		_, ok := messages[LocaleUK][key]
		assert.True(t, ok, "missing uk translation for %s", key)
	}
}
