package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/logger"
	"github.com/lingerie-shop/internal/storefront"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "shopctl",
		Usage: "Lingerie Shop storefront client: cart, promo codes and checkout",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "API base url, e.g. http://127.0.0.1:8080/api/v1", EnvVars: []string{"SHOPCTL_BASE_URL"}},
			&cli.StringFlag{Name: "token-file", Usage: "where the session token is stored", EnvVars: []string{"SHOPCTL_TOKEN_FILE"}},
			&cli.StringFlag{Name: "locale", Usage: "Accept-Language sent to the API", Value: "en-US"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging to stderr"},
		},
		Before: func(c *cli.Context) error {
			level := zapcore.WarnLevel
			if c.Bool("verbose") {
				level = zapcore.DebugLevel
			}
			logger.L = logger.NewWriter(os.Stderr, level)
			zap.ReplaceGlobals(logger.L)
			return nil
		},
		After: func(c *cli.Context) error {
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			productsCommand(),
			cartCommand(),
			promoCommand(),
			checkoutCommand(),
			favoritesCommand(),
			ordersCommand(),
		},
	}
}

// session 一次命令调用内的客户端与状态
type session struct {
	cfg       config.StorefrontConfig
	tokenFile string
	client    *storefront.Client
	cart      *storefront.CartStore
	promo     *storefront.PromoEvaluator
	favorites *storefront.FavoritesStore
	log       *zap.SugaredLogger
}

func openSession(c *cli.Context) (*session, error) {
	cfg := config.Load().Storefront
	if v := strings.TrimSpace(c.String("base-url")); v != "" {
		cfg.BaseURL = v
	}
	tokenFile := strings.TrimSpace(c.String("token-file"))
	if tokenFile == "" {
		tokenFile = cfg.TokenFile
	}
	if tokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		tokenFile = filepath.Join(dir, "lingerie-shop", "token")
	}

	s := &session{cfg: cfg, tokenFile: tokenFile, log: logger.Named("shopctl")}
	token, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}
	client, err := storefront.NewClient(storefront.Config{
		BaseURL:         cfg.BaseURL,
		Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
		BreakerFailures: cfg.BreakerFailures,
		BreakerOpen:     time.Duration(cfg.BreakerOpenSecs) * time.Second,
		Locale:          c.String("locale"),
	},
		storefront.WithLogger(logger.Named("storefront")),
		storefront.WithToken(token),
		storefront.WithUnauthorizedHook(s.expire),
	)
	if err != nil {
		return nil, err
	}
	s.client = client
	s.cart = storefront.NewCartStore(client, s.log)
	s.promo = storefront.NewPromoEvaluator(client, s.log)
	s.favorites = storefront.NewFavoritesStore(client, s.log)
	return s, nil
}

// expire 会话失效时删除本地 token
func (s *session) expire() {
	if err := os.Remove(s.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warnw("token_remove_failed", "file", s.tokenFile, "error", err)
	}
	fmt.Fprintln(os.Stderr, "Session expired. Run `shopctl login` to sign in again.")
}

func (s *session) saveToken() error {
	token := s.client.Token()
	if token == "" {
		return errors.New("server returned an empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.tokenFile), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(s.tokenFile, []byte(token+"\n"), 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// describeError 把客户端错误转换为给用户看的提示
func describeError(err error) string {
	if validation, ok := storefront.AsValidation(err); ok {
		parts := make([]string, 0, len(validation.Fields))
		for field, key := range validation.Fields {
			parts = append(parts, field+": "+key)
		}
		return "Please fix: " + strings.Join(parts, "; ")
	}
	var apiErr *storefront.APIError
	switch {
	case errors.Is(err, storefront.ErrUnauthorized):
		return "Please sign in first (shopctl login)."
	case errors.Is(err, storefront.ErrPromoInvalid):
		return "Promo code is invalid."
	case errors.Is(err, storefront.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, storefront.ErrNetwork):
		return "Cannot reach the shop. Check your connection and try again."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}
