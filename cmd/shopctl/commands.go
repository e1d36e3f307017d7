package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/lingerie-shop/internal/constants"
	"github.com/lingerie-shop/internal/storefront"

	"github.com/urfave/cli/v2"
)

const maxSubmitAttempts = 3

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SHOPCTL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			result, err := s.client.Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			if err := s.saveToken(); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", result.User.Email)
			return nil
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SHOPCTL_PASSWORD"}},
			&cli.StringFlag{Name: "first-name"},
			&cli.StringFlag{Name: "last-name"},
			&cli.StringFlag{Name: "phone"},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			result, err := s.client.Register(c.Context, storefront.RegisterInput{
				Email:     c.String("email"),
				Password:  c.String("password"),
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
				Phone:     c.String("phone"),
			})
			if err != nil {
				return err
			}
			if err := s.saveToken(); err != nil {
				return err
			}
			fmt.Printf("Welcome, %s\n", result.User.Email)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored session token",
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			if err := os.Remove(s.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "browse the catalog",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "category"},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}},
			&cli.BoolFlag{Name: "sale"},
			&cli.BoolFlag{Name: "new"},
			&cli.IntFlag{Name: "page", Value: 1},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			products, err := s.client.Products(c.Context, storefront.ProductQuery{
				CategoryID: c.Uint("category"),
				Query:      c.String("search"),
				OnSale:     c.Bool("sale"),
				IsNew:      c.Bool("new"),
				Page:       c.Int("page"),
			})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSIZES\tCOLORS\tSTOCK")
			for _, p := range products {
				price := p.Price.StringFixed(2)
				if p.OnSale {
					price = fmt.Sprintf("%s (-%d%%)", p.SalePrice.StringFixed(2), p.DiscountPercent)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, price,
					strings.Join(p.Sizes, ","), strings.Join(p.Colors, ","), p.Stock)
			}
			return w.Flush()
		},
	}
}

func cartCommand() *cli.Command {
	variantFlags := []cli.Flag{
		&cli.StringFlag{Name: "size"},
		&cli.StringFlag{Name: "color"},
	}
	return &cli.Command{
		Name:  "cart",
		Usage: "show and edit the cart",
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			if err := s.cart.Fetch(c.Context); err != nil {
				return err
			}
			return printCart(s)
		},
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "change a line quantity by delta (default +1)",
				ArgsUsage: "<product-id>",
				Flags:     append([]cli.Flag{&cli.IntFlag{Name: "delta", Value: 1}}, variantFlags...),
				Action: func(c *cli.Context) error {
					s, productID, err := sessionWithProduct(c)
					if err != nil {
						return err
					}
					if err := s.cart.Fetch(c.Context); err != nil {
						return err
					}
					variant := storefront.Variant{Size: c.String("size"), Color: c.String("color")}
					if err := s.cart.Add(c.Context, productID, c.Int("delta"), variant); err != nil {
						return err
					}
					return printCart(s)
				},
			},
			{
				Name:      "remove",
				Usage:     "remove a line; without --size/--color every variant of the product goes",
				ArgsUsage: "<product-id>",
				Flags:     variantFlags,
				Action: func(c *cli.Context) error {
					s, productID, err := sessionWithProduct(c)
					if err != nil {
						return err
					}
					var variant *storefront.Variant
					if c.IsSet("size") || c.IsSet("color") {
						variant = &storefront.Variant{Size: c.String("size"), Color: c.String("color")}
					}
					if err := s.cart.Remove(c.Context, productID, variant); err != nil {
						return err
					}
					return printCart(s)
				},
			},
			{
				Name:  "clear",
				Usage: "empty the cart",
				Action: func(c *cli.Context) error {
					s, err := openSession(c)
					if err != nil {
						return err
					}
					if err := s.cart.Clear(c.Context); err != nil {
						return err
					}
					fmt.Println("Cart cleared")
					return nil
				},
			},
		},
	}
}

func promoCommand() *cli.Command {
	return &cli.Command{
		Name:      "promo",
		Usage:     "quote a promo code against the current cart",
		ArgsUsage: "<code>",
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			code := c.Args().First()
			if code == "" {
				code = s.cfg.DefaultPromoCode
			}
			if err := s.cart.Fetch(c.Context); err != nil {
				return err
			}
			if _, err := s.promo.Apply(c.Context, code); err != nil {
				return err
			}
			checkout := storefront.NewCheckout(s.client, s.cart, s.promo, storefront.WithCheckoutLogger(s.log))
			printSummary(checkout.Summary())
			return nil
		},
	}
}

func checkoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "submit the cart as an order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "first-name"},
			&cli.StringFlag{Name: "last-name"},
			&cli.StringFlag{Name: "phone"},
			&cli.StringFlag{Name: "email"},
			&cli.StringFlag{Name: "delivery", Value: constants.DeliveryMethodCourier, Usage: strings.Join(constants.DeliveryMethods, "|")},
			&cli.StringFlag{Name: "payment", Value: constants.PaymentMethodCreditCard, Usage: strings.Join(constants.PaymentMethods, "|")},
			&cli.StringFlag{Name: "promo"},
			&cli.BoolFlag{Name: "prefill", Value: true, Usage: "fill empty contact fields from the profile"},
		},
		Action: runCheckout,
	}
}

func runCheckout(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	if err := s.cart.Fetch(ctx); err != nil {
		return err
	}

	checkout := storefront.NewCheckout(s.client, s.cart, s.promo,
		storefront.WithCheckoutLogger(s.log),
		storefront.WithOnConfirmed(func(order *storefront.Order) {
			s.log.Infow("order_confirmed", "order_no", order.OrderNo)
		}),
	)
	_ = checkout.LoadOptions(ctx)

	checkout.SetContact(storefront.ContactInfo{
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
		Phone:     c.String("phone"),
		Email:     c.String("email"),
	})
	if c.Bool("prefill") {
		if err := checkout.Prefill(ctx); err != nil {
			s.log.Warnw("checkout_prefill_failed", "error", err)
		}
	}
	if err := checkout.SetDeliveryMethod(c.String("delivery")); err != nil {
		return err
	}
	if err := checkout.SetPaymentMethod(c.String("payment")); err != nil {
		return err
	}

	code := c.String("promo")
	if code == "" {
		code = s.cfg.DefaultPromoCode
	}
	if code != "" {
		if _, err := s.promo.Apply(ctx, code); err != nil {
			return err
		}
	}

	for checkout.Step() != storefront.StepPaymentMethod {
		if err := checkout.Next(ctx); err != nil {
			return err
		}
	}
	printSummary(checkout.Summary())

	for attempt := 1; ; attempt++ {
		err = checkout.Next(ctx)
		if err == nil || !storefront.IsRetryable(err) || attempt == maxSubmitAttempts {
			break
		}
		fmt.Fprintf(os.Stderr, "Submit failed (%s), retrying...\n", describeError(err))
	}
	if err != nil {
		return err
	}

	order := checkout.Confirmation()
	fmt.Printf("Order %s placed. Total %s %s, status %s\n", order.OrderNo, order.Total.StringFixed(2), order.Currency, order.Status)
	return nil
}

func favoritesCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "list favorites",
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			if err := s.favorites.Fetch(c.Context); err != nil {
				return err
			}
			return printFavorites(s)
		},
		Subcommands: []*cli.Command{
			{
				Name:      "toggle",
				Usage:     "add or remove a product",
				ArgsUsage: "<product-id>",
				Action: func(c *cli.Context) error {
					s, productID, err := sessionWithProduct(c)
					if err != nil {
						return err
					}
					if err := s.favorites.Fetch(c.Context); err != nil {
						return err
					}
					if err := s.favorites.Toggle(c.Context, productID); err != nil {
						return err
					}
					return printFavorites(s)
				},
			},
		},
	}
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "list my orders",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "page-size", Value: 20},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			orders, err := s.client.ListOrders(c.Context, c.Int("page"), c.Int("page-size"))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tORDER NO\tSTATUS\tTOTAL\tCREATED")
			for _, o := range orders {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.OrderNo, o.Status, o.Total.StringFixed(2), o.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				ArgsUsage: "<order-id>",
				Action: func(c *cli.Context) error {
					s, id, err := sessionWithProduct(c)
					if err != nil {
						return err
					}
					order, err := s.client.GetOrder(c.Context, id)
					if err != nil {
						return err
					}
					printOrder(order)
					return nil
				},
			},
			{
				Name:      "cancel",
				ArgsUsage: "<order-id>",
				Action: func(c *cli.Context) error {
					s, id, err := sessionWithProduct(c)
					if err != nil {
						return err
					}
					order, err := s.client.CancelOrder(c.Context, id)
					if err != nil {
						return err
					}
					fmt.Printf("Order %s is now %s\n", order.OrderNo, order.Status)
					return nil
				},
			},
		},
	}
}

// sessionWithProduct 打开会话并解析第一个位置参数为 ID
func sessionWithProduct(c *cli.Context) (*session, uint, error) {
	raw := c.Args().First()
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, 0, fmt.Errorf("invalid id %q", raw)
	}
	s, err := openSession(c)
	if err != nil {
		return nil, 0, err
	}
	return s, uint(id), nil
}

func printCart(s *session) error {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("Your cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tCOLOR\tQTY\tPRICE\tLINE")
	for _, line := range lines {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n", line.ProductID, line.Name, line.Size, line.Color,
			line.Quantity, line.UnitPrice.StringFixed(2), line.Worth().StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t\t\t%d\t\t%s\n", s.cart.Count(), s.cart.ItemsWorth().StringFixed(2))
	return w.Flush()
}

func printFavorites(s *session) error {
	items := s.favorites.Items()
	if len(items) == 0 {
		fmt.Println("No favorites yet")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.ProductID, item.Name, item.SalePrice.StringFixed(2))
	}
	return w.Flush()
}

func printSummary(summary storefront.OrderSummary) {
	fmt.Printf("Items:    %s\n", summary.ItemsWorth.StringFixed(2))
	fmt.Printf("Delivery: %s\n", summary.DeliveryCost.StringFixed(2))
	fmt.Printf("Discount: -%s\n", summary.Discount.StringFixed(2))
	if summary.PromoStale {
		fmt.Println("          (cart changed, promo code will be re-checked on submit)")
	}
	fmt.Printf("Total:    %s\n", summary.Total.StringFixed(2))
}

func printOrder(order *storefront.Order) {
	fmt.Printf("Order %s (%s)\n", order.OrderNo, order.Status)
	fmt.Printf("Contact:  %s %s, %s, %s\n", order.FirstName, order.LastName, order.Phone, order.Email)
	fmt.Printf("Delivery: %s, payment: %s\n", order.DeliveryMethod, order.PaymentMethod)
	for _, item := range order.Items {
		fmt.Printf("  %d x %s %s/%s  %s\n", item.Quantity, item.Name, item.Size, item.Color, item.TotalPrice.StringFixed(2))
	}
	printSummary(storefront.OrderSummary{
		ItemsWorth:   order.ItemsWorth,
		DeliveryCost: order.DeliveryCost,
		Discount:     order.Discount,
		Total:        order.Total,
	})
}
