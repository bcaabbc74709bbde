package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/georgemunganga/wegmans2/internal/session"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// newShellCommand builds the command tree for one shell line. A fresh tree
// per line keeps flag values from leaking between commands.
func newShellCommand(sh *Shell) *cobra.Command {
	root := &cobra.Command{
		Use:           "wegmans2",
		Short:         "Wegmans2 grocery shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		storeCommand(sh),
		productCommand(sh),
		cartCommand(sh),
		reportCommand(sh),
		adminCommand(sh),
		whoamiCommand(sh),
		quitCommand(),
	)
	return root
}

func storeCommand(sh *Shell) *cobra.Command {
	cmd := &cobra.Command{Use: "store", Short: "Select and search stores"}

	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Select the current store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := sh.sess.SelectStore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(sh.out, "Now shopping at ")
			printStore(sh.out, st)
			return nil
		},
	}

	var state, item, open string
	search := &cobra.Command{
		Use:   "search [-s <state>] [-i <item>] [-t <HHMM> <HHMM>]",
		Short: "Search stores by state, item carried or opening hours",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := store.SearchRequest{State: strings.ToUpper(state), Item: item}
			if cmd.Flags().Changed("time") {
				from, to, err := pair("--time", open, args)
				if err != nil {
					return err
				}
				o, err1 := hhmm(from)
				c, err2 := hhmm(to)
				if err1 != nil || err2 != nil {
					return errs.Usagef("--time takes two 4-digit 24-hour times, like 0700 2200")
				}
				req.Hours = &store.Hours{Open: o, Close: c}
			} else if len(args) > 0 {
				return errs.Usagef("unexpected argument %q", args[0])
			}
			stores, err := sh.sess.SearchStores(cmd.Context(), req)
			if err != nil {
				return err
			}
			printStores(sh.out, stores)
			return nil
		},
	}
	search.Flags().StringVarP(&state, "state", "s", "", "two-letter state code")
	search.Flags().StringVarP(&item, "item", "i", "", "product name the store must carry")
	search.Flags().StringVarP(&open, "time", "t", "", "opening window, two HHMM times")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := sh.sess.CurrentStore()
			if err != nil {
				return err
			}
			printStore(sh.out, st)
			return nil
		},
	}

	cmd.AddCommand(set, search, show)
	return cmd
}

func productCommand(sh *Shell) *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Browse the current store's products"}

	var name, brand, typ, low string
	search := &cobra.Command{
		Use:   "search [--name <n>] [--brand <b>] [--type <t>] [--price <low> <high>]",
		Short: "Search products at the current store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := product.Filter{Name: name, Brand: brand, Type: typ}
			if cmd.Flags().Changed("price") {
				from, to, err := pair("--price", low, args)
				if err != nil {
					return err
				}
				lo, err1 := decimal.NewFromString(from)
				hi, err2 := decimal.NewFromString(to)
				if err1 != nil || err2 != nil {
					return errs.Usagef("--price takes two prices, like 1.00 5.00")
				}
				f.PriceRange = &product.PriceRange{Low: lo, High: hi}
			} else if len(args) > 0 {
				return errs.Usagef("unexpected argument %q", args[0])
			}
			products, err := sh.sess.SearchProducts(cmd.Context(), f)
			if err != nil {
				return err
			}
			printProducts(sh.out, products)
			return nil
		},
	}
	search.Flags().StringVar(&name, "name", "", "product name")
	search.Flags().StringVar(&brand, "brand", "", "brand")
	search.Flags().StringVar(&typ, "type", "", "product type")
	search.Flags().StringVar(&low, "price", "", "price range, two prices (exclusive)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every product at the current store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := sh.sess.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(sh.out, products)
			return nil
		},
	}

	cmd.AddCommand(search, list)
	return cmd
}

func cartCommand(sh *Shell) *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Manage your shopping cart"}

	add := &cobra.Command{
		Use:   "add <item> <n>",
		Short: "Add n of an item to the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sh.sess.Customer()
			if err != nil {
				return err
			}
			n, err := count(args[1])
			if err != nil {
				return err
			}
			line, err := c.AddItem(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}
			fmt.Fprintf(sh.out, "Added %d %s (%d in cart).\n", n, line.Product.Name, line.Quantity)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <item> <n>",
		Short: "Remove n of an item from the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sh.sess.Customer()
			if err != nil {
				return err
			}
			n, err := count(args[1])
			if err != nil {
				return err
			}
			return c.RemoveItem(args[0], n)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sh.sess.Customer()
			if err != nil {
				return err
			}
			printCart(sh.out, c.CartLines(), c.CartTotal())
			return nil
		},
	}

	total := &cobra.Command{
		Use:   "total",
		Short: "Print the cart total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sh.sess.Customer()
			if err != nil {
				return err
			}
			fmt.Fprintln(sh.out, money(c.CartTotal()))
			return nil
		},
	}

	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Buy everything in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sh.sess.Customer()
			if err != nil {
				return err
			}
			receipt, err := c.Checkout(cmd.Context())
			if err != nil {
				return err
			}
			printReceipt(sh.out, receipt)
			return nil
		},
	}

	cmd.AddCommand(add, remove, show, total, checkout)
	return cmd
}

func reportCommand(sh *Shell) *cobra.Command {
	cmd := &cobra.Command{Use: "report", Short: "Sales reports"}

	var req session.PopularRequest
	var revenue bool
	popular := &cobra.Command{
		Use:   "popular [--store] [--least] [--revenue]",
		Short: "Show the three most (or least) popular products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Metric = sales.Units
			if revenue {
				req.Metric = sales.Revenue
			}
			ranked, err := sh.sess.Popular(cmd.Context(), req)
			if err != nil {
				return err
			}
			printRanked(sh.out, ranked, req.Metric)
			return nil
		},
	}
	popular.Flags().BoolVar(&req.ThisStore, "store", false, "only count sales at the current store")
	popular.Flags().BoolVar(&req.Least, "least", false, "rank least popular first")
	popular.Flags().BoolVar(&revenue, "revenue", false, "rank by revenue instead of units sold")

	cmd.AddCommand(popular)
	return cmd
}

func adminCommand(sh *Shell) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := sh.sess.Administrator()
			return err
		},
	}
	admin := func() *session.Administrator {
		a, _ := sh.sess.Administrator()
		return a
	}

	var upc, name string
	priceSet := &cobra.Command{
		Use:   "set (--upc <u> | --name <n>) <price>",
		Short: "Change a product's price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[0])
			if err != nil {
				return errs.Usagef("%q is not a price", args[0])
			}
			var change *product.PriceChange
			switch {
			case upc != "" && name != "":
				return errs.Usagef("give --upc or --name, not both")
			case upc != "":
				change, err = admin().UpdatePriceByUPC(cmd.Context(), upc, price)
			case name != "":
				change, err = admin().UpdatePriceByName(cmd.Context(), name, price)
			default:
				return errs.Usagef("give --upc or --name")
			}
			if err != nil {
				return err
			}
			printPriceChange(sh.out, change)
			return nil
		},
	}
	priceSet.Flags().StringVar(&upc, "upc", "", "product upc")
	priceSet.Flags().StringVar(&name, "name", "", "product name, updates every product with it")
	price := &cobra.Command{Use: "price", Short: "Manage prices"}
	price.AddCommand(priceSet)

	request := &cobra.Command{
		Use:   "request <storeId> <upc> <quantity>",
		Short: "Request a restock",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := count(args[2])
			if err != nil {
				return err
			}
			ro, err := admin().RequestReorder(cmd.Context(), args[0], args[1], n)
			if err != nil {
				return err
			}
			fmt.Fprintf(sh.out, "Reorder %s placed: %d of %s for store %s.\n", ro.OrderNumber, ro.StockRequested, ro.Product, ro.Store)
			return nil
		},
	}
	fulfill := &cobra.Command{
		Use:   "fulfill",
		Short: "Deliver every unfulfilled reorder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := admin().FulfillReorders(cmd.Context())
			if report != nil {
				printFulfillment(sh.out, report)
			}
			return err
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List unfulfilled reorders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := admin().PendingReorders(cmd.Context())
			if err != nil {
				return err
			}
			printReorders(sh.out, pending)
			return nil
		},
	}
	reorderCmd := &cobra.Command{Use: "reorder", Short: "Manage restocking"}
	reorderCmd.AddCommand(request, fulfill, list)

	var brand string
	vendors := &cobra.Command{
		Use:   "vendors [--brand <b>]",
		Short: "List which vendors distribute which brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dists, err := admin().Vendors(cmd.Context(), brand)
			if err != nil {
				return err
			}
			printVendors(sh.out, dists)
			return nil
		},
	}
	vendors.Flags().StringVar(&brand, "brand", "", "only this brand")

	var ttl time.Duration
	token := &cobra.Command{
		Use:   "token [--ttl 24h]",
		Short: "Issue a login token for --token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := admin().IssueToken(ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(sh.out, t)
			return nil
		},
	}
	token.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	cmd.AddCommand(price, reorderCmd, vendors, token)
	return cmd
}

func whoamiCommand(sh *Shell) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who is logged in and where",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := sh.sess.User()
			fmt.Fprintf(sh.out, "%s (%s)\n", u.Name(), u.Role())
			if st, err := sh.sess.CurrentStore(); err == nil {
				printStore(sh.out, st)
			}
			return nil
		},
	}
}

func quitCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "quit",
		Aliases: []string{"exit"},
		Short:   "Leave the shell",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errQuit
		},
	}
}

// pair reads a two-value option given either as "--flag a b" or "--flag a,b".
func pair(flag, first string, rest []string) (string, string, error) {
	if a, b, ok := strings.Cut(first, ","); ok && len(rest) == 0 {
		return a, b, nil
	}
	if len(rest) != 1 {
		return "", "", errs.Usagef("%s takes exactly two values", flag)
	}
	return first, rest[0], nil
}

func hhmm(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("%q is not HHMM", s)
	}
	t, err := strconv.Atoi(s)
	if err != nil || !store.ValidTime(t) {
		return 0, fmt.Errorf("%q is not HHMM", s)
	}
	return t, nil
}

func count(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errs.Usagef("%q is not a positive whole number", s)
	}
	return n, nil
}
