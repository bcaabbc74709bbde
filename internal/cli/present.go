package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/georgemunganga/wegmans2/internal/modules/cart"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/reorder"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/shopspring/decimal"
)

// money renders a price as dollars and cents, rounding half to even.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixedBank(2)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printStore(w io.Writer, s *store.Store) {
	fmt.Fprintf(w, "Store %s: %s, open %s\n", s.ID, s.Address(), s.Hours())
}

func printStores(w io.Writer, stores []*store.Store) {
	if len(stores) == 0 {
		fmt.Fprintln(w, "No stores found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tADDRESS\tHOURS")
	for _, s := range stores {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Address(), s.Hours())
	}
	tw.Flush()
}

func printProducts(w io.Writer, products []*product.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "UPC\tNAME\tBRAND\tTYPE\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.UPC, p.Name, p.Brand, p.Type, money(p.Price))
	}
	tw.Flush()
}

func printCart(w io.Writer, lines []cart.Line, total decimal.Decimal) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ITEM\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.Product.Name, l.Quantity, money(l.Product.Price), money(l.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %s\n", money(total))
}

func printReceipt(w io.Writer, r *cart.Receipt) {
	units := 0
	for _, l := range r.Lines {
		units += l.Quantity
	}
	fmt.Fprintf(w, "Checked out %d item(s) at store %s for %s.\n", units, r.StoreID, money(r.Total))
}

func printRanked(w io.Writer, ranked []*sales.Ranked, metric sales.Metric) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No sales recorded.")
		return
	}
	tw := table(w)
	if metric == sales.Revenue {
		fmt.Fprintln(tw, "RANK\tUPC\tNAME\tREVENUE")
	} else {
		fmt.Fprintln(tw, "RANK\tUPC\tNAME\tUNITS")
	}
	for i, r := range ranked {
		total := r.Total.String()
		if metric == sales.Revenue {
			total = money(r.Total)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.UPC, r.Name, total)
	}
	tw.Flush()
}

func printPriceChange(w io.Writer, c *product.PriceChange) {
	fmt.Fprintf(w, "Price of %s set to %s.\n", c.Key, money(c.Price))
	if c.Rows > 1 {
		fmt.Fprintf(w, "Note: %d products share that name and were all updated.\n", c.Rows)
	}
}

func printReorders(w io.Writer, list []*reorder.Reorder) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No unfulfilled reorders.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ORDER\tSTORE\tUPC\tQTY")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.OrderNumber, r.Store, r.Product, r.StockRequested)
	}
	tw.Flush()
}

func printFulfillment(w io.Writer, report *reorder.FulfillReport) {
	if report.Pending == 0 {
		fmt.Fprintln(w, "No unfulfilled reorders.")
		return
	}
	for _, f := range report.Fulfilled {
		fmt.Fprintf(w, "Reorder %s: %d of %s delivered to store %s by %s on %s.\n",
			f.OrderNumber, f.Restocked, f.Product, f.Store, f.Vendor, f.DeliveryDate.Format("2006-01-02"))
	}
	if report.Skipped > 0 {
		fmt.Fprintf(w, "%d reorder(s) were already fulfilled elsewhere.\n", report.Skipped)
	}
	for _, number := range report.Undistributed {
		fmt.Fprintf(w, "Reorder %s left pending: no vendor distributes its brand.\n", number)
	}
}

func printVendors(w io.Writer, list []*vendor.Distribution) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No vendors found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "BRAND\tVENDOR")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\n", d.Brand, d.Vendor)
	}
	tw.Flush()
}
