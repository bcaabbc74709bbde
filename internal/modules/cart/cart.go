// Package cart stages a customer's purchases at one store and commits them
// in a single checkout transaction.
package cart

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/messaging"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type lineRequest struct {
	Name     string `validate:"required"`
	Quantity int    `validate:"gt=0"`
}

// Cart maps product upc to a staged line. It is not safe for concurrent use;
// a session drives it one command at a time.
type Cart struct {
	storeID string
	lines   map[string]*Line
	state   State

	catalog   Catalog
	repo      Repository
	publisher messaging.Publisher
	validate  *validator.Validate
	now       func() time.Time
}

// New creates an empty cart with no store bound.
func New(catalog Catalog, repo Repository, publisher messaging.Publisher) *Cart {
	if publisher == nil {
		publisher = messaging.Nop{}
	}
	return &Cart{
		lines:     make(map[string]*Line),
		catalog:   catalog,
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
		now:       time.Now,
	}
}

func (c *Cart) StoreID() string { return c.storeID }
func (c *Cart) State() State    { return c.state }
func (c *Cart) Len() int        { return len(c.lines) }

// SetStore binds the cart to storeID and drops every line.
func (c *Cart) SetStore(storeID string) {
	c.storeID = storeID
	c.reset()
}

func (c *Cart) reset() {
	c.lines = make(map[string]*Line)
	c.state = Empty
}

// AddItem stages n units of the named product, snapshotting its price the
// first time it is added. The cart is unchanged when the store cannot
// cover n plus what is already staged.
func (c *Cart) AddItem(ctx context.Context, name string, n int) (*Line, error) {
	if err := c.validate.Struct(lineRequest{Name: name, Quantity: n}); err != nil {
		return nil, errs.Usagef("cart add <item> <n> needs an item name and n > 0")
	}
	if c.storeID == "" {
		return nil, errs.ErrNoStoreSelected
	}

	p, err := c.catalog.FindInStore(ctx, c.storeID, name)
	if err != nil {
		return nil, err
	}
	stock, err := c.catalog.StockLevel(ctx, c.storeID, p.UPC)
	if err != nil {
		return nil, err
	}

	line, ok := c.lines[p.UPC]
	staged := 0
	if ok {
		staged = line.Quantity
	}
	if staged+n > stock {
		return nil, fmt.Errorf("%s: %d requested, %d in cart, %d in stock: %w",
			p.Name, n, staged, stock, errs.ErrInsufficientStock)
	}

	if !ok {
		line = &Line{Product: *p}
		c.lines[p.UPC] = line
	}
	line.Quantity += n
	c.state = Staging
	return line, nil
}

// RemoveItem unstages up to n units of the named product. Removing an item
// that is not in the cart does nothing.
func (c *Cart) RemoveItem(name string, n int) error {
	if err := c.validate.Struct(lineRequest{Name: name, Quantity: n}); err != nil {
		return errs.Usagef("cart remove <item> <n> needs an item name and n > 0")
	}
	for upc, line := range c.lines {
		if line.Product.Name != name {
			continue
		}
		line.Quantity -= n
		if line.Quantity <= 0 {
			delete(c.lines, upc)
		}
		break
	}
	if len(c.lines) == 0 {
		c.state = Empty
	} else {
		c.state = Staging
	}
	return nil
}

// Lines returns a copy of the staged lines ordered by product name.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product.Name != out[j].Product.Name {
			return out[i].Product.Name < out[j].Product.Name
		}
		return out[i].Product.UPC < out[j].Product.UPC
	})
	return out
}

// Total sums the lines and rounds to cents, half to even.
func (c *Cart) Total() decimal.Decimal {
	return total(c.Lines())
}

func total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum.RoundBank(2)
}

// Checkout commits every line. On success the cart is emptied and moves to
// Committed; on failure nothing is written, the lines are kept and the cart
// moves to Aborted.
func (c *Cart) Checkout(ctx context.Context) (*Receipt, error) {
	if c.storeID == "" {
		return nil, errs.ErrNoStoreSelected
	}
	if len(c.lines) == 0 {
		return nil, errs.Usagef("cart is empty")
	}

	lines := c.Lines()
	soldAt := c.now().UTC()
	orders, err := c.repo.Checkout(ctx, c.storeID, lines, soldAt)
	if err != nil {
		c.state = Aborted
		return nil, err
	}

	receipt := &Receipt{StoreID: c.storeID, Lines: lines, Total: total(lines), SoldAt: soldAt, Orders: orders}
	c.lines = make(map[string]*Line)
	c.state = Committed
	messaging.Emit(ctx, c.publisher, messaging.NewEvent(messaging.CartCheckedOut, receipt))
	return receipt, nil
}
