package session

import (
	"context"

	"github.com/georgemunganga/wegmans2/internal/modules/cart"
	"github.com/georgemunganga/wegmans2/internal/modules/customer"
	"github.com/shopspring/decimal"
)

// Customer is a shopper's view of the session. It owns the cart.
type Customer struct {
	info    customer.Customer
	session *Session
	cart    *cart.Cart
}

func (c *Customer) user()         {}
func (c *Customer) Role() string  { return "customer" }
func (c *Customer) Name() string  { return c.info.Name() }
func (c *Customer) Phone() string { return c.info.Phone }

// CartState reports where the cart is in its lifecycle.
func (c *Customer) CartState() cart.State { return c.cart.State() }

func (c *Customer) AddItem(ctx context.Context, name string, n int) (*cart.Line, error) {
	return c.cart.AddItem(ctx, name, n)
}

func (c *Customer) RemoveItem(name string, n int) error {
	return c.cart.RemoveItem(name, n)
}

func (c *Customer) CartLines() []cart.Line { return c.cart.Lines() }

func (c *Customer) CartTotal() decimal.Decimal { return c.cart.Total() }

// Checkout commits the cart. On success the customer starts over with a
// fresh cart at the same store.
func (c *Customer) Checkout(ctx context.Context) (*cart.Receipt, error) {
	receipt, err := c.cart.Checkout(ctx)
	if err != nil {
		return nil, err
	}
	deps := c.session.deps
	c.cart = cart.New(deps.Products, deps.Checkout, deps.Publisher)
	c.cart.SetStore(c.session.storeID())
	return receipt, nil
}
