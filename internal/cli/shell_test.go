package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/memdb"
	"github.com/georgemunganga/wegmans2/internal/modules/auth"
	"github.com/georgemunganga/wegmans2/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testDeps(t *testing.T, db *memdb.DB) session.Deps {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return db.Deps(auth.NewService(map[string]string{"boss": string(hash)}, "s3cret"))
}

func newTestShell(t *testing.T, db *memdb.DB, creds session.Credentials) (*Shell, *bytes.Buffer) {
	t.Helper()
	sess, err := session.Login(context.Background(), testDeps(t, db), creds)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return NewShell(sess, strings.NewReader(""), out), out
}

func customerShell(t *testing.T, db *memdb.DB) (*Shell, *bytes.Buffer) {
	return newTestShell(t, db, session.Credentials{Phone: "5855550100"})
}

func adminShell(t *testing.T, db *memdb.DB) (*Shell, *bytes.Buffer) {
	return newTestShell(t, db, session.Credentials{Admin: auth.Credentials{Username: "boss", Password: "hunter2"}})
}

func TestShellCustomerCheckout(t *testing.T) {
	db := memdb.Seeded()
	sh, out := customerShell(t, db)
	ctx := context.Background()

	require.NoError(t, sh.Exec(ctx, "store set S1"))
	assert.Contains(t, out.String(), "Now shopping at Store S1")

	require.NoError(t, sh.Exec(ctx, "cart add P1 3"))
	assert.Contains(t, out.String(), "Added 3 P1 (3 in cart).")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "cart total"))
	assert.Equal(t, "$7.50\n", out.String())

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "cart checkout"))
	assert.Contains(t, out.String(), "Checked out 3 item(s) at store S1 for $7.50.")

	n, _ := db.Stock("S1", "00001")
	assert.Equal(t, 7, n)
	assert.Len(t, db.Orders(), 1)

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "cart show"))
	assert.Equal(t, "Your cart is empty.\n", out.String())
}

func TestShellErrorsAreKinds(t *testing.T) {
	db := memdb.Seeded()
	sh, _ := customerShell(t, db)
	ctx := context.Background()

	tests := []struct {
		line string
		want error
	}{
		{"cart add P1 1", errs.ErrNoStoreSelected},
		{"product list", errs.ErrNoStoreSelected},
		{"store set S9", errs.ErrNoSuchStore},
		{"admin vendors", errs.ErrNotPermitted},
		{"cart add P1 zero", errs.ErrUsage},
		{"cart add P1", errs.ErrUsage},
		{"frobnicate", errs.ErrUsage},
		{"store search --bogus", errs.ErrUsage},
		{"store search -t 0700", errs.ErrUsage},
		{"store search -t 0700 2500", errs.ErrUsage},
		{`cart add "P1 3`, errs.ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.ErrorIs(t, sh.Exec(ctx, tt.line), tt.want)
		})
	}

	require.NoError(t, sh.Exec(ctx, "store set S1"))
	assert.ErrorIs(t, sh.Exec(ctx, "cart add P2 1"), errs.ErrInsufficientStock)
	assert.ErrorIs(t, sh.Exec(ctx, "cart add P9 1"), errs.ErrNoSuchProduct)
	assert.ErrorIs(t, sh.Exec(ctx, "cart checkout"), errs.ErrUsage)
}

func TestShellStoreSearch(t *testing.T) {
	sh, out := customerShell(t, memdb.Seeded())
	ctx := context.Background()

	require.NoError(t, sh.Exec(ctx, "store search -s ma"))
	assert.Contains(t, out.String(), "S2")
	assert.NotContains(t, out.String(), "S1 ")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "store search -t 0600 2200"))
	assert.Contains(t, out.String(), "S2")
	assert.NotContains(t, out.String(), "S1")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "store search -t 0600,2300 -i P1"))
	assert.Contains(t, out.String(), "S1")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "store search -s TX"))
	assert.Equal(t, "No stores found.\n", out.String())
}

func TestShellProductSearch(t *testing.T) {
	sh, out := customerShell(t, memdb.Seeded())
	ctx := context.Background()
	require.NoError(t, sh.Exec(ctx, "store set S1"))

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "product search --price 2.00 3.00"))
	assert.Contains(t, out.String(), "P1")
	assert.NotContains(t, out.String(), "P2")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "product search --brand Wegmans --type dairy"))
	assert.Contains(t, out.String(), "P2")
	assert.NotContains(t, out.String(), "P1")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "product list"))
	assert.Contains(t, out.String(), "$2.50")
	assert.Contains(t, out.String(), "$1.00")

	assert.ErrorIs(t, sh.Exec(ctx, "product search"), errs.ErrUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "product search --price cheap 3"), errs.ErrUsage)
}

func TestShellAdministrator(t *testing.T) {
	db := memdb.Seeded()
	sh, out := adminShell(t, db)
	ctx := context.Background()

	require.NoError(t, sh.Exec(ctx, "admin price set --upc 00001 3.00"))
	assert.Contains(t, out.String(), "Price of 00001 set to $3.00.")
	assert.ErrorIs(t, sh.Exec(ctx, "admin price set 3.00"), errs.ErrUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "admin price set --upc 00001 --name P1 3.00"), errs.ErrUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "admin price set --upc 00001 -- -1"), errs.ErrUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "admin price set --upc 00001 3.005"), errs.ErrUsage)

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "admin reorder request S1 00002 5"))
	assert.Contains(t, out.String(), "placed: 5 of 00002 for store S1.")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "admin reorder list"))
	assert.Contains(t, out.String(), "00002")

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "admin reorder fulfill"))
	assert.Contains(t, out.String(), "5 of 00002 delivered to store S1 by Acme Foods")
	n, _ := db.Stock("S1", "00002")
	assert.Equal(t, 5, n)

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "admin reorder fulfill"))
	assert.Equal(t, "No unfulfilled reorders.\n", out.String())

	out.Reset()
	require.NoError(t, sh.Exec(ctx, "admin vendors --brand Wegmans"))
	assert.Contains(t, out.String(), "Acme Foods")

	assert.ErrorIs(t, sh.Exec(ctx, "cart add P1 1"), errs.ErrNotPermitted)
	assert.ErrorIs(t, sh.Exec(ctx, "admin reorder request S9 00001 1"), errs.ErrNoSuchStore)
}

func TestShellReportPopular(t *testing.T) {
	db := memdb.Seeded()
	ctx := context.Background()
	cust, _ := customerShell(t, db)
	require.NoError(t, cust.Exec(ctx, "store set S1"))
	require.NoError(t, cust.Exec(ctx, "cart add P1 2"))
	require.NoError(t, cust.Exec(ctx, "cart checkout"))

	sh, out := adminShell(t, db)
	require.NoError(t, sh.Exec(ctx, "report popular --revenue"))
	assert.Contains(t, out.String(), "REVENUE")
	assert.Contains(t, out.String(), "$5.00")

	assert.ErrorIs(t, sh.Exec(ctx, "report popular --store"), errs.ErrNoStoreSelected)
}

func TestShellRun(t *testing.T) {
	db := memdb.Seeded()
	sess, err := session.Login(context.Background(), testDeps(t, db), session.Credentials{Phone: "5855550100"})
	require.NoError(t, err)

	script := strings.Join([]string{
		"# comment",
		"",
		"whoami",
		"cart add P1 1",
		"store set S1",
		"cart add P1 1",
		"quit",
		"cart add P1 1",
	}, "\n")
	out := &bytes.Buffer{}
	require.NoError(t, NewShell(sess, strings.NewReader(script), out).Run(context.Background()))

	assert.Contains(t, out.String(), "Ada Lovelace (customer)")
	assert.Contains(t, out.String(), "Error: no store selected")
	assert.Contains(t, out.String(), "Added 1 P1 (1 in cart).")
	assert.NotContains(t, out.String(), "(2 in cart)")
}

func TestShellRunEndOfInput(t *testing.T) {
	sh, _ := customerShell(t, memdb.Seeded())
	sh.in = strings.NewReader("store set S1\n")
	assert.NoError(t, sh.Run(context.Background()))
}

func TestShellRunCancelled(t *testing.T) {
	sh, _ := customerShell(t, memdb.Seeded())
	r, w := io.Pipe()
	defer w.Close()
	sh.in = r

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sh.Run(ctx), context.Canceled)
}

func TestShellReportStorageError(t *testing.T) {
	sh, out := adminShell(t, memdb.Seeded())
	sh.report(errs.Storage("fulfillReorder", errors.New("deadlock detected")))
	assert.Equal(t, "Error: storage error in fulfillReorder: deadlock detected\n", out.String())
}
