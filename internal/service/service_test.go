package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dkarpov/bookstore/internal/catalog"
	bkerrors "github.com/dkarpov/bookstore/internal/errors"
	"github.com/dkarpov/bookstore/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPort is an in-memory CatalogPort with switchable failures.
type mockPort struct {
	records   []catalog.BookRecord
	saveCalls int
	loadErr   error
	saveErr   error
}

func (m *mockPort) Load(_ context.Context) ([]catalog.BookRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.records, nil
}

func (m *mockPort) Save(_ context.Context, records []catalog.BookRecord) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]catalog.BookRecord(nil), records...)
	return nil
}

// countingObserver counts Update calls and records its position in the
// fan-out.
type countingObserver struct {
	name    string
	updates int
	log     *[]string
}

func (o *countingObserver) Update() error {
	o.updates++
	if o.log != nil {
		*o.log = append(*o.log, o.name)
	}
	return nil
}

func newTestInventory(t *testing.T, port *mockPort) (*Inventory, *countingObserver) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.NewNotifier()
	inv := NewInventory(catalog.NewStore(), port, notifier, "s3cret", logger)
	observer := &countingObserver{name: "spy"}
	notifier.Attach(observer)
	return inv, observer
}

func Test_Inventory_AddBook_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		price    int64
		quantity int64
	}{
		{name: "Error - empty title", title: "", price: 100, quantity: 1},
		{name: "Error - zero quantity", title: "Dune", price: 100, quantity: 0},
		{name: "Error - negative quantity", title: "Dune", price: 100, quantity: -2},
		{name: "Error - negative price", title: "Dune", price: -1, quantity: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			port := &mockPort{}
			inv, observer := newTestInventory(t, port)

			err := inv.AddBook(context.Background(), tc.title, "Herbert", "Ace", tc.price, tc.quantity)

			assert.ErrorIs(t, err, bkerrors.ErrInvalidArgument)
			assert.Zero(t, port.saveCalls, "rejected operations must not persist")
			assert.Zero(t, observer.updates, "rejected operations must not notify")
		})
	}
}

func Test_Inventory_AddBook_AccumulatesAndRetainsMetadata(t *testing.T) {
	port := &mockPort{}
	inv, observer := newTestInventory(t, port)
	ctx := context.Background()

	require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))
	require.NoError(t, inv.AddBook(ctx, "Dune", "Impostor", "Nobody", 1, 3))

	book, found := inv.FindBook(ctx, "Dune")
	require.True(t, found)
	assert.Equal(t, int64(8), book.Quantity)
	assert.Equal(t, "Herbert", book.Author)
	assert.Equal(t, "Ace", book.Publisher)
	assert.Equal(t, int64(2000), book.Price)

	assert.Equal(t, 2, observer.updates, "one notification per committed add")
	assert.Equal(t, 2, port.saveCalls, "write-through after every mutation")
}

func Test_Inventory_SellBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - decrements and fires exactly once", func(t *testing.T) {
		port := &mockPort{}
		inv, observer := newTestInventory(t, port)
		require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))
		observer.updates = 0
		port.saveCalls = 0

		sold, err := inv.SellBook(ctx, "Dune", 3, false)

		require.NoError(t, err)
		assert.True(t, sold)
		assert.Equal(t, int64(2), inv.CheckQuantity(ctx, "Dune"))
		assert.Equal(t, 1, observer.updates)
		assert.Equal(t, 1, port.saveCalls)
	})

	t.Run("Rejected - insufficient stock leaves state untouched", func(t *testing.T) {
		port := &mockPort{}
		inv, observer := newTestInventory(t, port)
		require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 2))
		observer.updates = 0
		port.saveCalls = 0

		sold, err := inv.SellBook(ctx, "Dune", 5, false)

		require.NoError(t, err)
		assert.False(t, sold)
		assert.Equal(t, int64(2), inv.CheckQuantity(ctx, "Dune"))
		assert.Zero(t, observer.updates)
		assert.Zero(t, port.saveCalls)
	})

	t.Run("Rejected - absent title", func(t *testing.T) {
		port := &mockPort{}
		inv, _ := newTestInventory(t, port)

		sold, err := inv.SellBook(ctx, "Nowhere", 1, false)

		require.NoError(t, err)
		assert.False(t, sold)
	})

	t.Run("Error - non-positive quantity", func(t *testing.T) {
		port := &mockPort{}
		inv, _ := newTestInventory(t, port)

		_, err := inv.SellBook(ctx, "Dune", 0, false)

		assert.ErrorIs(t, err, bkerrors.ErrInvalidArgument)
	})

	t.Run("Discount flag does not change quantity math", func(t *testing.T) {
		port := &mockPort{}
		inv, _ := newTestInventory(t, port)
		require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))

		sold, err := inv.SellBook(ctx, "Dune", 2, true)

		require.NoError(t, err)
		assert.True(t, sold)
		assert.Equal(t, int64(3), inv.CheckQuantity(ctx, "Dune"))
		book, _ := inv.FindBook(ctx, "Dune")
		assert.Equal(t, int64(2000), book.Price, "stored price is never discounted")
	})
}

func Test_Inventory_RemoveBook(t *testing.T) {
	ctx := context.Background()
	port := &mockPort{}
	inv, observer := newTestInventory(t, port)
	require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))
	observer.updates = 0
	port.saveCalls = 0

	require.NoError(t, inv.RemoveBook(ctx, "Dune"))
	assert.Equal(t, int64(0), inv.CheckQuantity(ctx, "Dune"))
	assert.Equal(t, 1, observer.updates)
	assert.Equal(t, 1, port.saveCalls)

	// absent removal succeeds and commits nothing
	require.NoError(t, inv.RemoveBook(ctx, "Dune"))
	assert.Equal(t, 1, observer.updates)
	assert.Equal(t, 1, port.saveCalls)
}

func Test_Inventory_CheckQuantity_AbsentTitleIsZero(t *testing.T) {
	port := &mockPort{}
	inv, _ := newTestInventory(t, port)

	assert.Equal(t, int64(0), inv.CheckQuantity(context.Background(), "Nowhere"))
}

func Test_Inventory_PersistenceFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	port := &mockPort{}
	inv, observer := newTestInventory(t, port)
	require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))
	observer.updates = 0

	port.saveErr = errors.New("disk full")

	t.Run("add", func(t *testing.T) {
		err := inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 3)
		assert.ErrorIs(t, err, bkerrors.ErrPersistence)
		assert.Equal(t, int64(5), inv.CheckQuantity(ctx, "Dune"), "failed write must roll back the mutation")
		assert.Zero(t, observer.updates, "observers must not see uncommitted state")
	})

	t.Run("sell", func(t *testing.T) {
		sold, err := inv.SellBook(ctx, "Dune", 2, false)
		assert.ErrorIs(t, err, bkerrors.ErrPersistence)
		assert.False(t, sold)
		assert.Equal(t, int64(5), inv.CheckQuantity(ctx, "Dune"))
		assert.Zero(t, observer.updates)
	})

	t.Run("remove", func(t *testing.T) {
		err := inv.RemoveBook(ctx, "Dune")
		assert.ErrorIs(t, err, bkerrors.ErrPersistence)
		assert.Equal(t, int64(5), inv.CheckQuantity(ctx, "Dune"))
		assert.Zero(t, observer.updates)
	})
}

func Test_Inventory_LoadFromStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - replaces catalog and notifies once", func(t *testing.T) {
		port := &mockPort{records: []catalog.BookRecord{
			{Title: "Hyperion", Author: "Simmons", Publisher: "Doubleday", Price: 1800, Quantity: 2},
		}}
		inv, observer := newTestInventory(t, port)

		require.NoError(t, inv.LoadFromStore(ctx))

		assert.Equal(t, int64(2), inv.CheckQuantity(ctx, "Hyperion"))
		assert.Equal(t, 1, observer.updates)
	})

	t.Run("Error - failed load keeps previous catalog", func(t *testing.T) {
		port := &mockPort{}
		inv, observer := newTestInventory(t, port)
		require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))
		observer.updates = 0

		port.loadErr = errors.New("file vanished")
		err := inv.LoadFromStore(ctx)

		assert.ErrorIs(t, err, bkerrors.ErrPersistence)
		assert.Equal(t, int64(5), inv.CheckQuantity(ctx, "Dune"))
		assert.Zero(t, observer.updates)
	})
}

func Test_Inventory_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	port := &mockPort{}
	inv, _ := newTestInventory(t, port)

	require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))
	require.NoError(t, inv.AddBook(ctx, "Hyperion", "Simmons", "Doubleday", 1800, 2))
	sold, err := inv.SellBook(ctx, "Dune", 3, false)
	require.NoError(t, err)
	require.True(t, sold)
	require.NoError(t, inv.SaveToStore(ctx))

	before := inv.ListBooks(ctx)
	require.NoError(t, inv.LoadFromStore(ctx))
	assert.Equal(t, before, inv.ListBooks(ctx))
}

func Test_Inventory_TwoObserversFireOncePerMutation(t *testing.T) {
	ctx := context.Background()
	var log []string
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.NewNotifier()
	inv := NewInventory(catalog.NewStore(), &mockPort{}, notifier, "s3cret", logger)
	first := &countingObserver{name: "first", log: &log}
	second := &countingObserver{name: "second", log: &log}
	notifier.Attach(first)
	notifier.Attach(second)

	require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 2000, 5))

	assert.Equal(t, 1, first.updates)
	assert.Equal(t, 1, second.updates)
	assert.Equal(t, []string{"first", "second"}, log, "fan-out follows attachment order")
}

// The end-to-end scenario of the inventory state machine.
func Test_Inventory_DuneScenario(t *testing.T) {
	ctx := context.Background()
	port := &mockPort{}
	inv, _ := newTestInventory(t, port)

	require.NoError(t, inv.AddBook(ctx, "Dune", "Herbert", "Ace", 20, 5))
	assert.Equal(t, int64(5), inv.CheckQuantity(ctx, "Dune"))

	sold, err := inv.SellBook(ctx, "Dune", 3, false)
	require.NoError(t, err)
	assert.True(t, sold)
	assert.Equal(t, int64(2), inv.CheckQuantity(ctx, "Dune"))

	sold, err = inv.SellBook(ctx, "Dune", 5, false)
	require.NoError(t, err)
	assert.False(t, sold)
	assert.Equal(t, int64(2), inv.CheckQuantity(ctx, "Dune"))

	require.NoError(t, inv.RemoveBook(ctx, "Dune"))
	assert.Equal(t, int64(0), inv.CheckQuantity(ctx, "Dune"))
}

func Test_Inventory_AuthenticateAdmin(t *testing.T) {
	inv, _ := newTestInventory(t, &mockPort{})

	assert.True(t, inv.AuthenticateAdmin("s3cret"))
	assert.False(t, inv.AuthenticateAdmin("wrong"))
	assert.False(t, inv.AuthenticateAdmin(""))
	assert.False(t, inv.AuthenticateAdmin("s3cret "))
}
