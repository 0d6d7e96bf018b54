// Package storefront implements the interactive text-menu facade over the
// inventory service.
package storefront

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	bkerrors "github.com/dkarpov/bookstore/internal/errors"
	"github.com/dkarpov/bookstore/internal/service"
)

const menu = `
--- Bookstore ---
 1) Search
 2) Buy
 3) Check stock
 4) Add book (admin)
 5) Remove book (admin)
 0) Exit
Choice: `

// Storefront translates menu choices into inventory service calls and
// formats the responses. Control flows one direction only: nothing in the
// core calls back into the storefront.
type Storefront struct {
	inventory service.InventoryService
	in        *bufio.Scanner
	out       io.Writer
	logger    *slog.Logger
}

func New(inventory service.InventoryService, in io.Reader, out io.Writer, logger *slog.Logger) *Storefront {
	return &Storefront{
		inventory: inventory,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger.With("component", "storefront"),
	}
}

// Run drives the menu loop until Exit is chosen, input ends or the context
// is cancelled. Failures of a single action are printed and the session
// continues.
func (s *Storefront) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, ok := s.prompt(menu)
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			s.search(ctx)
		case "2":
			s.buy(ctx)
		case "3":
			s.checkStock(ctx)
		case "4":
			s.withAdmin(func() { s.addBook(ctx) })
		case "5":
			s.withAdmin(func() { s.removeBook(ctx) })
		case "0":
			s.printf("Goodbye.\n")
			return nil
		default:
			// Invalid choice just reprints the menu.
		}
	}
}

func (s *Storefront) search(ctx context.Context) {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	book, found := s.inventory.FindBook(ctx, title)
	if !found {
		s.printf("%q is not in the catalog.\n", title)
		return
	}
	s.printf("%s by %s (%s), price %d, %d in stock\n",
		book.Title, book.Author, book.Publisher, book.Price, book.Quantity)
}

func (s *Storefront) buy(ctx context.Context) {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	quantity, ok := s.promptInt("Copies: ")
	if !ok {
		return
	}
	discounted := s.promptYesNo("Member discount? [y/N]: ")
	policy := service.PolicyFor(discounted)

	sold, err := policy.Sell(ctx, s.inventory, title, quantity)
	if err != nil {
		s.reportError(err)
		return
	}
	if !sold {
		s.printf("Not enough copies of %q in stock.\n", title)
		return
	}

	var unit int64
	if book, found := s.inventory.FindBook(ctx, title); found {
		unit = policy.DisplayPrice(book.Price)
	}
	s.printf("Sold %d x %q (%s sale) at %d each, total %d.\n",
		quantity, title, policy.Label(), unit, unit*quantity)
}

func (s *Storefront) checkStock(ctx context.Context) {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	s.printf("%q: %d in stock\n", title, s.inventory.CheckQuantity(ctx, title))
}

func (s *Storefront) addBook(ctx context.Context) {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	author, ok := s.prompt("Author: ")
	if !ok {
		return
	}
	publisher, ok := s.prompt("Publisher: ")
	if !ok {
		return
	}
	price, ok := s.promptInt("Price: ")
	if !ok {
		return
	}
	quantity, ok := s.promptInt("Copies: ")
	if !ok {
		return
	}

	if err := s.inventory.AddBook(ctx, title, author, publisher, price, quantity); err != nil {
		s.reportError(err)
		return
	}
	s.printf("Stocked %d x %q.\n", quantity, title)
}

func (s *Storefront) removeBook(ctx context.Context) {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	if err := s.inventory.RemoveBook(ctx, title); err != nil {
		s.reportError(err)
		return
	}
	s.printf("Removed %q.\n", title)
}

// withAdmin prompts for the administrator secret and runs the action only
// when authentication succeeds. A wrong secret blocks the action and the
// session continues.
func (s *Storefront) withAdmin(action func()) {
	secret, ok := s.prompt("Admin secret: ")
	if !ok {
		return
	}
	if !s.inventory.AuthenticateAdmin(secret) {
		s.printf("Authentication failed.\n")
		return
	}
	action()
}

func (s *Storefront) reportError(err error) {
	switch {
	case errors.Is(err, bkerrors.ErrInvalidArgument):
		s.printf("Invalid input: %v\n", err)
	case errors.Is(err, bkerrors.ErrPersistence):
		s.logger.Error("Persistence failure", "error", err)
		s.printf("Could not save the catalog; the change was not applied.\n")
	default:
		s.printf("Error: %v\n", err)
	}
}

// prompt writes the label and reads one line. The second return value is
// false when input has ended.
func (s *Storefront) prompt(label string) (string, bool) {
	s.printf("%s", label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Storefront) promptInt(label string) (int64, bool) {
	raw, ok := s.prompt(label)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.printf("Not a number: %q\n", raw)
		return 0, false
	}
	return value, true
}

func (s *Storefront) promptYesNo(label string) bool {
	raw, ok := s.prompt(label)
	if !ok {
		return false
	}
	raw = strings.ToLower(raw)
	return raw == "y" || raw == "yes"
}

func (s *Storefront) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
