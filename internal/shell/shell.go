// Package shell implements the interactive, menu-driven coinshelf session.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/internal/inventory"
	"github.com/mesh-intelligence/coinshelf/internal/valuation"
	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// Inventory is the subset of inventory.Service the shell drives.
type Inventory interface {
	Add(ctx context.Context, req inventory.AddRequest) (inventory.AddResult, error)
	Delete(ctx context.Context, coinIndex, year int) error
	List(ctx context.Context) (inventory.Listing, error)
	ClearAll(ctx context.Context) (int, error)
}

// Options configures a Shell.
type Options struct {
	Inventory Inventory
	Catalog   types.Catalog
	Opener    Opener
	VendorURL string
	In        io.Reader
	Out       io.Writer
	Logger    *zap.Logger
}

// Shell runs the menu loop over an input and output stream.
type Shell struct {
	inv       Inventory
	catalog   types.Catalog
	opener    Opener
	vendorURL string
	in        *bufio.Reader
	out       io.Writer
	logger    *zap.Logger
}

// errEOF ends the session when input runs out.
var errEOF = errors.New("end of input")

const menu = `
Menu:
1. Add a Coin
2. Delete a Coin
3. Display Entire Collection
4. Clear all Tables
5. Visit Apmex
6. Exit
`

const (
	msgInvalidNumber = "Invalid input. Please enter a number."
	msgInvalidChoice = "Invalid choice."
)

// New creates a Shell. Missing optional fields get defaults: the default
// catalog, the system browser, and the default vendor URL.
func New(opts Options) *Shell {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Catalog.Len() == 0 {
		opts.Catalog = types.DefaultCatalog()
	}
	if opts.Opener == nil {
		opts.Opener = BrowserOpener{}
	}
	if opts.VendorURL == "" {
		opts.VendorURL = types.DefaultVendorURL
	}
	return &Shell{
		inv:       opts.Inventory,
		catalog:   opts.Catalog,
		opener:    opts.Opener,
		vendorURL: opts.VendorURL,
		in:        bufio.NewReader(opts.In),
		out:       opts.Out,
		logger:    opts.Logger,
	}
}

// Run asks for the day's spot price and then serves the menu until the user
// exits or input ends. Operation errors are printed and never end the loop.
// Run returns ctx.Err() if the context is cancelled between commands.
func (s *Shell) Run(ctx context.Context) error {
	spot, err := s.readSpotPrice()
	if errors.Is(err, errEOF) {
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Debug("spot price set", zap.String("spot_price", spot.String()))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, menu)
		choice, err := s.prompt("Enter your choice: ")
		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.addCoin(ctx, spot)
		case "2":
			err = s.deleteCoin(ctx)
		case "3":
			s.displayCollection(ctx)
		case "4":
			s.clearTables(ctx)
		case "5":
			s.visitVendor()
		case "6":
			return nil
		default:
			s.println("Invalid choice. Please try again.")
		}
		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readSpotPrice loops until the user enters a valid number.
func (s *Shell) readSpotPrice() (decimal.Decimal, error) {
	for {
		line, err := s.prompt("Enter Silver Spot Price for today: ")
		if err != nil {
			return decimal.Zero, err
		}
		spot, err := valuation.ParseSpotPrice(line)
		if err == nil {
			return spot, nil
		}
		s.println("Invalid input. Please enter a valid number.")
	}
}

// chooseCoin prints the catalog and reads a 1-based choice. ok is false when
// the choice was rejected and a message has already been printed.
func (s *Shell) chooseCoin(verb string) (index int, ok bool, err error) {
	s.println("Select a coin to " + verb + ":")
	for i, c := range s.catalog.List() {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, c.Name)
	}
	index, ok, err = s.promptInt("Enter your choice: ")
	if err != nil || !ok {
		return 0, false, err
	}
	if _, err := s.catalog.Get(index); err != nil {
		s.println(msgInvalidChoice)
		return 0, false, nil
	}
	return index, true, nil
}

func (s *Shell) addCoin(ctx context.Context, spot decimal.Decimal) error {
	index, ok, err := s.chooseCoin("add")
	if err != nil || !ok {
		return err
	}
	year, ok, err := s.promptInt("Enter year: ")
	if err != nil || !ok {
		return err
	}
	quantity, ok, err := s.promptInt("Enter the number of coins: ")
	if err != nil || !ok {
		return err
	}
	photo, err := s.prompt("Enter photo path (leave empty if none): ")
	if err != nil {
		return err
	}

	res, err := s.inv.Add(ctx, inventory.AddRequest{
		CoinIndex: index,
		Year:      year,
		Quantity:  quantity,
		SpotPrice: spot,
		PhotoPath: photo,
	})
	if err != nil {
		s.logger.Warn("add failed", zap.Error(err))
		s.println("Error adding coin: " + err.Error())
		return nil
	}
	if res.Outcome == inventory.Updated {
		s.println("Coin quantity updated successfully!")
	} else {
		s.println("Coin added successfully!")
	}
	return nil
}

func (s *Shell) deleteCoin(ctx context.Context) error {
	index, ok, err := s.chooseCoin("delete")
	if err != nil || !ok {
		return err
	}
	year, ok, err := s.promptInt("Enter year: ")
	if err != nil || !ok {
		return err
	}

	if err := s.inv.Delete(ctx, index, year); err != nil {
		s.logger.Warn("delete failed", zap.Error(err))
		s.println("Error deleting coin: " + err.Error())
		return nil
	}
	s.println("Coin deleted successfully!")
	return nil
}

func (s *Shell) displayCollection(ctx context.Context) {
	listing, err := s.inv.List(ctx)
	if err != nil {
		s.logger.Warn("list failed", zap.Error(err))
		s.println("Error displaying collection: " + err.Error())
		return
	}
	if listing.Empty() {
		s.println("No coins found.")
		return
	}
	WriteListing(s.out, listing)
}

// WriteListing prints the collection table followed by its total.
func WriteListing(out io.Writer, listing inventory.Listing) {
	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "Type of Coin\t| Year\t| Quantity\t| Value (USD)")
	fmt.Fprintln(w, "------------\t| ----\t| --------\t| -----------")
	for _, line := range listing.Lines {
		fmt.Fprintf(w, "%s\t| %d\t| %d\t| %s\n",
			line.CoinType, line.Year, line.NumCoins, valuation.FormatPlain(line.LineValue))
	}
	w.Flush()
	fmt.Fprintf(out, "Total Portfolio Value: %s USD\n", valuation.FormatPlain(listing.Total))
}

func (s *Shell) clearTables(ctx context.Context) {
	n, err := s.inv.ClearAll(ctx)
	if err != nil {
		s.logger.Warn("clear failed", zap.Int("deleted", n), zap.Error(err))
		s.println("Error clearing tables: " + err.Error())
		return
	}
	s.println("All tables cleared successfully!")
}

func (s *Shell) visitVendor() {
	s.println("Visiting Apmex...")
	if err := s.opener.Open(s.vendorURL); err != nil {
		s.logger.Warn("open vendor url failed", zap.String("url", s.vendorURL), zap.Error(err))
		s.println("Error opening browser: " + err.Error())
	}
}

// prompt writes label and returns the next input line without surrounding
// whitespace. Lines of any length are accepted. It returns errEOF when input
// is exhausted.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			fmt.Fprintln(s.out)
			return "", errEOF
		}
	}
	return strings.TrimSpace(line), nil
}

// promptInt reads an integer. A non-integer prints the invalid input message
// and reports ok=false.
func (s *Shell) promptInt(label string) (n int, ok bool, err error) {
	line, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	n, err = strconv.Atoi(line)
	if err != nil {
		s.println(msgInvalidNumber)
		return 0, false, nil
	}
	return n, true, nil
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}
