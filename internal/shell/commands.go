package shell

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// pages maps bare page names onto their routes.
var pages = map[string]string{
	"home":         "/home",
	"menu":         "/menu",
	"offers":       "/offers",
	"categories":   "/categories",
	"cart":         "/cart",
	"checkout":     "/checkout",
	"orders":       "/orders",
	"reservations": "/reservations",
}

func (s *Shell) dispatch(ctx context.Context, line string) error {
	args := strings.Fields(line)
	cmd, rest := args[0], args[1:]

	if path, ok := pages[cmd]; ok {
		return s.router.Navigate(ctx, path)
	}

	switch cmd {
	case "help":
		s.printHelp()
		return nil
	case "go", "open":
		if len(rest) != 1 {
			return errors.New("usage: go <path>")
		}
		return s.router.Navigate(ctx, rest[0])
	case "refresh":
		s.cart.Fetch(ctx)
		return s.router.Navigate(ctx, s.router.Current())

	// Menu and offers.
	case "filter":
		return s.filter(ctx, rest)
	case "apply":
		return s.views.Menu.Apply(ctx)
	case "reset":
		return s.views.Menu.Reset(ctx)
	case "page":
		n, err := intArg(rest, 0, "usage: page <n>")
		if err != nil {
			return err
		}
		return s.views.Menu.GoToPage(ctx, n)
	case "next":
		return s.views.Menu.NextPage(ctx)
	case "prev":
		return s.views.Menu.PrevPage(ctx)
	case "add":
		return s.add(ctx, rest)
	case "rate":
		return s.rate(ctx, rest)
	case "food":
		if len(rest) != 1 {
			return errors.New("usage: food <id>")
		}
		return s.router.Navigate(ctx, "/food/"+rest[0])
	case "browse":
		n, err := intArg(rest, 0, "usage: browse <category position>")
		if err != nil {
			return err
		}
		return s.views.Categories.Browse(ctx, n)

	// Food detail.
	case "more":
		s.views.FoodDetail.Increment()
		return nil
	case "less":
		s.views.FoodDetail.Decrement()
		return nil
	case "buy":
		return s.views.FoodDetail.AddToCart(ctx)
	case "review":
		return s.review(ctx, rest)

	// Cart.
	case "inc":
		n, err := intArg(rest, 0, "usage: inc <position>")
		if err != nil {
			return err
		}
		return s.views.Cart.Increment(ctx, n)
	case "dec":
		n, err := intArg(rest, 0, "usage: dec <position>")
		if err != nil {
			return err
		}
		return s.views.Cart.Decrement(ctx, n)
	case "remove":
		n, err := intArg(rest, 0, "usage: remove <position>")
		if err != nil {
			return err
		}
		return s.views.Cart.Remove(ctx, n)
	case "coupon":
		if len(rest) != 1 {
			return errors.New("usage: coupon <code>")
		}
		return s.views.Cart.ApplyCoupon(ctx, rest[0])

	// Checkout.
	case "ship":
		return s.ship(rest)
	case "place":
		return s.views.Checkout.PlaceOrder(ctx)

	// Orders.
	case "details":
		n, err := intArg(rest, 0, "usage: details <position>")
		if err != nil {
			return err
		}
		return s.views.Orders.Details(n)
	case "retry":
		n, err := intArg(rest, 0, "usage: retry <position>")
		if err != nil {
			return err
		}
		return s.views.Orders.RetryPayment(ctx, n)

	// Reservations.
	case "reserve":
		return s.reserve(ctx, rest)
	case "edit":
		return s.editReservation(ctx, rest)
	case "cancel":
		n, err := intArg(rest, 0, "usage: cancel <position>")
		if err != nil {
			return err
		}
		return s.views.Reservations.Cancel(ctx, n)

	// Identity.
	case "login":
		if len(rest) == 0 {
			return s.router.Navigate(ctx, "/login")
		}
		if len(rest) != 2 {
			return errors.New("usage: login <email> <password>")
		}
		return s.views.Auth.Login(ctx, rest[0], rest[1])
	case "register":
		if len(rest) == 0 {
			return s.router.Navigate(ctx, "/register")
		}
		if len(rest) != 3 {
			return errors.New("usage: register <name> <email> <password>")
		}
		return s.views.Auth.Register(ctx, rest[0], rest[1], rest[2])
	case "google":
		return s.views.Auth.GoogleSignIn(ctx)
	case "logout":
		return s.views.Auth.Logout(ctx)
	}
	return errors.Errorf("unknown command %q, try help", cmd)
}

func (s *Shell) filter(ctx context.Context, rest []string) error {
	if len(rest) != 2 {
		return errors.New("usage: filter category|min|max <value>")
	}
	switch rest[0] {
	case "category":
		s.views.Menu.SetCategory(rest[1])
	case "min":
		s.views.Menu.SetMinPrice(rest[1])
	case "max":
		s.views.Menu.SetMaxPrice(rest[1])
	default:
		return errors.Errorf("unknown filter %q", rest[0])
	}
	return nil
}

// add routes to the listing the user is looking at: the menu by default, the
// offers page when that is the current location.
func (s *Shell) add(ctx context.Context, rest []string) error {
	n, err := intArg(rest, 0, "usage: add <position>")
	if err != nil {
		return err
	}
	if s.router.Current() == "/offers" {
		return s.views.Offers.QuickAdd(ctx, n)
	}
	return s.views.Menu.QuickAdd(ctx, n)
}

func (s *Shell) rate(ctx context.Context, rest []string) error {
	if len(rest) != 2 {
		return errors.New("usage: rate <position> <1-5>")
	}
	pos, err := strconv.Atoi(rest[0])
	if err != nil {
		return errors.New("usage: rate <position> <1-5>")
	}
	rating, err := strconv.Atoi(rest[1])
	if err != nil {
		return errors.New("usage: rate <position> <1-5>")
	}
	if s.router.Current() == "/offers" {
		return s.views.Offers.QuickRate(ctx, pos, rating)
	}
	return s.views.Menu.QuickRate(ctx, pos, rating)
}

func (s *Shell) review(ctx context.Context, rest []string) error {
	if len(rest) < 1 {
		return errors.New("usage: review <1-5> [comment]")
	}
	rating, err := strconv.Atoi(rest[0])
	if err != nil {
		return errors.New("usage: review <1-5> [comment]")
	}
	return s.views.FoodDetail.SubmitReview(ctx, rating, strings.Join(rest[1:], " "))
}

func (s *Shell) ship(rest []string) error {
	if len(rest) < 2 {
		return errors.New("usage: ship address|country|town|zip|phone <value>")
	}
	value := strings.Join(rest[1:], " ")
	switch rest[0] {
	case "address":
		s.views.Checkout.SetAddress(value)
	case "country":
		s.views.Checkout.SetCountry(value)
	case "town":
		s.views.Checkout.SetTown(value)
	case "zip":
		s.views.Checkout.SetZipCode(value)
	case "phone":
		s.views.Checkout.SetPhoneNumber(value)
	default:
		return errors.Errorf("unknown shipping field %q", rest[0])
	}
	return nil
}

// reserve <people> <date> <time> [special request...]
func (s *Shell) reserve(ctx context.Context, rest []string) error {
	if len(rest) < 3 {
		return errors.New("usage: reserve <people> <YYYY-MM-DD> <HH:MM> [request]")
	}
	people, err := strconv.Atoi(rest[0])
	if err != nil {
		return errors.New("usage: reserve <people> <YYYY-MM-DD> <HH:MM> [request]")
	}
	when := rest[1] + " " + rest[2]
	return s.views.Reservations.Create(ctx, people, when, strings.Join(rest[3:], " "))
}

// edit <position> <people> <date> <time> [special request...]
func (s *Shell) editReservation(ctx context.Context, rest []string) error {
	if len(rest) < 4 {
		return errors.New("usage: edit <position> <people> <YYYY-MM-DD> <HH:MM> [request]")
	}
	pos, err := strconv.Atoi(rest[0])
	if err != nil {
		return errors.New("usage: edit <position> <people> <YYYY-MM-DD> <HH:MM> [request]")
	}
	people, err := strconv.Atoi(rest[1])
	if err != nil {
		return errors.New("usage: edit <position> <people> <YYYY-MM-DD> <HH:MM> [request]")
	}
	when := rest[2] + " " + rest[3]
	return s.views.Reservations.Update(ctx, pos, people, when, strings.Join(rest[4:], " "))
}

func intArg(rest []string, idx int, usage string) (int, error) {
	if len(rest) <= idx {
		return 0, errors.New(usage)
	}
	n, err := strconv.Atoi(rest[idx])
	if err != nil {
		return 0, errors.New(usage)
	}
	return n, nil
}

func (s *Shell) printHelp() {
	for _, line := range []string{
		"pages:    home menu offers categories cart checkout orders reservations",
		"          go <path>, food <id>, refresh, quit",
		"menu:     filter category|min|max <v>, apply, reset, page <n>, next, prev",
		"listing:  add <pos>, rate <pos> <1-5>, browse <pos>",
		"dish:     more, less, buy, review <1-5> [comment]",
		"cart:     inc|dec|remove <pos>, coupon <code>",
		"checkout: ship <field> <value>, place",
		"orders:   details <pos>, retry <pos>",
		"tables:   reserve <people> <date> <time> [note], edit <pos> ..., cancel <pos>",
		"account:  login [<email> <password>], register [...], google, logout",
	} {
		s.out.Write([]byte("  " + line + "\n"))
	}
}
