package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brickbid/brickbid-go/api"
	"github.com/brickbid/brickbid-go/config"
	"github.com/brickbid/brickbid-go/credstore"
	"github.com/brickbid/brickbid-go/models"
	"github.com/brickbid/brickbid-go/session"
	"github.com/brickbid/brickbid-go/views"
)

// App wires the client together for one command invocation.
type App struct {
	cfg       config.Config
	api       *api.Client
	session   *session.Manager
	refresher *session.Refresher
	stdin     *bufio.Reader
	stdout    io.Writer
}

func newApp(ctx context.Context, cfg config.Config) (*App, func(), error) {
	cleanup := func() {}

	var store credstore.Store
	if cfg.RedisAddr != "" {
		client, err := credstore.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = client.Close() }
		store = credstore.NewRedisStore(client, "")
	} else {
		path := cfg.CredentialFile
		if path == "" {
			var err error
			path, err = credstore.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
		}
		store = credstore.NewFileStore(path)
	}

	gateway := api.New(cfg.APIBaseURL)
	sess := session.NewManager(store)
	sess.Initialize(ctx)

	return &App{
		cfg:       cfg,
		api:       gateway,
		session:   sess,
		refresher: session.NewRefresher(sess, gateway, cfg.RefreshInterval.Std()),
		stdin:     bufio.NewReader(os.Stdin),
		stdout:    os.Stdout,
	}, cleanup, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx)
	case "logout":
		a.session.Logout(ctx)
		fmt.Fprintln(a.stdout, "Logged out.")
		return nil
	case "register":
		return a.cmdRegister(ctx)
	case "funds":
		return a.cmdFunds(ctx, rest)
	case "property":
		return a.cmdProperty(ctx, rest)
	case "order":
		return a.cmdOrder(ctx, rest)
	case "watchlist":
		return a.cmdWatchlist(ctx, rest)
	case "portfolio":
		return a.cmdPortfolio(ctx)
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) cmdLogin(ctx context.Context) error {
	username, err := promptLine(a.stdin, a.stdout, "Username")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.stdout)
	if err != nil {
		return err
	}

	cred, err := a.api.ObtainToken(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, cred); err != nil {
		return err
	}

	id, _ := a.session.Identity()
	fmt.Fprintf(a.stdout, "Logged in (user id %d).\n", id.UserID)
	return nil
}

func (a *App) cmdRegister(ctx context.Context) error {
	username, err := promptLine(a.stdin, a.stdout, "Username")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.stdout)
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Account created. Run `brickbid login` to sign in.")
	return nil
}

func (a *App) cmdFunds(ctx context.Context, args []string) error {
	view := views.NewFundsView(a.api, a.session, a.cfg.PollInterval.Std())

	if len(args) == 0 {
		a.startRefreshLoop(ctx)
		updates, err := view.Watch(ctx)
		if err != nil {
			return err
		}
		for snap := range updates {
			if snap.Err != nil {
				fmt.Fprintf(a.stdout, "! %v\n", snap.Err)
				continue
			}
			fmt.Fprintf(a.stdout, "%s: %.2f\n", orDash(snap.DisplayName), snap.Balance)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("usage: brickbid funds [add|withdraw <amount>]")
	}
	a.refreshOnce(ctx)

	var (
		balance float64
		err     error
	)
	switch args[0] {
	case "add":
		balance, err = view.Add(ctx, args[1])
	case "withdraw":
		balance, err = view.Withdraw(ctx, args[1])
	default:
		return fmt.Errorf("usage: brickbid funds [add|withdraw <amount>]")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "New balance: %.2f\n", balance)
	return nil
}

func (a *App) cmdProperty(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: brickbid property <id>")
	}
	propertyID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid property id %q", args[0])
	}

	a.startRefreshLoop(ctx)
	view := views.NewPropertyView(a.api, a.session, propertyID, a.cfg.PollInterval.Std())
	for snap := range view.Watch(ctx) {
		if snap.Err != nil {
			fmt.Fprintf(a.stdout, "! %v\n", snap.Err)
			continue
		}
		fmt.Fprintf(a.stdout, "%s (%s, %s) LTP %.2f | buy %s | sell %s\n",
			snap.Property.Name, snap.Property.Category, snap.Property.Location,
			snap.Property.LTP, formatBids(snap.Book.Buy), formatBids(snap.Book.Sell))
	}
	return nil
}

func (a *App) cmdOrder(ctx context.Context, args []string) error {
	usage := fmt.Errorf("usage: brickbid order market <buy|sell> <property-id> | order limit <buy|sell> <property-id> <price>")
	if len(args) < 3 {
		return usage
	}

	side := models.OrderSide(args[1])
	if side != models.SideBuy && side != models.SideSell {
		return usage
	}
	propertyID, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid property id %q", args[2])
	}

	a.refreshOnce(ctx)
	view := views.NewPropertyView(a.api, a.session, propertyID, a.cfg.PollInterval.Std())

	switch args[0] {
	case "market":
		price, err := view.PlaceMarketOrder(ctx, side)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Market %s order placed at %.2f.\n", side, price)
	case "limit":
		if len(args) != 4 {
			return usage
		}
		price, err := view.PlaceLimitOrder(ctx, side, args[3])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Limit %s order placed at %.2f.\n", side, price)
	default:
		return usage
	}
	return nil
}

func (a *App) cmdWatchlist(ctx context.Context, args []string) error {
	a.refreshOnce(ctx)
	id, ok := a.session.Identity()
	cred, _ := a.session.Credential()
	if !ok {
		return session.ErrNotLoggedIn
	}

	if len(args) == 0 {
		list, err := a.api.Watchlist(ctx, id.UserID, cred)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Watchlist: %s\n", formatIDs(list))
		return nil
	}

	if len(args) != 2 || (args[0] != "add" && args[0] != "remove") {
		return fmt.Errorf("usage: brickbid watchlist [add|remove <property-id>]")
	}
	propertyID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid property id %q", args[1])
	}

	list, err := a.api.UpdateWatchlist(ctx, id.UserID, cred, api.WatchAction(args[0]), propertyID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Watchlist: %s\n", formatIDs(list))
	return nil
}

func (a *App) cmdPortfolio(ctx context.Context) error {
	a.refreshOnce(ctx)
	id, ok := a.session.Identity()
	cred, _ := a.session.Credential()
	if !ok {
		return session.ErrNotLoggedIn
	}

	list, err := a.api.Portfolio(ctx, id.UserID, cred)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Portfolio: %s\n", formatIDs(list))
	return nil
}

// startRefreshLoop keeps the token alive for watch-style commands; its
// lifetime is the command's context.
func (a *App) startRefreshLoop(ctx context.Context) {
	go a.refresher.Run(ctx)
}

// refreshOnce refreshes the access token before a one-shot command, in case
// it expired while the client was closed.
func (a *App) refreshOnce(ctx context.Context) {
	if a.session.LoggedIn() {
		a.refresher.RefreshNow(ctx)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.stdout, `Commands:
  login                                authenticate and store the session
  logout                               clear the stored session
  register                             create an account
  funds                                watch balance and display name
  funds add <amount>                   deposit funds
  funds withdraw <amount>              withdraw funds
  property <id>                        watch a listing and its order book
  order market <buy|sell> <id>         place a market order
  order limit <buy|sell> <id> <price>  place a limit order
  watchlist [add|remove <id>]          show or edit the watchlist
  portfolio                            show held properties`)
}

func formatBids(bids []float64) string {
	if len(bids) == 0 {
		return "-"
	}
	parts := make([]string, len(bids))
	for i, b := range bids {
		parts[i] = strconv.FormatFloat(b, 'f', 2, 64)
	}
	return strings.Join(parts, " ")
}

func formatIDs(ids []int64) string {
	if len(ids) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
