package trader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/catalog"
	"github.com/SteveDok22/TradeSim-Pro/src/connectors"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
	"github.com/SteveDok22/TradeSim-Pro/src/portfolio"
	"github.com/SteveDok22/TradeSim-Pro/src/positions"
	"github.com/SteveDok22/TradeSim-Pro/src/pricefeed"
	"github.com/SteveDok22/TradeSim-Pro/src/session"
	"github.com/SteveDok22/TradeSim-Pro/src/trade"
	"github.com/SteveDok22/TradeSim-Pro/src/watchlist"
)

// App drives the trading API from the command line. Stored tokens are picked
// up automatically so commands can be run one at a time.
type App struct {
	client *connectors.Client
}

func NewApp() (*App, error) {
	client := connectors.NewClientFromConfig()

	tokens, err := LoadTokens()
	if err != nil {
		return nil, fmt.Errorf("failed to load stored session: %w", err)
	}
	if tokens.Access != "" {
		client.SetTokens(tokens)
	}
	return &App{client: client}, nil
}

func (a *App) saveSession() error {
	return SaveTokens(a.client.Tokens())
}

func (a *App) Register(ctx context.Context, username, email, password string) error {
	res, err := a.client.Register(ctx, model.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		Password2: password,
	})
	if err != nil {
		return err
	}
	if err := a.saveSession(); err != nil {
		return err
	}
	fmt.Printf("Registered %s, starting balance $%s\n", res.User.Username, res.User.AccountBalance.StringFixed(2))
	return nil
}

func (a *App) Login(ctx context.Context, username, password string) error {
	if _, err := a.client.Login(ctx, username, password); err != nil {
		return err
	}
	if err := a.saveSession(); err != nil {
		return err
	}

	account, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s, balance $%s\n", account.Username, account.AccountBalance.StringFixed(2))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		logger.WithError(err).Warn("server-side logout failed")
	}
	if err := ClearTokens(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (a *App) Assets(ctx context.Context) error {
	cat := catalog.New(a.client)
	if err := cat.Load(ctx); err != nil {
		return err
	}
	fmt.Printf("%-4s %-8s %-28s %s\n", "ID", "SYMBOL", "NAME", "TYPE")
	for _, asset := range cat.All() {
		fmt.Printf("%-4d %-8s %-28s %s\n", asset.ID, asset.Symbol, asset.Name, asset.AssetType)
	}
	return nil
}

func (a *App) Prices(ctx context.Context) error {
	feed := pricefeed.New(a.client)
	if err := feed.Refresh(ctx); err != nil {
		return err
	}
	fmt.Printf("%-8s %-28s %s\n", "SYMBOL", "NAME", "PRICE")
	for _, q := range feed.Snapshot() {
		price := "n/a"
		if q.HasPrice() {
			price = "$" + q.Price.Decimal.String()
		}
		fmt.Printf("%-8s %-28s %s\n", q.Symbol, q.Name, price)
	}
	return nil
}

// tradingState assembles the session-scoped components a trade needs.
func (a *App) tradingState(ctx context.Context) (*session.Session, *catalog.Catalog, *pricefeed.Feed, *positions.Book, *trade.Controller, error) {
	account, err := a.client.Profile(ctx)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	sess := session.New()
	sess.Begin(account, a.client.Tokens())

	cat := catalog.New(a.client)
	if err := cat.EnsureLoaded(ctx); err != nil {
		return nil, nil, nil, nil, nil, err
	}

	feed := pricefeed.New(a.client)
	if err := feed.Refresh(ctx); err != nil {
		return nil, nil, nil, nil, nil, err
	}

	book := positions.New(a.client, feed)
	controller := trade.New(a.client, sess, cat, feed, book)
	return sess, cat, feed, book, controller, nil
}

func (a *App) Open(ctx context.Context, assetID int64, amount, side string) error {
	amountUSD, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	sess, _, _, _, controller, err := a.tradingState(ctx)
	if err != nil {
		return err
	}

	if qty, ok := controller.EstimatedQuantity(assetID, amountUSD); ok {
		fmt.Printf("Estimated quantity: %s\n", qty)
	}

	res, err := controller.Open(ctx, model.OpenTradeRequest{
		AssetID:   assetID,
		AmountUSD: amountUSD,
		TradeType: model.TradeType(strings.ToUpper(side)),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s. New balance: $%s\n", res.Message, sess.Balance().StringFixed(2))
	if res.Position != nil {
		fmt.Printf("Position #%d: %s %s %s @ $%s\n",
			res.Position.ID, res.Position.TradeType, res.Position.Quantity.String(),
			res.Position.AssetSymbol, res.Position.EntryPrice.String())
	}
	return nil
}

func (a *App) Close(ctx context.Context, tradeID int64) error {
	sess, _, _, _, controller, err := a.tradingState(ctx)
	if err != nil {
		return err
	}

	res, err := controller.Close(ctx, tradeID)
	if err != nil {
		return err
	}
	fmt.Printf("%s. P&L: $%s, new balance: $%s\n",
		res.Message, res.PnL.StringFixed(2), sess.Balance().StringFixed(2))
	return nil
}

func (a *App) Positions(ctx context.Context) error {
	feed := pricefeed.New(a.client)
	if err := feed.Refresh(ctx); err != nil {
		return err
	}
	book := positions.New(a.client, feed)
	if err := book.Load(ctx); err != nil {
		return err
	}

	snap := book.Snapshot()
	if len(snap) == 0 {
		fmt.Println("No open positions")
		return nil
	}

	fmt.Printf("%-4s %-8s %-5s %-14s %-12s %-12s %-10s %s\n",
		"ID", "SYMBOL", "SIDE", "QTY", "ENTRY", "CURRENT", "P&L", "P&L%")
	for _, p := range snap {
		current := "n/a"
		if p.CurrentPrice.Valid {
			current = p.CurrentPrice.Decimal.StringFixed(2)
		}
		fmt.Printf("%-4d %-8s %-5s %-14s %-12s %-12s %-10s %s%%\n",
			p.ID, p.AssetSymbol, p.TradeType, p.Quantity.String(),
			p.EntryPrice.StringFixed(2), current,
			p.UnrealizedPnL.StringFixed(2), p.UnrealizedPnLPercent.StringFixed(2))
	}
	fmt.Printf("Total unrealized P&L: $%s\n", book.TotalUnrealizedPnL().StringFixed(2))
	return nil
}

func (a *App) History(ctx context.Context) error {
	book := positions.New(a.client, pricefeed.New(a.client))
	if err := book.LoadHistory(ctx); err != nil {
		return err
	}

	history := book.History()
	if len(history) == 0 {
		fmt.Println("No closed trades")
		return nil
	}

	fmt.Printf("%-4s %-8s %-5s %-14s %-12s %-12s %s\n",
		"ID", "SYMBOL", "SIDE", "QTY", "ENTRY", "EXIT", "P&L")
	for _, t := range history {
		fmt.Printf("%-4d %-8s %-5s %-14s %-12s %-12s %s\n",
			t.ID, t.AssetSymbol, t.TradeType, t.Quantity.String(),
			t.EntryPrice.StringFixed(2), t.ExitPrice.StringFixed(2), t.PnL.StringFixed(2))
	}
	return nil
}

func (a *App) Watchlist(ctx context.Context) error {
	cat := catalog.New(a.client)
	if err := cat.Load(ctx); err != nil {
		return err
	}
	wl := watchlist.New(a.client, cat)
	if err := wl.Load(ctx); err != nil {
		return err
	}

	items := wl.Items()
	if len(items) == 0 {
		fmt.Println("Watchlist is empty")
	} else {
		fmt.Printf("%-4s %-8s %s\n", "ID", "SYMBOL", "NAME")
		for _, it := range items {
			fmt.Printf("%-4d %-8s %s\n", it.ID, it.Asset.Symbol, it.Asset.Name)
		}
	}

	if selectable := wl.Selectable(); len(selectable) > 0 {
		symbols := make([]string, 0, len(selectable))
		for _, a := range selectable {
			symbols = append(symbols, a.Symbol)
		}
		fmt.Printf("Available to add: %s\n", strings.Join(symbols, ", "))
	}
	return nil
}

func (a *App) WatchAdd(ctx context.Context, assetID int64) error {
	wl := watchlist.New(a.client, catalog.New(a.client))
	if err := wl.Add(ctx, assetID); err != nil {
		return err
	}
	fmt.Println("Added to watchlist")
	return nil
}

func (a *App) WatchRemove(ctx context.Context, itemID int64) error {
	wl := watchlist.New(a.client, catalog.New(a.client))
	if err := wl.Remove(ctx, itemID); err != nil {
		return err
	}
	fmt.Println("Removed from watchlist")
	return nil
}

func (a *App) Summary(ctx context.Context) error {
	reader := portfolio.New(a.client)
	if err := reader.Refresh(ctx); err != nil {
		return err
	}
	s, _ := reader.Summary()

	fmt.Printf("Total P&L:       $%s (%s%%)\n", s.TotalPnL.StringFixed(2), s.TotalPnLPercent.StringFixed(2))
	fmt.Printf("Win rate:        %s%%\n", s.WinRate.StringFixed(2))
	fmt.Printf("Trades:          %d (%d won / %d lost)\n", s.TotalTrades, s.WinningTrades, s.LosingTrades)
	return nil
}

func (a *App) Balance(ctx context.Context) error {
	res, err := a.client.Balance(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Balance: $%s (%s tier)\n", res.AccountBalance.StringFixed(2), res.TradingTier)
	return nil
}

// ResetBalance wipes all positions and restores the starting balance. Unless
// skipConfirm is set it requires the user to type RESET.
func (a *App) ResetBalance(ctx context.Context, skipConfirm bool) error {
	if !skipConfirm {
		fmt.Print("This closes ALL positions and resets your balance. Type RESET to confirm: ")
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		if strings.TrimSpace(scanner.Text()) != "RESET" {
			fmt.Println("Aborted")
			return nil
		}
	}

	res, err := a.client.ResetBalance(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s: $%s -> $%s\n", res.Message, res.OldBalance.StringFixed(2), res.NewBalance.StringFixed(2))
	return nil
}
