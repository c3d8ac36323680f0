package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/SteveDok22/TradeSim-Pro/cmd/trader"
	"github.com/SteveDok22/TradeSim-Pro/src/executors"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "tradesim"
	app.Usage = "Paper-trading simulator command line interface"
	app.Version = Version

	app.Commands = []cli.Command{
		serveCMD,
		monitorCMD,
		registerCMD,
		loginCMD,
		logoutCMD,
		assetsCMD,
		pricesCMD,
		openCMD,
		closeCMD,
		positionsCMD,
		historyCMD,
		watchlistCMD,
		summaryCMD,
		balanceCMD,
		resetBalanceCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the simulator API server",
		Action:      serveAction,
		Description: `Start the paper-trading API server`,
	}
	monitorCMD = cli.Command{
		Name:        "monitor",
		Usage:       "run the portfolio monitor loop",
		Action:      monitorAction,
		Description: `Poll prices, positions and balance on a fixed period`,
	}
	registerCMD = cli.Command{
		Name:      "register",
		Usage:     "create a new account",
		Action:    registerAction,
		ArgsUsage: "<username> <email> <password>",
	}
	loginCMD = cli.Command{
		Name:      "login",
		Usage:     "log in and store the session",
		Action:    loginAction,
		ArgsUsage: "<username> <password>",
	}
	logoutCMD = cli.Command{
		Name:   "logout",
		Usage:  "log out and clear the stored session",
		Action: logoutAction,
	}
	assetsCMD = cli.Command{
		Name:   "assets",
		Usage:  "list tradable assets",
		Action: assetsAction,
	}
	pricesCMD = cli.Command{
		Name:   "prices",
		Usage:  "list current prices",
		Action: pricesAction,
	}
	openCMD = cli.Command{
		Name:      "open",
		Usage:     "open a position",
		Action:    openAction,
		ArgsUsage: "<asset-id> <amount-usd> <BUY|SELL>",
	}
	closeCMD = cli.Command{
		Name:      "close",
		Usage:     "close an open position",
		Action:    closeAction,
		ArgsUsage: "<trade-id>",
	}
	positionsCMD = cli.Command{
		Name:   "positions",
		Usage:  "list open positions with live P&L",
		Action: positionsAction,
	}
	historyCMD = cli.Command{
		Name:   "history",
		Usage:  "list closed trades",
		Action: historyAction,
	}
	watchlistCMD = cli.Command{
		Name:  "watchlist",
		Usage: "manage the watchlist",
		Subcommands: []cli.Command{
			{Name: "list", Usage: "show the watchlist", Action: watchlistListAction},
			{Name: "add", Usage: "add an asset", ArgsUsage: "<asset-id>", Action: watchlistAddAction},
			{Name: "remove", Usage: "remove an item", ArgsUsage: "<item-id>", Action: watchlistRemoveAction},
		},
		Action: watchlistListAction,
	}
	summaryCMD = cli.Command{
		Name:   "summary",
		Usage:  "show portfolio statistics",
		Action: summaryAction,
	}
	balanceCMD = cli.Command{
		Name:   "balance",
		Usage:  "show the account balance",
		Action: balanceAction,
	}
	resetBalanceCMD = cli.Command{
		Name:   "reset-balance",
		Usage:  "close all positions and restore the starting balance",
		Action: resetBalanceAction,
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "yes", Usage: "skip the confirmation prompt"},
		},
	}
)

func newApp() (*trader.App, error) {
	app, err := trader.NewApp()
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize client")
		return nil, err
	}
	return app, nil
}

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting simulator API server")
	return simserver.StartServer()
}

func monitorAction(_ *cli.Context) error {
	logrus.Info("Starting portfolio monitor CMD")
	return executors.StartMonitorLoop(context.Background())
}

func registerAction(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.ShowCommandHelp(c, "register")
	}
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Register(context.Background(), c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
}

func loginAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "login")
	}
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Login(context.Background(), c.Args().Get(0), c.Args().Get(1))
}

func logoutAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Logout(context.Background())
}

func assetsAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Assets(context.Background())
}

func pricesAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Prices(context.Background())
}

func openAction(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.ShowCommandHelp(c, "open")
	}
	assetID, err := parseID(c.Args().Get(0))
	if err != nil {
		return err
	}
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Open(context.Background(), assetID, c.Args().Get(1), c.Args().Get(2))
}

func closeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "close")
	}
	tradeID, err := parseID(c.Args().Get(0))
	if err != nil {
		return err
	}
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Close(context.Background(), tradeID)
}

func positionsAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Positions(context.Background())
}

func historyAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.History(context.Background())
}

func watchlistListAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Watchlist(context.Background())
}

func watchlistAddAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "add")
	}
	assetID, err := parseID(c.Args().Get(0))
	if err != nil {
		return err
	}
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.WatchAdd(context.Background(), assetID)
}

func watchlistRemoveAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "remove")
	}
	itemID, err := parseID(c.Args().Get(0))
	if err != nil {
		return err
	}
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.WatchRemove(context.Background(), itemID)
}

func summaryAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Summary(context.Background())
}

func balanceAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.Balance(context.Background())
}

func resetBalanceAction(c *cli.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return app.ResetBalance(context.Background(), c.Bool("yes"))
}

func parseID(raw string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
