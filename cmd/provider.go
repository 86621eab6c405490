package cmd

import (
	"context"
	"errors"
	"time"

	"lending/core"
	"lending/handler/rest"
	"lending/pkg/fixed"
	"lending/service/account"
	"lending/service/bank"
	"lending/service/ledger"
	marketservice "lending/service/market"
	"lending/service/oracle"
	"lending/store/memory"
	"lending/store/price"
	"lending/store/session"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"

	// register migrations
	_ "lending/store/market"
	_ "lending/store/position"
	_ "lending/store/transaction"
)

func provideConfig() *core.Config {
	return &cfg
}

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideClock() core.Clock {
	return time.Now
}

// ---------------store-----------------------------------------

type stores struct {
	session core.Session
	prices  core.IPriceStore
}

// provideStores memory stores when app.memory is set, database otherwise
func provideStores() stores {
	if cfg.App.Memory {
		return stores{
			session: memory.New(provideClock()),
			prices:  memory.NewPrices(),
		}
	}

	database := provideDatabase()
	return stores{
		session: session.New(database),
		prices:  price.New(database),
	}
}

// ------------------service------------------------------------

func providePriceOracle(prices core.IPriceStore) core.IPriceOracle {
	feed := oracle.NewStoreFeed(prices, time.Duration(cfg.Oracle.MaxAge)*time.Second, provideClock())
	if cfg.Oracle.CacheTTL > 0 {
		feed = oracle.Cache(feed, time.Duration(cfg.Oracle.CacheTTL)*time.Second)
	}

	return feed
}

func providePriceTickerService() core.IPriceTickerService {
	return oracle.NewTickerService(cfg.Oracle.Endpoint)
}

func provideBank() core.IBank {
	if cfg.Bank.Endpoint != "" {
		return bank.NewHTTP(cfg.Bank.Endpoint)
	}

	return bank.NewMemory()
}

func provideCloseFactor() fixed.Dec {
	cf, err := fixed.FromDecimal(cfg.Protocol.CloseFactor)
	if err != nil {
		panic(err)
	}

	return cf
}

type services struct {
	stores
	markets  core.IMarketService
	accounts core.IAccountService
	ledger   core.ILedgerService
}

func provideServices() services {
	s := services{stores: provideStores()}
	clock := provideClock()
	b := provideBank()

	s.markets = marketservice.New(s.session, clock)
	s.accounts = account.New(s.session, s.markets, providePriceOracle(s.prices), b, clock, provideCloseFactor())
	s.ledger = ledger.New(s.session, s.markets, s.accounts, b, clock, cfg.Protocol.RepayPolicy)
	return s
}

func (s services) rest() rest.Services {
	return rest.Services{
		Session:  s.session,
		Prices:   s.prices,
		Markets:  s.markets,
		Accounts: s.accounts,
		Ledger:   s.ledger,
	}
}

// listConfiguredMarkets lists markets of the config file that are not listed yet
func listConfiguredMarkets(ctx context.Context, marketSrv core.IMarketService) error {
	log := logger.FromContext(ctx)

	for _, settings := range cfg.Markets {
		mcfg, err := settings.MarketConfig()
		if err != nil {
			return err
		}

		if _, err := marketSrv.ListMarket(ctx, mcfg); err != nil {
			if errors.Is(err, core.ErrMarketExists) {
				continue
			}

			return err
		}

		log.WithField("asset_id", mcfg.AssetID).Infoln("market listed")
	}

	return nil
}
