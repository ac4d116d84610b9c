package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tickerdash/internal/dashboard"
	"tickerdash/internal/domain"
	"tickerdash/internal/export"
	"tickerdash/internal/metrics"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	quoteUsage   = "Usage: /quote AAPL"
	csvUsage     = "Usage: /csv AAPL [period] [interval]"
	fetchTimeout = 30 * time.Second
)

var newBot = tele.NewBot

// StartTelegramBot starts long polling in the background. It does nothing
// when token is empty.
func StartTelegramBot(token string, fetcher dashboard.Fetcher, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if token == "" {
		logger.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := newBot(pref)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/quote", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return c.Send(QuoteReply(ctx, fetcher, c.Args()))
	})

	b.Handle("/csv", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		doc, reply := CSVDocument(ctx, fetcher, c.Args())
		if doc == nil {
			return c.Send(reply)
		}
		return c.Send(doc)
	})

	logger.Info("Telegram bot started")
	go b.Start()
	return nil
}

// QuoteReply renders the headline metrics for args[0].
func QuoteReply(ctx context.Context, fetcher dashboard.Fetcher, args []string) string {
	if len(args) == 0 {
		return quoteUsage
	}
	symbol := domain.NormalizeSymbol(args[0])
	if symbol == "" {
		return quoteUsage
	}

	snapshot, err := fetcher.FetchSnapshot(ctx, symbol)
	if err != nil {
		return errorReply(symbol, err)
	}

	h := metrics.BuildHeadline(snapshot)
	var b strings.Builder
	name, ok := snapshot.String("shortName")
	if !ok || name == "" {
		name = symbol
	}
	fmt.Fprintf(&b, "%s (%s)\n", name, symbol)
	fmt.Fprintf(&b, "Current Price: %s\n", h.CurrentPrice)
	fmt.Fprintf(&b, "Market Cap: %s\n", h.MarketCap)
	fmt.Fprintf(&b, "P/E Ratio: %s\n", h.PERatio)
	fmt.Fprintf(&b, "52W Range: %s", h.Range52W)
	if h.Warning != "" {
		fmt.Fprintf(&b, "\n%s", h.Warning)
	}
	return b.String()
}

// CSVDocument fetches the series named by args and wraps it as a document.
// When the document is nil the string is the reply to send instead.
func CSVDocument(ctx context.Context, fetcher dashboard.Fetcher, args []string) (*tele.Document, string) {
	req, reply := parseCSVArgs(args)
	if reply != "" {
		return nil, reply
	}

	series, err := fetcher.FetchSeries(ctx, req)
	if err != nil {
		return nil, errorReply(req.Symbol, err)
	}
	data, err := export.CSV(series)
	if err != nil {
		return nil, errorReply(req.Symbol, err)
	}

	return &tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: export.Filename(req.Symbol),
		MIME:     "text/csv",
		Caption:  fmt.Sprintf("%s, %d bars (%s, %s)", req.Symbol, len(series.Bars), req.Range, req.Interval),
	}, ""
}

func parseCSVArgs(args []string) (domain.FetchRequest, string) {
	if len(args) == 0 {
		return domain.FetchRequest{}, csvUsage
	}
	req := domain.FetchRequest{
		Symbol:   domain.NormalizeSymbol(args[0]),
		Range:    domain.PresetRange(domain.DefaultPeriod),
		Interval: domain.DefaultInterval,
	}
	if req.Symbol == "" {
		return req, csvUsage
	}
	if len(args) > 1 {
		p, ok := domain.ParsePeriod(args[1])
		if !ok {
			return req, fmt.Sprintf("Unknown period: %s\n%s", args[1], csvUsage)
		}
		req.Range = domain.PresetRange(p)
	}
	if len(args) > 2 {
		iv, ok := domain.ParseInterval(args[2])
		if !ok {
			return req, fmt.Sprintf("Unknown interval: %s\n%s", args[2], csvUsage)
		}
		req.Interval = iv
	}
	return req, ""
}

func errorReply(symbol string, err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("Could not retrieve data for %s. Please verify the stock symbol and try again.", symbol)
	}
	return fmt.Sprintf("Error fetching data for %s: %v", symbol, err)
}
