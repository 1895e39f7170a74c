package zerodha

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/types"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// ErrMissingCredentials is returned when the API key or access token is empty.
var ErrMissingCredentials = errors.New("missing API key/access token")

// tradesClient is the slice of the Kite client the tradebook needs.
type tradesClient interface {
	GetTrades() (kiteconnect.Trades, error)
}

// tradebookHeaders are chosen so the column detector maps them without help.
var tradebookHeaders = []string{
	"Date", "Time", "Symbol", "Side", "Quantity", "Price", "Asset Type", "Exchange", "Order ID", "Trade ID",
}

// Tradebook exposes the day's Kite Connect executions as a fill table.
type Tradebook struct {
	client tradesClient
	ist    *time.Location
}

var _ interfaces.TableSource = (*Tradebook)(nil)

func NewTradebook(apiKey, accessToken string) (*Tradebook, error) {
	if apiKey == "" || accessToken == "" {
		return nil, ErrMissingCredentials
	}
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return newTradebook(kc), nil
}

func newTradebook(c tradesClient) *Tradebook {
	return &Tradebook{client: c, ist: time.FixedZone("IST", 19800)}
}

func (tb *Tradebook) Name() string { return "kite-tradebook" }

// Fetch pulls the tradebook and renders one row per execution, oldest first.
// Kite reports quantities in units and prices per unit for every segment, so
// every row is tagged equity and priced as price move times quantity.
func (tb *Tradebook) Fetch(ctx context.Context) (*types.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trades, err := tb.client.GetTrades()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return tb.filled(trades[i]).Before(tb.filled(trades[j]))
	})

	table := &types.Table{Headers: tradebookHeaders, Rows: make([][]string, 0, len(trades))}
	for _, t := range trades {
		ts := tb.filled(t)
		table.Rows = append(table.Rows, []string{
			ts.Format("2006-01-02"),
			ts.Format("15:04:05"),
			t.TradingSymbol,
			t.TransactionType,
			strconv.FormatFloat(t.Quantity, 'f', -1, 64),
			strconv.FormatFloat(t.AveragePrice, 'f', -1, 64),
			"equity",
			t.Exchange,
			t.OrderID,
			t.TradeID,
		})
	}
	return table, nil
}

// filled is the fill time in IST, falling back to the exchange timestamp.
func (tb *Tradebook) filled(t kiteconnect.Trade) time.Time {
	ts := t.FillTimestamp.Time
	if ts.IsZero() {
		ts = t.ExchangeTimestamp.Time
	}
	return ts.In(tb.ist)
}
