package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideShort {
		return SideLong
	}
	return SideShort
}

// Sign is +1 for long and -1 for short.
func (s Side) Sign() decimal.Decimal {
	if s == SideShort {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

type AssetClass string

const (
	AssetStock   AssetClass = "stock"
	AssetOptions AssetClass = "options"
	AssetFutures AssetClass = "futures"
)

// ParseAssetClass maps broker wording ("Equity", "OPT", "Future") to an asset class.
func ParseAssetClass(s string) (AssetClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock", "stocks", "equity", "equities", "stk", "etf", "shares":
		return AssetStock, true
	case "option", "options", "opt", "equity option", "index option":
		return AssetOptions, true
	case "future", "futures", "fut", "futs":
		return AssetFutures, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Fill is one atomic execution record.
type Fill struct {
	Symbol      string          `json:"symbol"`
	Side        Side            `json:"side"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Fees        decimal.Decimal `json:"fees"`
	Date        time.Time       `json:"date"`
	Time        string          `json:"time,omitempty"` // HH:MM:SS, empty when the source had none
	AssetClass  AssetClass      `json:"asset_class"`
	Description string          `json:"description,omitempty"`
	Account     string          `json:"account,omitempty"`
	Row         int             `json:"row"` // position in the source table, used as a stable tiebreaker
}

type OptionAction string

const (
	ActionBuy  OptionAction = "buy"
	ActionSell OptionAction = "sell"
)

type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// Roll records a short leg being bought back and re-sold later for additional credit.
type Roll struct {
	Date           time.Time       `json:"date"`
	SellPremium    decimal.Decimal `json:"sell_premium"`
	BuybackPremium decimal.Decimal `json:"buyback_premium"`
}

// Leg is one option contract line inside a strategy.
type Leg struct {
	Action       OptionAction     `json:"action"`
	OptionType   OptionType       `json:"option_type"`
	Strike       decimal.Decimal  `json:"strike"`
	Contracts    decimal.Decimal  `json:"contracts"`
	EntryPremium *decimal.Decimal `json:"entry_premium,omitempty"`
	ExitPremium  *decimal.Decimal `json:"exit_premium,omitempty"`
	Rolls        []Roll           `json:"rolls,omitempty"`
}

// Trade is a reconstructed or manually entered position.
// Nil numeric pointers mean "not known", which is different from zero.
type Trade struct {
	ID         string     `json:"id"`
	Date       time.Time  `json:"date"`
	EntryTime  string     `json:"entry_time,omitempty"`
	ExitDate   *time.Time `json:"exit_date,omitempty"`
	ExitTime   string     `json:"exit_time,omitempty"`
	Ticker     string     `json:"ticker"`
	AssetClass AssetClass `json:"asset_class"`
	Direction  Side       `json:"direction"`
	Status     Status     `json:"status"`

	EntryPrice *decimal.Decimal `json:"entry_price,omitempty"`
	ExitPrice  *decimal.Decimal `json:"exit_price,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	Fees       decimal.Decimal  `json:"fees"`
	StopLoss   *decimal.Decimal `json:"stop_loss,omitempty"`
	TakeProfit *decimal.Decimal `json:"take_profit,omitempty"`

	TickSize  *decimal.Decimal `json:"tick_size,omitempty"`
	TickValue *decimal.Decimal `json:"tick_value,omitempty"`

	Legs     []Leg        `json:"legs,omitempty"`
	Strategy StrategyType `json:"strategy,omitempty"`

	PnL *decimal.Decimal `json:"pnl,omitempty"`

	Setup   string `json:"setup,omitempty"` // free-text strategy tag, e.g. "breakout"
	Notes   string `json:"notes,omitempty"`
	Account string `json:"account,omitempty"`
	Grade   string `json:"grade,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Dec returns a pointer to d, for filling optional fields.
func Dec(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// Table is a raw header row plus string rows as handed over by a file or broker source.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// RiskReward is the outcome of a risk/reward calculation. Nil bounds are unbounded or unknown.
type RiskReward struct {
	MaxRisk    *decimal.Decimal `json:"max_risk"`
	MaxReward  *decimal.Decimal `json:"max_reward"`
	Ratio      *decimal.Decimal `json:"ratio"`
	NetPremium *decimal.Decimal `json:"net_premium,omitempty"`
}

// MatchResult is what the matching engine hands back.
type MatchResult struct {
	Closed []Trade `json:"closed"`
	Open   []Trade `json:"open"`
}

// CloneDec copies an optional value so two owners never share a pointer.
func CloneDec(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
