package detect

import "trade-reconciler/internal/types"

type fieldAliases struct {
	key     types.FieldKey
	aliases []string
}

// aliasTable is walked in order; within a field the first alias that matches
// an unclaimed header wins. Aliases are already in normalized header form.
var aliasTable = []fieldAliases{
	{types.FieldDate, []string{
		"date", "trade date", "entry date", "open date", "execution date", "exec date",
		"fill date", "transaction date", "activity date", "order date", "date/time",
		"datetime", "timestamp", "order execution time", "trade time stamp",
	}},
	{types.FieldTicker, []string{
		"symbol", "ticker", "tradingsymbol", "trading symbol", "instrument", "stock",
		"underlying", "security", "contract", "sym", "market",
	}},
	{types.FieldDirection, []string{
		"side", "action", "direction", "buy/sell", "b/s", "transaction type", "trade type",
		"order side", "long/short", "position", "type",
	}},
	{types.FieldEntryPrice, []string{
		"entry price", "entry", "open price", "buy price", "avg entry", "avg entry price",
		"price", "fill price", "avg price", "average price", "execution price",
		"exec price", "trade price", "avg fill price", "entry px", "px",
	}},
	{types.FieldExitPrice, []string{
		"exit price", "exit", "close price", "sell price", "avg exit", "avg exit price",
		"closing price", "exit px",
	}},
	{types.FieldQuantity, []string{
		"quantity", "qty", "shares", "size", "contracts", "units", "volume", "lots",
		"filled qty", "filled quantity", "fill qty", "position size", "amount",
	}},
	{types.FieldFees, []string{
		"fees", "fee", "commission", "commissions", "comm", "commission/fees",
		"fees/commissions", "fees & comm", "fees & commissions", "charges", "brokerage",
		"total fees",
	}},
	{types.FieldPnL, []string{
		"pnl", "p&l", "p/l", "profit", "profit/loss", "net pnl", "net p&l", "realized pnl",
		"realized p&l", "gain/loss", "net profit", "gross pnl",
	}},
	{types.FieldAssetType, []string{
		"asset type", "asset class", "asset", "instrument type", "security type", "sec type",
		"product", "asset category",
	}},
	{types.FieldStopLoss, []string{"stop loss", "stop", "sl", "stop price", "stoploss", "initial stop"}},
	{types.FieldTakeProfit, []string{"take profit", "target", "tp", "profit target", "target price", "takeprofit"}},
	{types.FieldNotes, []string{"notes", "note", "comments", "comment", "description", "memo", "remarks"}},
	{types.FieldAccount, []string{"account", "account name", "account number", "acct", "account id", "portfolio"}},
	{types.FieldStrategy, []string{"strategy", "setup", "playbook", "pattern", "tag", "tags"}},
	{types.FieldEntryTime, []string{"entry time", "open time", "time in", "buy time"}},
	{types.FieldExitTime, []string{"exit time", "close time", "time out", "sell time"}},
	{types.FieldGrade, []string{"grade", "rating", "score"}},
	{types.FieldName, []string{"name", "trade name", "title", "label"}},
	{types.FieldOptionsStrategyType, []string{
		"options strategy", "option strategy", "strategy type", "options strategy type", "spread type",
	}},
	{types.FieldStatus, []string{"status", "order status", "state"}},
	{types.FieldTime, []string{"time", "execution time", "exec time", "fill time", "trade time", "order time"}},
	{types.FieldExitDate, []string{"exit date", "close date", "closing date", "sell date", "date closed"}},
}
