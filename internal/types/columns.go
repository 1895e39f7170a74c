package types

// FieldKey is the closed set of semantic columns a broker export can carry.
type FieldKey string

const (
	FieldDate                FieldKey = "date"
	FieldTicker              FieldKey = "ticker"
	FieldDirection           FieldKey = "direction"
	FieldEntryPrice          FieldKey = "entryPrice"
	FieldExitPrice           FieldKey = "exitPrice"
	FieldQuantity            FieldKey = "quantity"
	FieldFees                FieldKey = "fees"
	FieldPnL                 FieldKey = "pnl"
	FieldAssetType           FieldKey = "assetType"
	FieldStopLoss            FieldKey = "stopLoss"
	FieldTakeProfit          FieldKey = "takeProfit"
	FieldNotes               FieldKey = "notes"
	FieldAccount             FieldKey = "account"
	FieldStrategy            FieldKey = "strategy"
	FieldEntryTime           FieldKey = "entryTime"
	FieldExitTime            FieldKey = "exitTime"
	FieldGrade               FieldKey = "grade"
	FieldName                FieldKey = "name"
	FieldOptionsStrategyType FieldKey = "optionsStrategyType"
	FieldStatus              FieldKey = "status"
	FieldTime                FieldKey = "time"
	FieldExitDate            FieldKey = "exitDate"
)

// ColumnMap points each detected field at its column index.
type ColumnMap map[FieldKey]int

// Has reports whether the field was detected.
func (m ColumnMap) Has(k FieldKey) bool {
	_, ok := m[k]
	return ok
}

// Cell returns the trimmed cell for field k, or "" when the field is unmapped
// or the row is too short.
func (m ColumnMap) Cell(row []string, k FieldKey) string {
	i, ok := m[k]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return trimCell(row[i])
}

func trimCell(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t' || s[start] == '"') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '"' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}

type Format string

const (
	FormatOrderBased Format = "order-based"
	FormatTradeBased Format = "trade-based"
)

// ParseFormat accepts "order-based"/"trade-based" (and "orders"/"trades").
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "order-based", "order", "orders", "fills":
		return FormatOrderBased, true
	case "trade-based", "trade", "trades":
		return FormatTradeBased, true
	default:
		return "", false
	}
}

// DropReason explains why a row was left out of an import. Empty means the row was used.
type DropReason string

const (
	DropNone     DropReason = ""
	DropStatus   DropReason = "inactive_status"
	DropNoTicker DropReason = "missing_ticker"
	DropBadPrice DropReason = "invalid_price"
	DropBadQty   DropReason = "invalid_quantity"
	DropEmptyRow DropReason = "empty_row"
)

// ImportStats surfaces how many rows made it through normalization.
type ImportStats struct {
	RowsSeen int                `json:"rows_seen"`
	RowsUsed int                `json:"rows_used"`
	Dropped  map[DropReason]int `json:"dropped,omitempty"`
}
