package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockTerm/internal/domain/models"
	pkgch "StockTerm/pkg/clickhouse"
	applogger "StockTerm/pkg/logger"
)

// ClickHouseQuoteHistory stores polled quote snapshots in a MergeTree table.
type ClickHouseQuoteHistory struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewClickHouseQuoteHistory(ch *pkgch.Client, table string, l *applogger.Logger) *ClickHouseQuoteHistory {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseQuoteHistory{db: ch.DB(), table: table, l: l}
}

// SchemaStatements returns the DDL for the history table.
func SchemaStatements(table string) []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ts DateTime64(3),
            symbol LowCardinality(String),
            price Float64,
            previous_close Float64,
            volume Float64
        ) ENGINE = MergeTree
        PARTITION BY toYYYYMM(ts)
        ORDER BY (symbol, ts)
    `, table)}
}

// Append batch-inserts snapshots, in chunks to bound statement size.
func (h *ClickHouseQuoteHistory) Append(ctx context.Context, snaps []models.QuoteSnapshot) error {
	const chunkSize = 1000
	for start := 0; start < len(snaps); start += chunkSize {
		end := start + chunkSize
		if end > len(snaps) {
			end = len(snaps)
		}
		q, args := buildInsert(h.table, snaps[start:end])
		if q == "" {
			continue
		}
		if _, err := h.db.ExecContext(ctx, q, args...); err != nil {
			h.l.Error("clickhouse quote_history insert error",
				applogger.String("table", h.table),
				applogger.Int("rows", len(args)/5),
				applogger.Error(err))
			return fmt.Errorf("insert snapshots: %w", err)
		}
	}
	return nil
}

func buildInsert(table string, snaps []models.QuoteSnapshot) (string, []interface{}) {
	values := make([]string, 0, len(snaps))
	args := make([]interface{}, 0, len(snaps)*5)
	for _, s := range snaps {
		if s.Symbol == "" || s.Timestamp == 0 {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, time.UnixMilli(s.Timestamp).UTC(), s.Symbol, s.Price, s.PreviousClose, s.Volume)
	}
	if len(values) == 0 {
		return "", nil
	}
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, previous_close, volume) VALUES %s",
		table, strings.Join(values, ","))
	return q, args
}

func buildSelect(table string) string {
	return fmt.Sprintf(`
        SELECT ts, symbol, price, previous_close, volume
        FROM %s
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts DESC
        LIMIT ?
    `, table)
}

// Query returns snapshots for symbol in [from, to], newest first.
func (h *ClickHouseQuoteHistory) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.QuoteSnapshot, error) {
	start := time.Now()
	rows, err := h.db.QueryContext(ctx, buildSelect(h.table), symbol, from, to, limit)
	if err != nil {
		h.l.Error("clickhouse quote_history query error",
			applogger.String("symbol", symbol),
			applogger.Error(err))
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]models.QuoteSnapshot, 0, limit)
	for rows.Next() {
		var (
			ts time.Time
			s  models.QuoteSnapshot
		)
		if err := rows.Scan(&ts, &s.Symbol, &s.Price, &s.PreviousClose, &s.Volume); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.Timestamp = ts.UnixMilli()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	h.l.Debug("clickhouse quote_history ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)))
	return out, nil
}
