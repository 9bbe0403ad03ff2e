package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ComRisk/internal/domain/models"
	pkgch "ComRisk/pkg/clickhouse"
	applogger "ComRisk/pkg/logger"
)

// CHPriceStore implements PriceStore backed by ClickHouse. Daily closes are
// read from a materialized view that folds raw ticks into one close per day.
type CHPriceStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB(), table: "comrisk.daily_closes"}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPriceStore) GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	start := time.Now()
	const qtpl = `
        SELECT day, symbol, close
        FROM %s
        WHERE symbol = ? AND day >= ? AND day <= ?
        ORDER BY day ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse daily_closes query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get daily closes: %w", err)
	}
	defer rows.Close()

	out := make([]models.PricePoint, 0, 512)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Symbol, &p.Close); err != nil {
			return nil, fmt.Errorf("scan close: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse daily_closes ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHPriceStore) GetLatestNDailyCloses(ctx context.Context, symbol string, n int) ([]models.PricePoint, error) {
	start := time.Now()
	const qtpl = `
        SELECT day, symbol, close
        FROM %s
        WHERE symbol = ?
        ORDER BY day DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_closes query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest closes: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.PricePoint, 0, n)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Symbol, &p.Close); err != nil {
			return nil, fmt.Errorf("scan close: %w", err)
		}
		tmp = append(tmp, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC, the estimators expect chronological order
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_closes ok",
			applogger.String("symbol", symbol),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

// InsertDailyCloses writes backfilled closes. The table is a
// ReplacingMergeTree, so re-inserting an existing day is harmless.
func (s *CHPriceStore) InsertDailyCloses(ctx context.Context, symbol string, points []models.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	const chunk = 2000
	for off := 0; off < len(points); off += chunk {
		end := off + chunk
		if end > len(points) {
			end = len(points)
		}
		batch := points[off:end]

		values := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*3)
		for _, p := range batch {
			values = append(values, "(?, ?, ?)")
			args = append(args, p.Date, symbol, p.Close)
		}

		q := fmt.Sprintf("INSERT INTO %s (day, symbol, close) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse daily_closes insert error",
					applogger.String("symbol", symbol),
					applogger.Int("rows", len(batch)),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("insert daily closes: %w", err)
		}
	}

	if s.l != nil {
		s.l.Debug("clickhouse daily_closes insert ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(points)),
		)
	}
	return nil
}
