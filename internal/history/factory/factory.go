package factory

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/totrackit/totrackit/internal/history"
	"github.com/totrackit/totrackit/internal/history/clickhouse"
)

// NewSinkFromDSN creates a history sink based on DSN format.
// Supported:
//   - "clickhouse://host:port?table=table"
func NewSinkFromDSN(dsn string) (history.Sink, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty DSN")
	}
	if strings.HasPrefix(strings.ToLower(dsn), "clickhouse://") {
		return parseClickHouseDSN(dsn)
	}
	return nil, errors.New("unsupported DSN format: " + dsn)
}

func parseClickHouseDSN(dsn string) (history.Sink, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	host := u.Host
	if host == "" {
		host = "localhost:9000" // default ClickHouse native port
	}
	table := u.Query().Get("table")
	if table == "" {
		table = "process_events"
	}
	sink, err := clickhouse.New(host, table)
	if err != nil {
		return nil, err
	}
	if err := sink.EnsureTable(context.Background()); err != nil {
		_ = sink.Close()
		return nil, err
	}
	return sink, nil
}
