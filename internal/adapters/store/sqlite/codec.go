package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/yigitunlu/heroject/internal/domain"
)

// timeLayout is fixed-width so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}

// nullable stores an empty string as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func refFromColumns(kind, id string) domain.Ref {
	if kind == "" && id == "" {
		return domain.Ref{}
	}
	return domain.Ref{Kind: domain.Kind(kind), ID: id}
}

func stringOf(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
