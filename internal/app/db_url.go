package app

import (
	"net/url"
	"strings"
)

// dbApplicationName tags every session so this service's connections are
// identifiable in pg_stat_activity.
const dbApplicationName = "nba-data-sync"

// normalizeDBURL stamps the connection URL with the settings every
// environment shares. lib/pq's binary prepared results confuse pgbouncer
// in transaction pooling mode, so deployments behind a pooler set the
// toggle to strip them.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	changed := false
	if query.Get("application_name") == "" {
		query.Set("application_name", dbApplicationName)
		changed = true
	}
	if disablePreparedBinaryResult && query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		changed = true
	}
	if !changed {
		return raw
	}

	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL pulls the database name out of URL or key=value DSN form
// for the db.name span attribute.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"'`); name != "" {
			return name
		}
	}

	return ""
}
