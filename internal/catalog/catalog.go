// Package catalog stores network hosts (MAC, IP, hostname, reviewed flag)
// in SQLite and serves them grouped by case-insensitive hostname.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/hostpad/internal/log"
	"github.com/zjrosen/hostpad/internal/tracing"
)

// ErrHostNotFound is returned when a hostname or index matches nothing.
var ErrHostNotFound = errors.New("host not found")

// Record is one row of the hosts table.
type Record struct {
	ID       int64
	MAC      string
	IP       string
	Hostname string
	Reviewed bool
}

// Host aggregates every record sharing a hostname, compared
// case-insensitively. Hostname and Reviewed come from the oldest record;
// IPs and MACs keep insertion order.
type Host struct {
	Hostname string
	IPs      []string
	MACs     []string
	Reviewed bool
}

// Key is the lower-cased hostname hosts are grouped and sorted by.
func (h Host) Key() string {
	return strings.ToLower(h.Hostname)
}

// Catalog is a handle on the hosts database. Safe for concurrent use.
type Catalog struct {
	db    *sql.DB
	path  string
	cache *hostCache
}

// Option configures Open.
type Option func(*options)

type options struct {
	cacheTTL  time.Duration
	skipCache bool
}

// WithCacheTTL sets how long the grouped host list stays cached. Values
// <= 0 keep DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithoutCache makes every Hosts call read the database.
func WithoutCache() Option {
	return func(o *options) { o.skipCache = true }
}

// Open opens (creating if needed) the catalog at path and applies
// migrations. Callers must Close it.
func Open(ctx context.Context, path string, opts ...Option) (*Catalog, error) {
	o := options{cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		db:    db,
		path:  path,
		cache: newHostCache(o.cacheTTL, o.skipCache),
	}, nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

// Invalidate drops the cached host list, e.g. after another process
// changed the database.
func (c *Catalog) Invalidate() {
	c.cache.flush()
}

// Add inserts a record and returns its row id.
func (c *Catalog) Add(ctx context.Context, r Record) (id int64, err error) {
	ctx, span := tracing.Start(ctx, tracing.SpanPrefixCatalog+"add",
		attribute.String(tracing.AttrHostname, r.Hostname),
		attribute.String(tracing.AttrMAC, r.MAC),
	)
	defer func() { tracing.End(span, err) }()

	if strings.TrimSpace(r.Hostname) == "" {
		return 0, fmt.Errorf("adding host: hostname is empty")
	}

	res, err := c.db.ExecContext(ctx,
		`INSERT INTO hosts (mac, ip, hostname, reviewed) VALUES (?, ?, ?, ?)`,
		r.MAC, r.IP, r.Hostname, r.Reviewed)
	if err != nil {
		return 0, fmt.Errorf("adding host %q: %w", r.Hostname, err)
	}
	c.cache.flush()

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("adding host %q: %w", r.Hostname, err)
	}
	log.Debug(log.CatDB, "Added host", "hostname", r.Hostname, "id", id)
	return id, nil
}

// Remove deletes every record for hostname and returns how many went.
func (c *Catalog) Remove(ctx context.Context, hostname string) (n int64, err error) {
	ctx, span := tracing.Start(ctx, tracing.SpanPrefixCatalog+"remove",
		attribute.String(tracing.AttrHostname, hostname))
	defer func() {
		span.SetAttributes(attribute.Int64(tracing.AttrRowsAffected, n))
		tracing.End(span, err)
	}()

	n, err = c.exec(ctx, `DELETE FROM hosts WHERE lower(hostname) = lower(?)`, hostname)
	if err != nil {
		return 0, fmt.Errorf("removing host %q: %w", hostname, err)
	}
	log.Debug(log.CatDB, "Removed host", "hostname", hostname, "rows", n)
	return n, nil
}

// FindByMAC returns every record with the given MAC, oldest first.
func (c *Catalog) FindByMAC(ctx context.Context, mac string) (records []Record, err error) {
	ctx, span := tracing.Start(ctx, tracing.SpanPrefixCatalog+"find_by_mac",
		attribute.String(tracing.AttrMAC, mac))
	defer func() { tracing.End(span, err) }()

	rows, err := c.db.QueryContext(ctx,
		`SELECT id, mac, ip, hostname, reviewed FROM hosts WHERE mac = ? ORDER BY id`, mac)
	if err != nil {
		return nil, fmt.Errorf("finding mac %q: %w", mac, err)
	}
	defer func() { _ = rows.Close() }()

	records, err = scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("finding mac %q: %w", mac, err)
	}
	return records, nil
}

// Hosts returns all hosts grouped by case-insensitive hostname, sorted.
// The result is cached until the next write or Invalidate; callers must
// not modify it.
func (c *Catalog) Hosts(ctx context.Context) (hosts []Host, err error) {
	ctx, span := tracing.Start(ctx, tracing.SpanPrefixCatalog+"hosts")
	var hit bool
	defer func() {
		span.SetAttributes(attribute.Bool(tracing.AttrCacheHit, hit))
		tracing.End(span, err)
	}()

	hosts, hit, err = c.cache.get(ctx, c.loadHosts)
	return hosts, err
}

// Get returns the host named hostname, compared case-insensitively.
func (c *Catalog) Get(ctx context.Context, hostname string) (Host, error) {
	hosts, err := c.Hosts(ctx)
	if err != nil {
		return Host{}, err
	}
	key := strings.ToLower(hostname)
	i := sort.Search(len(hosts), func(i int) bool { return hosts[i].Key() >= key })
	if i == len(hosts) || hosts[i].Key() != key {
		return Host{}, fmt.Errorf("%w: %q", ErrHostNotFound, hostname)
	}
	return hosts[i], nil
}

// At returns the index-th host in sorted order. Negative indexes count
// back from the end.
func (c *Catalog) At(ctx context.Context, index int) (Host, error) {
	hosts, err := c.Hosts(ctx)
	if err != nil {
		return Host{}, err
	}
	i := index
	if i < 0 {
		i += len(hosts)
	}
	if i < 0 || i >= len(hosts) {
		return Host{}, fmt.Errorf("%w: index %d of %d", ErrHostNotFound, index, len(hosts))
	}
	return hosts[i], nil
}

// MarkReviewed flags every record of hostname as reviewed.
func (c *Catalog) MarkReviewed(ctx context.Context, hostname string) (err error) {
	ctx, span := tracing.Start(ctx, tracing.SpanPrefixCatalog+"mark_reviewed",
		attribute.String(tracing.AttrHostname, hostname))
	defer func() { tracing.End(span, err) }()

	n, err := c.exec(ctx, `UPDATE hosts SET reviewed = 1 WHERE lower(hostname) = lower(?)`, hostname)
	if err != nil {
		return fmt.Errorf("reviewing host %q: %w", hostname, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrHostNotFound, hostname)
	}
	return nil
}

// Rename changes the hostname on every record of oldName.
func (c *Catalog) Rename(ctx context.Context, oldName, newName string) (err error) {
	ctx, span := tracing.Start(ctx, tracing.SpanPrefixCatalog+"rename",
		attribute.String(tracing.AttrHostname, oldName))
	defer func() { tracing.End(span, err) }()

	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("renaming host %q: new name is empty", oldName)
	}
	n, err := c.exec(ctx, `UPDATE hosts SET hostname = ? WHERE lower(hostname) = lower(?)`, newName, oldName)
	if err != nil {
		return fmt.Errorf("renaming host %q: %w", oldName, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrHostNotFound, oldName)
	}
	log.Debug(log.CatDB, "Renamed host", "from", oldName, "to", newName, "rows", n)
	return nil
}

// exec runs a write and flushes the cache when it succeeds.
func (c *Catalog) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	c.cache.flush()
	return res.RowsAffected()
}

func (c *Catalog) loadHosts(ctx context.Context) ([]Host, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, mac, ip, hostname, reviewed FROM hosts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing hosts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("listing hosts: %w", err)
	}
	log.Debug(log.CatDB, "Loaded hosts", "records", len(records))
	return groupHosts(records), nil
}

// groupHosts folds records, oldest first, into hosts sorted by Key.
func groupHosts(records []Record) []Host {
	index := make(map[string]int, len(records))
	hosts := make([]Host, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(r.Hostname)
		if i, ok := index[key]; ok {
			hosts[i].IPs = append(hosts[i].IPs, r.IP)
			hosts[i].MACs = append(hosts[i].MACs, r.MAC)
			continue
		}
		index[key] = len(hosts)
		hosts = append(hosts, Host{
			Hostname: r.Hostname,
			IPs:      []string{r.IP},
			MACs:     []string{r.MAC},
			Reviewed: r.Reviewed,
		})
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Key() < hosts[j].Key() })
	return hosts
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.MAC, &r.IP, &r.Hostname, &r.Reviewed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
