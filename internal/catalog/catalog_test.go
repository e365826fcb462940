package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(context.Background(), filepath.Join(t.TempDir(), "hosts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

func addHosts(t *testing.T, cat *Catalog, records ...Record) {
	t.Helper()
	for _, r := range records {
		_, err := cat.Add(context.Background(), r)
		require.NoError(t, err)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hosts.db")

	cat, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = cat.Add(ctx, Record{Hostname: "alpha", IP: "10.0.0.1", MAC: "aa:aa"})
	require.NoError(t, err)
	require.NoError(t, cat.Close())

	cat, err = Open(ctx, path)
	require.NoError(t, err, "migrations are idempotent")
	defer cat.Close()

	hosts, err := cat.Hosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.Equal(t, path, cat.Path())
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "hosts.db"))
	require.Error(t, err)
}

func TestAdd_ReturnsRowIDs(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()

	id1, err := cat.Add(ctx, Record{Hostname: "alpha"})
	require.NoError(t, err)
	id2, err := cat.Add(ctx, Record{Hostname: "beta"})
	require.NoError(t, err)
	require.Greater(t, id2, id1)
}

func TestAdd_RejectsEmptyHostname(t *testing.T) {
	cat := newTestCatalog(t)

	_, err := cat.Add(context.Background(), Record{Hostname: "  ", IP: "10.0.0.1"})
	require.ErrorContains(t, err, "hostname is empty")
}

func TestFindByMAC(t *testing.T) {
	cat := newTestCatalog(t)
	addHosts(t, cat,
		Record{Hostname: "alpha", IP: "10.0.0.1", MAC: "aa"},
		Record{Hostname: "beta", IP: "10.0.0.2", MAC: "bb"},
		Record{Hostname: "alpha-wifi", IP: "10.0.0.3", MAC: "aa", Reviewed: true},
	)

	got, err := cat.FindByMAC(context.Background(), "aa")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "alpha", got[0].Hostname)
	require.False(t, got[0].Reviewed)
	require.Equal(t, "alpha-wifi", got[1].Hostname)
	require.True(t, got[1].Reviewed)

	got, err = cat.FindByMAC(context.Background(), "zz")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestHosts_GroupsCaseInsensitivelyAndSorts(t *testing.T) {
	cat := newTestCatalog(t)
	addHosts(t, cat,
		Record{Hostname: "beta", IP: "10.0.0.2", MAC: "bb"},
		Record{Hostname: "Alpha", IP: "10.0.0.1", MAC: "aa", Reviewed: true},
		Record{Hostname: "alpha", IP: "10.0.0.9", MAC: "a9"},
		Record{Hostname: "Charlie", IP: "10.0.0.3", MAC: "cc"},
	)

	hosts, err := cat.Hosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Host{
		{Hostname: "Alpha", IPs: []string{"10.0.0.1", "10.0.0.9"}, MACs: []string{"aa", "a9"}, Reviewed: true},
		{Hostname: "beta", IPs: []string{"10.0.0.2"}, MACs: []string{"bb"}},
		{Hostname: "Charlie", IPs: []string{"10.0.0.3"}, MACs: []string{"cc"}},
	}, hosts)
}

func TestGetAndAt(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	addHosts(t, cat,
		Record{Hostname: "gamma"},
		Record{Hostname: "Alpha"},
		Record{Hostname: "beta"},
	)

	h, err := cat.Get(ctx, "ALPHA")
	require.NoError(t, err)
	require.Equal(t, "Alpha", h.Hostname)

	_, err = cat.Get(ctx, "delta")
	require.ErrorIs(t, err, ErrHostNotFound)

	h, err = cat.At(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "beta", h.Hostname)

	h, err = cat.At(ctx, -1)
	require.NoError(t, err)
	require.Equal(t, "gamma", h.Hostname)

	_, err = cat.At(ctx, 3)
	require.ErrorIs(t, err, ErrHostNotFound)
	_, err = cat.At(ctx, -4)
	require.ErrorIs(t, err, ErrHostNotFound)
}

func TestRemove(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	addHosts(t, cat,
		Record{Hostname: "alpha", IP: "10.0.0.1"},
		Record{Hostname: "Alpha", IP: "10.0.0.2"},
		Record{Hostname: "beta"},
	)

	n, err := cat.Remove(ctx, "alpha")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = cat.Remove(ctx, "alpha")
	require.NoError(t, err)
	require.Zero(t, n)

	hosts, err := cat.Hosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.Equal(t, "beta", hosts[0].Hostname)
}

func TestMarkReviewed(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	addHosts(t, cat, Record{Hostname: "alpha"})

	require.NoError(t, cat.MarkReviewed(ctx, "Alpha"))
	h, err := cat.Get(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, h.Reviewed)

	require.ErrorIs(t, cat.MarkReviewed(ctx, "nope"), ErrHostNotFound)
}

func TestRename(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	addHosts(t, cat,
		Record{Hostname: "laptop", IP: "10.0.0.1"},
		Record{Hostname: "Laptop", IP: "10.0.0.2"},
	)

	require.NoError(t, cat.Rename(ctx, "laptop", "workstation"))

	_, err := cat.Get(ctx, "laptop")
	require.ErrorIs(t, err, ErrHostNotFound)
	h, err := cat.Get(ctx, "workstation")
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, h.IPs)

	require.ErrorIs(t, cat.Rename(ctx, "laptop", "x"), ErrHostNotFound)
	require.ErrorContains(t, cat.Rename(ctx, "workstation", ""), "new name is empty")
}

func TestHosts_CachedUntilWriteOrInvalidate(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	addHosts(t, cat, Record{Hostname: "alpha"})

	hosts, err := cat.Hosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)

	// A write behind the catalog's back is not seen until Invalidate.
	_, err = cat.db.ExecContext(ctx, `INSERT INTO hosts (hostname) VALUES ('beta')`)
	require.NoError(t, err)
	hosts, err = cat.Hosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)

	cat.Invalidate()
	hosts, err = cat.Hosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	// Writes through the catalog flush it.
	addHosts(t, cat, Record{Hostname: "gamma"})
	hosts, err = cat.Hosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 3)
}

func TestOpen_WithoutCache(t *testing.T) {
	ctx := context.Background()
	cat, err := Open(ctx, filepath.Join(t.TempDir(), "hosts.db"), WithoutCache())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	addHosts(t, cat, Record{Hostname: "alpha"})

	_, err = cat.Hosts(ctx)
	require.NoError(t, err)
	_, err = cat.db.ExecContext(ctx, `INSERT INTO hosts (hostname) VALUES ('beta')`)
	require.NoError(t, err)

	hosts, err := cat.Hosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 2, "uncached reads see outside writes")
}

func TestOpen_WithCacheTTL(t *testing.T) {
	ctx := context.Background()
	cat, err := Open(ctx, filepath.Join(t.TempDir(), "hosts.db"), WithCacheTTL(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	require.Equal(t, 20*time.Millisecond, cat.cache.ttl)
	addHosts(t, cat, Record{Hostname: "alpha"})

	_, err = cat.Hosts(ctx)
	require.NoError(t, err)
	_, err = cat.db.ExecContext(ctx, `INSERT INTO hosts (hostname) VALUES ('beta')`)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		hosts, err := cat.Hosts(ctx)
		return err == nil && len(hosts) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWithCacheTTL_IgnoresNonPositive(t *testing.T) {
	o := options{cacheTTL: DefaultCacheTTL}
	WithCacheTTL(0)(&o)
	WithCacheTTL(-time.Second)(&o)
	require.Equal(t, DefaultCacheTTL, o.cacheTTL)
}

func TestOperations_EmitSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	cat := newTestCatalog(t)
	ctx := context.Background()
	addHosts(t, cat, Record{Hostname: "alpha"})
	_, err := cat.Hosts(ctx)
	require.NoError(t, err)
	_, err = cat.Hosts(ctx)
	require.NoError(t, err)

	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"catalog.add", "catalog.hosts", "catalog.hosts"}, names)
}
