package stats

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/dmarkov/weather-requests-api/internal/config"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Requests  RequestStats  `json:"requests"`
	Memory    MemoryStats   `json:"memory"`
	Database  DatabaseStats `json:"database"`
	Runtime   RuntimeStats  `json:"runtime"`
}

// RequestStats aggregates the weather_requests table
type RequestStats struct {
	TotalRequests   int64                 `json:"total_requests"`
	UniqueLocations int64                 `json:"unique_locations"`
	TopLocations    []model.LocationCount `json:"top_locations"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	NumGC        uint32 `json:"num_gc"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapSys      uint64 `json:"heap_sys"`
	HeapInuse    uint64 `json:"heap_inuse"`
	HeapReleased uint64 `json:"heap_released"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// Collector is read-only over the database; it never mutates the tables
type Collector struct {
	db         *sqlx.DB
	config     config.DBConfig
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var (
	memStatsCacheDuration = 5 * time.Second
)

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
	}

	requestStats, err := c.collectRequestStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Requests = *requestStats

	stats.Memory = c.collectMemoryStats()

	dbStats, err := c.collectDatabaseStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Database = *dbStats
	stats.Runtime = c.collectRuntimeStats()

	return stats, nil
}

func (c *Collector) collectRequestStats(ctx context.Context) (*RequestStats, error) {
	stats := &RequestStats{}

	if err := c.db.GetContext(ctx, &stats.TotalRequests,
		"SELECT COUNT(*) FROM weather_requests"); err != nil {
		return nil, err
	}

	if err := c.db.GetContext(ctx, &stats.UniqueLocations,
		"SELECT COUNT(DISTINCT normalized_location) FROM weather_requests"); err != nil {
		return nil, err
	}

	// Ties broken by name so repeated calls on unchanged data are stable
	q := `
		SELECT normalized_location, COUNT(*) as count
		FROM weather_requests
		GROUP BY normalized_location
		ORDER BY count DESC, normalized_location ASC
		LIMIT 5
	`
	top := []model.LocationCount{}
	if err := c.db.SelectContext(ctx, &top, q); err != nil {
		return nil, err
	}
	stats.TopLocations = top

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapInuse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Type: string(c.config.Type),
	}

	if totalSize, err := c.getDatabaseSize(ctx); err == nil {
		stats.SizeBytes = totalSize
	}

	tableStats, err := c.getTableStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.TableStats = tableStats

	var totalRecords int64
	for _, ts := range tableStats {
		totalRecords += ts.RowCount
	}
	stats.TotalRecords = totalRecords

	return stats, nil
}

func (c *Collector) getDatabaseSize(ctx context.Context) (int64, error) {
	var size int64
	var err error

	if c.config.Type == config.DBTypePostgreSQL {
		err = c.db.GetContext(ctx, &size, "SELECT pg_database_size(current_database())")
	} else {
		err = c.db.GetContext(ctx, &size, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	}

	if err != nil {
		return 0, err
	}
	return size, nil
}

func (c *Collector) getTableStats(ctx context.Context) ([]TableStat, error) {
	var stats []TableStat

	tables := []string{"weather_requests", "location_cache"}

	for _, table := range tables {
		stat, err := c.getTableStat(ctx, table)
		if err != nil {
			continue
		}
		stats = append(stats, *stat)
	}

	return stats, nil
}

func (c *Collector) getTableStat(ctx context.Context, tableName string) (*TableStat, error) {
	stat := &TableStat{Name: tableName}

	countQuery := "SELECT COUNT(*) FROM " + tableName
	var count int64
	err := c.db.GetContext(ctx, &count, countQuery)
	if err != nil {
		return nil, err
	}
	stat.RowCount = count

	if c.config.Type == config.DBTypePostgreSQL {
		sizeQuery := `SELECT COALESCE(pg_total_relation_size($1::regclass), 0)`
		var size int64
		err = c.db.GetContext(ctx, &size, sizeQuery, tableName)
		if err == nil {
			stat.SizeBytes = size
		}
	} else {
		// Try to use dbstat if available
		sizeQuery := `SELECT SUM(pgsize) FROM dbstat WHERE name = ?`
		var size int64
		_ = c.db.GetContext(ctx, &size, sizeQuery, tableName)
		stat.SizeBytes = size
	}

	return stat, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}
