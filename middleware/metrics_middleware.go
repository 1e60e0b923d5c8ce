package middleware

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"arena-api/metrics"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	log "github.com/sirupsen/logrus"
)

const systemMetricsInterval = 15 * time.Second

// MetricsMiddleware collects HTTP request metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Route templates keep the label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		metrics.RequestInProgress.WithLabelValues(method, path).Inc()
		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestCounter.WithLabelValues(status, method, path).Inc()
		metrics.RequestDuration.WithLabelValues(status, method, path).Observe(duration)
		metrics.RequestInProgress.WithLabelValues(method, path).Dec()
	}
}

// UpdateSystemMetrics refreshes the process and host gauges until ctx is done
func UpdateSystemMetrics(ctx context.Context) error {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		collectSystemMetrics()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func collectSystemMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics.MemoryStats.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	metrics.MemoryStats.WithLabelValues("sys").Set(float64(memStats.Sys))
	metrics.MemoryStats.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	metrics.MemoryStats.WithLabelValues("heap_sys").Set(float64(memStats.HeapSys))
	metrics.MemoryStats.WithLabelValues("heap_idle").Set(float64(memStats.HeapIdle))
	metrics.MemoryStats.WithLabelValues("heap_inuse").Set(float64(memStats.HeapInuse))
	metrics.GoroutineCount.Set(float64(runtime.NumGoroutine()))

	if percents, err := cpu.Percent(0, true); err == nil {
		for core, percent := range percents {
			metrics.SystemCPUUsage.WithLabelValues(fmt.Sprintf("cpu%d", core)).Set(percent)
		}
	} else {
		log.Debugf("Failed to read cpu usage: %v", err)
	}

	if avg, err := load.Avg(); err == nil {
		metrics.SystemLoadAverage.WithLabelValues("1min").Set(avg.Load1)
		metrics.SystemLoadAverage.WithLabelValues("5min").Set(avg.Load5)
		metrics.SystemLoadAverage.WithLabelValues("15min").Set(avg.Load15)
	} else {
		log.Debugf("Failed to read load average: %v", err)
	}

	partitions, err := disk.Partitions(false)
	if err != nil {
		log.Debugf("Failed to list partitions: %v", err)
		return
	}
	for _, partition := range partitions {
		usage, err := disk.Usage(partition.Mountpoint)
		if err != nil {
			continue
		}
		metrics.SystemDiskUsage.WithLabelValues(partition.Device, partition.Mountpoint, "used").Set(float64(usage.Used))
		metrics.SystemDiskUsage.WithLabelValues(partition.Device, partition.Mountpoint, "free").Set(float64(usage.Free))
		metrics.SystemDiskUsage.WithLabelValues(partition.Device, partition.Mountpoint, "total").Set(float64(usage.Total))
	}
}
