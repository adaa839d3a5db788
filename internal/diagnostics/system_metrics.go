// Package diagnostics collects host health information for the doctor
// command.
package diagnostics

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of host resources. Fields stay zero when
// the platform cannot report them; collection is best-effort by design.
type Snapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	CPUPercent     float64   `json:"cpu_percent"`
	CPUCount       int       `json:"cpu_count"`
	Load1          float64   `json:"load1"`
	MemTotalMB     uint64    `json:"mem_total_mb"`
	MemUsedMB      uint64    `json:"mem_used_mb"`
	MemUsedPercent float64   `json:"mem_used_percent"`
	DiskFreeMB     uint64    `json:"disk_free_mb"`
	DiskPercent    float64   `json:"disk_percent"`
}

// Collect gathers a snapshot. Individual probe failures leave their fields
// zero rather than failing the whole snapshot.
func Collect(ctx context.Context, diskPath string) Snapshot {
	snap := Snapshot{Timestamp: time.Now()}

	if percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}
	if count, err := cpu.CountsWithContext(ctx, true); err == nil {
		snap.CPUCount = count
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		snap.Load1 = avg.Load1
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.MemTotalMB = vm.Total / (1 << 20)
		snap.MemUsedMB = vm.Used / (1 << 20)
		snap.MemUsedPercent = vm.UsedPercent
	}
	if diskPath == "" {
		diskPath = "/"
	}
	if usage, err := disk.UsageWithContext(ctx, diskPath); err == nil {
		snap.DiskFreeMB = usage.Free / (1 << 20)
		snap.DiskPercent = usage.UsedPercent
	}
	return snap
}
