// Package sysinfo takes an advisory snapshot of host capabilities: CPU,
// memory and (in cuda builds) NVIDIA GPUs. Values are informational; nothing
// in the lifecycle gates on them.
package sysinfo

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"

	"modelhost/pkg/types"
)

// Collect returns the current host snapshot. GPU probing failures are
// swallowed; a machine without NVML simply reports no GPUs.
func Collect() types.HostInfo {
	info := types.HostInfo{
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		CPUCores: runtime.NumCPU(),
	}
	info.TotalMemory, info.FreeMemory = memInfo()
	info.GPUs = probeGPUs()
	return info
}

// memInfo reads total and available memory in bytes from /proc/meminfo.
// Returns zeros on platforms without it.
func memInfo() (total, free uint64) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = kb * 1024
		case "MemAvailable:":
			free = kb * 1024
		}
	}
	return total, free
}
