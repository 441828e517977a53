//go:build cuda

package sysinfo

import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"modelhost/pkg/types"
)

// probeGPUs enumerates NVIDIA devices through NVML. Any failure yields an
// empty list rather than an error; GPU presence is advisory.
func probeGPUs() []types.GPUInfo {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil
	}
	defer nvml.Shutdown()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS || count == 0 {
		return nil
	}
	driver, _ := nvml.SystemGetDriverVersion()

	gpus := make([]types.GPUInfo, 0, count)
	for i := 0; i < count; i++ {
		dev, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			continue
		}
		g := types.GPUInfo{DriverVersion: driver}
		if name, ret := dev.GetName(); ret == nvml.SUCCESS {
			g.Name = name
		}
		if mem, ret := dev.GetMemoryInfo(); ret == nvml.SUCCESS {
			g.VRAMTotal = mem.Total
			g.VRAMUsed = mem.Used
		}
		gpus = append(gpus, g)
	}
	return gpus
}
