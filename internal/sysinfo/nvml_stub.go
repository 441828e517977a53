//go:build !cuda

package sysinfo

import "modelhost/pkg/types"

// probeGPUs reports no GPUs when CUDA support is disabled.
func probeGPUs() []types.GPUInfo {
	return nil
}
