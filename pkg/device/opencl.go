//go:build opencl

package device

/*
#cgo linux LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL
#cgo windows LDFLAGS: -lOpenCL

#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#endif

#include <stdlib.h>
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/jihwankim/createx-miner/pkg/createx"
)

// OpenCLDevice drives a physical GPU through cgo OpenCL bindings. It holds
// every handle for the process lifetime (spec.md §5: "GPU device, context,
// queue, program, and work buffers are owned by the single host thread").
type OpenCLDevice struct {
	platform C.cl_platform_id
	device   C.cl_device_id
	context  C.cl_context
	queue    C.cl_command_queue
	program  C.cl_program
	kernel   C.cl_kernel

	bufMessage   C.cl_mem
	bufNonce     C.cl_mem
	bufSolutions C.cl_mem
}

// Open compiles kernelSource against the deviceIndex'th GPU device on the
// first available OpenCL platform and creates its work buffers. cfg is
// unused on this build (the search logic already lives in kernelSource);
// it exists so callers can share one call site with the CPU fallback. A
// build failure surfaces the driver's compile log verbatim, since it
// almost always indicates a specializer bug (spec.md §7).
func Open(deviceIndex int, cfg createx.Config, kernelSource string) (Device, error) {
	d := &OpenCLDevice{}

	var numPlatforms C.cl_uint
	if C.clGetPlatformIDs(0, nil, &numPlatforms) != C.CL_SUCCESS || numPlatforms == 0 {
		return nil, fmt.Errorf("device: no OpenCL platforms available")
	}
	platforms := make([]C.cl_platform_id, numPlatforms)
	C.clGetPlatformIDs(numPlatforms, &platforms[0], nil)
	d.platform = platforms[0]

	var numDevices C.cl_uint
	if C.clGetDeviceIDs(d.platform, C.CL_DEVICE_TYPE_GPU, 0, nil, &numDevices) != C.CL_SUCCESS || numDevices == 0 {
		return nil, fmt.Errorf("device: no GPU devices on platform")
	}
	if deviceIndex < 0 || C.cl_uint(deviceIndex) >= numDevices {
		return nil, fmt.Errorf("device: index %d out of range, %d devices available", deviceIndex, numDevices)
	}
	devices := make([]C.cl_device_id, numDevices)
	C.clGetDeviceIDs(d.platform, C.CL_DEVICE_TYPE_GPU, numDevices, &devices[0], nil)
	d.device = devices[deviceIndex]

	var ret C.cl_int
	d.context = C.clCreateContext(nil, 1, &d.device, nil, nil, &ret)
	if ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("device: clCreateContext failed: %d", ret)
	}

	d.queue = C.clCreateCommandQueue(d.context, d.device, 0, &ret)
	if ret != C.CL_SUCCESS {
		d.Close()
		return nil, fmt.Errorf("device: clCreateCommandQueue failed: %d", ret)
	}

	src := C.CString(kernelSource)
	defer C.free(unsafe.Pointer(src))
	length := C.size_t(len(kernelSource))
	d.program = C.clCreateProgramWithSource(d.context, 1, &src, &length, &ret)
	if ret != C.CL_SUCCESS {
		d.Close()
		return nil, fmt.Errorf("device: clCreateProgramWithSource failed: %d", ret)
	}

	if C.clBuildProgram(d.program, 1, &d.device, nil, nil, nil) != C.CL_SUCCESS {
		var logSize C.size_t
		C.clGetProgramBuildInfo(d.program, d.device, C.CL_PROGRAM_BUILD_LOG, 0, nil, &logSize)
		buildLog := make([]byte, logSize)
		if logSize > 0 {
			C.clGetProgramBuildInfo(d.program, d.device, C.CL_PROGRAM_BUILD_LOG, logSize, unsafe.Pointer(&buildLog[0]), nil)
		}
		d.Close()
		return nil, fmt.Errorf("device: kernel build failed:\n%s", string(buildLog))
	}

	kernelName := C.CString("search")
	defer C.free(unsafe.Pointer(kernelName))
	d.kernel = C.clCreateKernel(d.program, kernelName, &ret)
	if ret != C.CL_SUCCESS {
		d.Close()
		return nil, fmt.Errorf("device: clCreateKernel failed: %d", ret)
	}

	if err := d.createBuffers(); err != nil {
		d.Close()
		return nil, err
	}

	return d, nil
}

func (d *OpenCLDevice) createBuffers() error {
	var ret C.cl_int

	d.bufMessage = C.clCreateBuffer(d.context, C.CL_MEM_READ_ONLY, 4, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("device: message buffer: %d", ret)
	}
	d.bufNonce = C.clCreateBuffer(d.context, C.CL_MEM_READ_ONLY, 8, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("device: nonce buffer: %d", ret)
	}
	d.bufSolutions = C.clCreateBuffer(d.context, C.CL_MEM_READ_WRITE, 4*8, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("device: solutions buffer: %d", ret)
	}

	C.clSetKernelArg(d.kernel, 0, C.size_t(unsafe.Sizeof(d.bufMessage)), unsafe.Pointer(&d.bufMessage))
	C.clSetKernelArg(d.kernel, 1, C.size_t(unsafe.Sizeof(d.bufNonce)), unsafe.Pointer(&d.bufNonce))
	C.clSetKernelArg(d.kernel, 2, C.size_t(unsafe.Sizeof(d.bufSolutions)), unsafe.Pointer(&d.bufSolutions))

	return nil
}

func (d *OpenCLDevice) NewBatch(ctx context.Context, message [4]byte, nonceBase uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ret := C.clEnqueueWriteBuffer(d.queue, d.bufMessage, C.CL_TRUE, 0, 4,
		unsafe.Pointer(&message[0]), 0, nil, nil); ret != C.CL_SUCCESS {
		return fmt.Errorf("device: write message: %d", ret)
	}
	if err := d.SetNonce(ctx, nonceBase); err != nil {
		return err
	}
	var zero [4]uint64
	if ret := C.clEnqueueWriteBuffer(d.queue, d.bufSolutions, C.CL_TRUE, 0, 4*8,
		unsafe.Pointer(&zero[0]), 0, nil, nil); ret != C.CL_SUCCESS {
		return fmt.Errorf("device: clear solutions: %d", ret)
	}
	return nil
}

func (d *OpenCLDevice) SetNonce(ctx context.Context, nonce uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ret := C.clEnqueueWriteBuffer(d.queue, d.bufNonce, C.CL_TRUE, 0, 8,
		unsafe.Pointer(&nonce), 0, nil, nil); ret != C.CL_SUCCESS {
		return fmt.Errorf("device: write nonce: %d", ret)
	}
	return nil
}

func (d *OpenCLDevice) Dispatch(ctx context.Context, workSize uint32) (Batch, error) {
	var batch Batch
	if err := ctx.Err(); err != nil {
		return batch, err
	}

	global := C.size_t(workSize)
	if ret := C.clEnqueueNDRangeKernel(d.queue, d.kernel, 1, nil, &global, nil, 0, nil, nil); ret != C.CL_SUCCESS {
		return batch, fmt.Errorf("device: kernel dispatch failed: %d", ret)
	}

	if ret := C.clEnqueueReadBuffer(d.queue, d.bufSolutions, C.CL_TRUE, 0, 4*8,
		unsafe.Pointer(&batch.Solutions[0]), 0, nil, nil); ret != C.CL_SUCCESS {
		return batch, fmt.Errorf("device: read solutions failed: %d", ret)
	}

	return batch, nil
}

func (d *OpenCLDevice) Close() error {
	if d.bufMessage != nil {
		C.clReleaseMemObject(d.bufMessage)
	}
	if d.bufNonce != nil {
		C.clReleaseMemObject(d.bufNonce)
	}
	if d.bufSolutions != nil {
		C.clReleaseMemObject(d.bufSolutions)
	}
	if d.kernel != nil {
		C.clReleaseKernel(d.kernel)
	}
	if d.program != nil {
		C.clReleaseProgram(d.program)
	}
	if d.queue != nil {
		C.clReleaseCommandQueue(d.queue)
	}
	if d.context != nil {
		C.clReleaseContext(d.context)
	}
	return nil
}
