// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo

package onnx

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdio.h>
#include <stdlib.h>

typedef int (*cu_init_fn)(unsigned int);
typedef int (*cu_count_fn)(int *);
typedef int (*cu_get_fn)(int *, int);
typedef int (*cu_name_fn)(char *, int, int);
typedef int (*cu_attr_fn)(int *, int, int);

static cu_count_fn cu_count;
static cu_get_fn cu_get;
static cu_name_fn cu_name;
static cu_attr_fn cu_attr;
static char dl_err[512];

static const char *cuda_error(void) { return dl_err; }

// The driver stays loaded for the life of the process.
static int cuda_load(const char *path) {
	void *lib = dlopen(path, RTLD_NOW | RTLD_GLOBAL);
	if (!lib) {
		const char *e = dlerror();
		snprintf(dl_err, sizeof dl_err, "%s", e ? e : "dlopen failed");
		return -1;
	}
	cu_init_fn init = (cu_init_fn)dlsym(lib, "cuInit");
	cu_count = (cu_count_fn)dlsym(lib, "cuDeviceGetCount");
	cu_get = (cu_get_fn)dlsym(lib, "cuDeviceGet");
	cu_name = (cu_name_fn)dlsym(lib, "cuDeviceGetName");
	cu_attr = (cu_attr_fn)dlsym(lib, "cuDeviceGetAttribute");
	if (!init || !cu_count || !cu_get || !cu_name || !cu_attr) return -2;
	return init(0);
}

static int cuda_count(int *n) { return cu_count(n); }

static int cuda_name(int ordinal, char *buf, int len) {
	int dev;
	int r = cu_get(&dev, ordinal);
	if (r) return r;
	return cu_name(buf, len, dev);
}

static int cuda_attr(int ordinal, int attr, int *v) {
	int dev;
	int r = cu_get(&dev, ordinal);
	if (r) return r;
	return cu_attr(v, attr, dev);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// cuDeviceAttributeIntegrated is CU_DEVICE_ATTRIBUTE_INTEGRATED.
const cuDeviceAttributeIntegrated = 18

var cudaMu sync.Mutex

// cudaDevices lists the devices of the CUDA driver at lib in ordinal order.
func cudaDevices(lib string) ([]cudaDevice, error) {
	cudaMu.Lock()
	defer cudaMu.Unlock()

	path := C.CString(lib)
	defer C.free(unsafe.Pointer(path))
	switch r := C.cuda_load(path); r {
	case 0:
	case -1:
		return nil, fmt.Errorf("onnx: load CUDA driver %s: %s", lib, C.GoString(C.cuda_error()))
	case -2:
		return nil, fmt.Errorf("onnx: %s is not a CUDA driver", lib)
	default:
		return nil, fmt.Errorf("onnx: cuInit: CUDA error %d", int(r))
	}

	var n C.int
	if r := C.cuda_count(&n); r != 0 {
		return nil, fmt.Errorf("onnx: cuDeviceGetCount: CUDA error %d", int(r))
	}
	devs := make([]cudaDevice, int(n))
	var buf [256]C.char
	for i := range devs {
		if r := C.cuda_name(C.int(i), &buf[0], C.int(len(buf))); r != 0 {
			return nil, fmt.Errorf("onnx: cuDeviceGetName(%d): CUDA error %d", i, int(r))
		}
		var integrated C.int
		if r := C.cuda_attr(C.int(i), cuDeviceAttributeIntegrated, &integrated); r != 0 {
			return nil, fmt.Errorf("onnx: cuDeviceGetAttribute(%d): CUDA error %d", i, int(r))
		}
		devs[i] = cudaDevice{name: C.GoString(&buf[0]), integrated: integrated != 0}
	}
	return devs, nil
}
