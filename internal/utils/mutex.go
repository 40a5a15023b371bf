package utils

import "sync"

var gdalMu sync.Mutex

// ExecuteWithGDALLock serializes access to the GDAL library, which is not
// safe to call from concurrent loaders.
func ExecuteWithGDALLock(fn func()) {
	gdalMu.Lock()
	defer gdalMu.Unlock()
	fn()
}
