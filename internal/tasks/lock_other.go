//go:build !unix && !windows

package tasks

import "os"

// No advisory locking here; the in-process mutex is all there is.
func tryLock(*os.File, bool) error { return nil }

func unlockFile(*os.File) {}
