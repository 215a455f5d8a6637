package observability

import "syscall"

// freeDiskSpace returns the free byte count on the filesystem
// containing path. No third-party disk-usage library appears anywhere
// in the pack, so this stays on syscall.Statfs directly.
func freeDiskSpace(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
