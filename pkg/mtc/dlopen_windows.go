//go:build windows

package mtc

import "golang.org/x/sys/windows"

func dlopen(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}
