//go:build windows

package tray

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const cfUnicodeText = 13

var (
	user32dll        = windows.NewLazySystemDLL("user32.dll")
	kernel32dll      = windows.NewLazySystemDLL("kernel32.dll")
	openClipboard    = user32dll.NewProc("OpenClipboard")
	closeClipboard   = user32dll.NewProc("CloseClipboard")
	getClipboardData = user32dll.NewProc("GetClipboardData")
	globalLock       = kernel32dll.NewProc("GlobalLock")
	globalUnlock     = kernel32dll.NewProc("GlobalUnlock")
)

var errClipboardEmpty = errors.New("clipboard has no text")

// readClipboardText returns the text currently in the Windows clipboard
func readClipboardText() (string, error) {
	if r, _, err := openClipboard.Call(0); r == 0 {
		return "", fmt.Errorf("failed to open clipboard: %w", err)
	}
	defer closeClipboard.Call()

	h, _, _ := getClipboardData.Call(cfUnicodeText)
	if h == 0 {
		return "", errClipboardEmpty
	}

	p, _, err := globalLock.Call(h)
	if p == 0 {
		return "", fmt.Errorf("failed to lock clipboard data: %w", err)
	}
	defer globalUnlock.Call(h)

	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(p))), nil
}
