//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

func unavailableErr() error { return errPortalUnsupported }
