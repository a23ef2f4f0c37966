//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import "github.com/godbus/dbus/v5"

func unavailableErr() error {
	return &dbus.Error{Name: "org.freedesktop.portal.Error.NotSupported"}
}
