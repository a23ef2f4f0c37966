//go:build linux

package platform

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = "/org/freedesktop/Notifications"
	notifyCall  = notifyDest + ".Notify"
	expireAfter = int32(5000)
)

// Notify sends a desktop notification using the Freedesktop.org notification spec.
func Notify(ctx context.Context, title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return err
	}
	defer conn.Close()

	app := opts.AppName
	if app == "" {
		app = DefaultAppName
	}
	obj := conn.Object(notifyDest, notifyPath)
	call := obj.CallWithContext(ctx, notifyCall, 0,
		app, uint32(0), opts.IconPath, title, body, []string{}, map[string]dbus.Variant{}, expireAfter)
	return call.Err
}
