// Package platform delivers desktop notifications on the host.
package platform

// DefaultAppName is reported to the notification server when Options leaves
// AppName empty.
const DefaultAppName = "Shinemark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
}
