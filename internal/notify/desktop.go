package notify

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod         = notificationsService + ".Notify"
)

// Desktop shows notifications through the freedesktop notification
// service on the D-Bus session bus.
type Desktop struct {
	appName string
	connect func() (*dbus.Conn, error)
}

// NewDesktop returns a desktop notifier identifying itself as appName.
func NewDesktop(appName string) *Desktop {
	return &Desktop{
		appName: appName,
		connect: func() (*dbus.Conn, error) {
			return dbus.ConnectSessionBus()
		},
	}
}

func (d *Desktop) Show(ctx context.Context, n Notification) error {
	conn, err := d.connect()
	if err != nil {
		return fmt.Errorf("connecting to session bus: %w", err)
	}
	defer conn.Close()

	// -1 lets the server pick the timeout, 0 never expires
	timeout := int32(-1)
	if n.Persistent {
		timeout = 0
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}

	obj := conn.Object(notificationsService, notificationsPath)
	call := obj.CallWithContext(ctx, notifyMethod, 0,
		d.appName, uint32(0), n.Icon, n.Title, n.Body, []string{}, hints, timeout)
	if call.Err != nil {
		return fmt.Errorf("sending notification: %w", call.Err)
	}
	return nil
}
