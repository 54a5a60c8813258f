package enum

// NotificationType is the kind of event fanned out to terminals
type NotificationType string

const (
	NotificationNewOrder   NotificationType = "new_order"
	NotificationOrderReady NotificationType = "order_ready"
)

// Valid reports whether the type is one of the known values
func (t NotificationType) Valid() bool {
	return t == NotificationNewOrder || t == NotificationOrderReady
}
