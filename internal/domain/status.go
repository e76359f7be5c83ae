package domain

import "strings"

const (
	OrderStatusReleased = "released"
	OrderStatusApproved = "approved"
	OrderStatusDeclined = "declined"
	OrderStatusSent     = "sent"
	OrderStatusArrived  = "arrived"
)

var orderStatusLabels = map[string]string{
	OrderStatusReleased: "Released",
	OrderStatusApproved: "Approved",
	OrderStatusDeclined: "Declined",
	OrderStatusSent:     "Sent",
	OrderStatusArrived:  "Arrived",
}

// OrderStatusLabel returns a human-readable label for an order status.
func OrderStatusLabel(status string) string {
	if label, ok := orderStatusLabels[strings.ToLower(status)]; ok {
		return label
	}

	return "Draft"
}
