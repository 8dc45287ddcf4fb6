package services

import "justeat/models"

// orderTransitions lists the statuses each status may move to. Statuses
// without an entry are terminal.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending: {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
