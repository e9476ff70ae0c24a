package service

import (
	"strings"

	"github.com/shoppingmall/internal/constants"
)

// orderTransitions 订单状态流转表：原状态 -> 目标状态 -> 允许的发起方
var orderTransitions = map[string]map[string][]string{
	constants.OrderStatusAwaitingShipment: {
		constants.OrderStatusShipped:   {constants.OrderActorAdmin},
		constants.OrderStatusAfterSale: {constants.OrderActorUser, constants.OrderActorAdmin},
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusReceived:  {constants.OrderActorUser, constants.OrderActorAdmin, constants.OrderActorSystem},
		constants.OrderStatusAfterSale: {constants.OrderActorUser, constants.OrderActorAdmin},
	},
	constants.OrderStatusReceived: {
		constants.OrderStatusAfterSale: {constants.OrderActorUser, constants.OrderActorAdmin},
	},
}

// isValidOrderStatus 判断状态值是否合法
func isValidOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusAwaitingShipment,
		constants.OrderStatusShipped,
		constants.OrderStatusReceived,
		constants.OrderStatusAfterSale:
		return true
	}
	return false
}

// canTransitionOrder 判断发起方能否将订单从 from 改为 to
func canTransitionOrder(from, to, actor string) bool {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	targets, ok := orderTransitions[from]
	if !ok {
		return false
	}
	actors, ok := targets[to]
	if !ok {
		return false
	}
	for _, allowed := range actors {
		if allowed == actor {
			return true
		}
	}
	return false
}
