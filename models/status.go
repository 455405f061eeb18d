package models

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "PLACED"
	StatusPacked         OrderStatus = "PACKED"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
)

// Forward-only; DELIVERED is terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPlaced:         {StatusPacked: true},
	StatusPacked:         {StatusOutForDelivery: true},
	StatusOutForDelivery: {StatusDelivered: true},
	StatusDelivered:      {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// PartnerStatus is the delivery partner availability state.
type PartnerStatus string

const (
	PartnerInactive  PartnerStatus = "INACTIVE"
	PartnerAvailable PartnerStatus = "AVAILABLE"
	PartnerBusy      PartnerStatus = "BUSY"
)

// A BUSY partner can only be released by delivering the assigned order.
var partnerNext = map[PartnerStatus]map[PartnerStatus]bool{
	PartnerInactive:  {PartnerAvailable: true},
	PartnerAvailable: {PartnerInactive: true, PartnerBusy: true},
	PartnerBusy:      {PartnerAvailable: true},
}

func PartnerCanTransition(from, to PartnerStatus) bool {
	return partnerNext[from][to]
}
