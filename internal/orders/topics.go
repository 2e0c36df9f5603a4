package orders

const (
	TopicOrderPlaced  = "storefront.order.placed"
	TopicOrderUpdated = "storefront.order.updated"
)

// Partition key = order id so events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
