package enum

// Channel is the sales channel an order came through
type Channel string

const (
	ChannelSalon    Channel = "salon"
	ChannelTakeaway Channel = "takeaway"
	ChannelDelivery Channel = "delivery"
)

// Valid reports whether the channel is one of the known values
func (c Channel) Valid() bool {
	switch c {
	case ChannelSalon, ChannelTakeaway, ChannelDelivery:
		return true
	}
	return false
}

// Location distinguishes indoor/outdoor tables; only meaningful for salon orders
type Location string

const (
	LocationIndoor  Location = "indoor"
	LocationOutdoor Location = "outdoor"
)

// Valid reports whether the location is one of the known values
func (l Location) Valid() bool {
	return l == LocationIndoor || l == LocationOutdoor
}
