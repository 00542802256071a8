package discovery

import "errors"

var (
	ErrMalformed      = errors.New("malformed announcement")
	ErrRecordTooLarge = errors.New("announcement does not fit into a datagram")
	ErrNotIPv4        = errors.New("address is not IPv4")
	ErrInvalidGroup   = errors.New("not an IPv4 multicast group")
	ErrNoCoordinator  = errors.New("receiver binding has no coordinator")
)
