package node

//go:generate go tool stringer -type=DispatcherEnum -trimprefix=Dispatcher -output=dispatcher_string.go

// DispatcherEnum names the conversion family selected for a pair of base types.
type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherInterface
	DispatcherSlice
	DispatcherMap
	DispatcherStruct

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)
