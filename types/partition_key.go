package types

import "fmt"

// PartitionKey identifies a silver partition
type PartitionKey struct {
	Country string
	State   string
}

func (k PartitionKey) String() string {
	return fmt.Sprintf("%s/%s", k.Country, k.State)
}

func (k PartitionKey) Less(other PartitionKey) bool {
	if k.Country != other.Country {
		return k.Country < other.Country
	}
	return k.State < other.State
}
