package partition

import (
	"sort"

	"github.com/turbot/brewery-pipeline/types"
	"golang.org/x/exp/maps"
)

// Partition is the set of cleaned records sharing a (country, state) key
type Partition struct {
	Key  types.PartitionKey
	Rows []types.Brewery
}

// Group splits rows by partition key. Row order within a partition follows the input order,
// and partitions are returned sorted by key.
func Group(rows []*types.Brewery) []*Partition {
	byKey := make(map[types.PartitionKey]*Partition)
	for _, r := range rows {
		key := r.PartitionKey()
		p, ok := byKey[key]
		if !ok {
			p = &Partition{Key: key}
			byKey[key] = p
		}
		p.Rows = append(p.Rows, *r)
	}

	keys := maps.Keys(byKey)
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	res := make([]*Partition, len(keys))
	for i, k := range keys {
		res[i] = byKey[k]
	}
	return res
}
