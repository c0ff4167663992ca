package types

import (
	"github.com/turbot/brewery-pipeline/helpers"
)

// RawBrewery is the subset of a raw snapshot entry the pipeline reads.
// All other fields in the snapshot are ignored.
type RawBrewery struct {
	Id          helpers.FlexString `json:"id"`
	Name        helpers.FlexString `json:"name"`
	BreweryType helpers.FlexString `json:"brewery_type"`
	City        helpers.FlexString `json:"city"`
	State       helpers.FlexString `json:"state"`
	Country     helpers.FlexString `json:"country"`
	Longitude   helpers.FlexFloat  `json:"longitude"`
	Latitude    helpers.FlexFloat  `json:"latitude"`
}

// Clean projects the raw entry to a Brewery.
// It returns false if either state or country is null, in which case the entry must be dropped.
func (r *RawBrewery) Clean() (*Brewery, bool) {
	if !r.State.Valid || !r.Country.Valid {
		return nil, false
	}
	return &Brewery{
		Id:          r.Id.Ptr(),
		Name:        r.Name.Ptr(),
		BreweryType: r.BreweryType.Ptr(),
		City:        r.City.Ptr(),
		State:       r.State.Value,
		Country:     r.Country.Value,
		Longitude:   r.Longitude.Ptr(),
		Latitude:    r.Latitude.Ptr(),
	}, true
}

// Brewery is a cleaned entity record, as stored in a silver partition.
// Field order defines the partition column order.
type Brewery struct {
	Id          *string  `parquet:"id,optional" json:"id"`
	Name        *string  `parquet:"name,optional" json:"name"`
	BreweryType *string  `parquet:"brewery_type,optional" json:"brewery_type"`
	City        *string  `parquet:"city,optional" json:"city"`
	State       string   `parquet:"state" json:"state"`
	Country     string   `parquet:"country" json:"country"`
	Longitude   *float64 `parquet:"longitude,optional" json:"longitude"`
	Latitude    *float64 `parquet:"latitude,optional" json:"latitude"`
}

// PartitionKey returns the (country, state) key this record is partitioned by
func (b *Brewery) PartitionKey() PartitionKey {
	return PartitionKey{Country: b.Country, State: b.State}
}

// BreweryAggregate is one row of the gold artifact
type BreweryAggregate struct {
	Country      string `parquet:"country" json:"country"`
	State        string `parquet:"state" json:"state"`
	BreweryType  string `parquet:"brewery_type" json:"brewery_type"`
	BreweryCount int64  `parquet:"brewery_count" json:"brewery_count"`
}

// AggregateKey identifies a gold row
type AggregateKey struct {
	Country     string
	State       string
	BreweryType string
}

func (k AggregateKey) Less(other AggregateKey) bool {
	if k.Country != other.Country {
		return k.Country < other.Country
	}
	if k.State != other.State {
		return k.State < other.State
	}
	return k.BreweryType < other.BreweryType
}
