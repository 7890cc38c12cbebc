// Package query maps a browse configuration onto an explicit request
// description. Building a description never touches the network, so the
// filter/sort/pagination contract can be tested without a live backend.
package query

import (
	"strings"

	"roomlink/internal/domain/entity"
)

type Op string

const (
	// OpEqual is an exact match on the field value.
	OpEqual Op = "eq"
	// OpContains is a case-insensitive substring match.
	OpContains Op = "contains"
)

type Filter struct {
	Field string
	Op    Op
	Value string
}

// Clause is a disjunction: a row matches when any filter in it matches.
// Description.Where is a conjunction of clauses.
type Clause []Filter

type Order struct {
	Field string
	Desc  bool
}

// Description is the value object handed to the repository for execution.
// From/To are inclusive row indexes into the filtered, ordered result set.
type Description struct {
	Collection string
	Where      []Clause
	Sort       []Order
	From       int
	To         int
	WantTotal  bool
}

const (
	SortNewest    = "newest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
)

const (
	FieldName       = "name"
	FieldLocation   = "location"
	FieldGenderPref = "gender_pref"
	FieldPrice      = "price"
	FieldCreatedAt  = "created_at"
	FieldID         = "id"
)

// FilterAll disables the location and gender filters.
const FilterAll = "all"

type Params struct {
	Collection string
	Location   string
	Gender     string
	SearchTerm string
	SortKey    string
	Page       int
	PageSize   int
}

// Build translates browse parameters into a Description.
//
// Location filtering is a case-insensitive substring match for both
// collections. The gender filter only applies to roommate listings. A search
// term matches the name, and also the location when no location filter is
// active. An unknown sort key falls back to newest; page numbers below 1 are
// clamped rather than rejected so stale pagination controls cannot break a
// fetch. Every sort carries an id-descending tie-break so page boundaries
// stay stable when primary sort values collide.
func Build(p Params) Description {
	desc := Description{
		Collection: p.Collection,
		WantTotal:  true,
	}

	locationFiltered := p.Location != "" && p.Location != FilterAll
	if locationFiltered {
		desc.Where = append(desc.Where, Clause{
			{Field: FieldLocation, Op: OpContains, Value: p.Location},
		})
	}

	if p.Collection == entity.CollectionRoommates && p.Gender != "" && p.Gender != FilterAll {
		desc.Where = append(desc.Where, Clause{
			{Field: FieldGenderPref, Op: OpEqual, Value: p.Gender},
		})
	}

	if term := strings.TrimSpace(p.SearchTerm); term != "" {
		clause := Clause{{Field: FieldName, Op: OpContains, Value: term}}
		if !locationFiltered {
			clause = append(clause, Filter{Field: FieldLocation, Op: OpContains, Value: term})
		}
		desc.Where = append(desc.Where, clause)
	}

	switch p.SortKey {
	case SortPriceLow:
		desc.Sort = []Order{{Field: FieldPrice}}
	case SortPriceHigh:
		desc.Sort = []Order{{Field: FieldPrice, Desc: true}}
	default:
		desc.Sort = []Order{{Field: FieldCreatedAt, Desc: true}}
	}
	desc.Sort = append(desc.Sort, Order{Field: FieldID, Desc: true})

	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size < 1 {
		size = 1
	}
	desc.From = (page - 1) * size
	desc.To = page*size - 1

	return desc
}
