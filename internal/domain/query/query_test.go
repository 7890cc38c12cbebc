package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roomlink/internal/domain/entity"
)

func TestBuildPageRange(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionHouses,
		Page:       2,
		PageSize:   8,
	})

	assert.Equal(t, 8, desc.From)
	assert.Equal(t, 15, desc.To)
	assert.Equal(t, 8, desc.To-desc.From+1)
	assert.True(t, desc.WantTotal)
}

func TestBuildClampsPageBelowOne(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionHouses,
		Page:       0,
		PageSize:   8,
	})

	assert.Equal(t, 0, desc.From)
	assert.Equal(t, 7, desc.To)
}

func TestBuildLocationFilterIsSubstring(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionHouses,
		Location:   "Lagos",
		Page:       1,
		PageSize:   8,
	})

	if assert.Len(t, desc.Where, 1) {
		clause := desc.Where[0]
		if assert.Len(t, clause, 1) {
			assert.Equal(t, FieldLocation, clause[0].Field)
			assert.Equal(t, OpContains, clause[0].Op)
			assert.Equal(t, "Lagos", clause[0].Value)
		}
	}
}

func TestBuildAllDisablesFilters(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionRoommates,
		Location:   FilterAll,
		Gender:     FilterAll,
		Page:       1,
		PageSize:   8,
	})

	assert.Empty(t, desc.Where)
}

func TestBuildGenderOnlyAppliesToRoommates(t *testing.T) {
	houses := Build(Params{
		Collection: entity.CollectionHouses,
		Gender:     entity.GenderFemale,
		Page:       1,
		PageSize:   8,
	})
	assert.Empty(t, houses.Where)

	roommates := Build(Params{
		Collection: entity.CollectionRoommates,
		Gender:     entity.GenderFemale,
		Page:       1,
		PageSize:   8,
	})
	if assert.Len(t, roommates.Where, 1) {
		assert.Equal(t, Clause{
			{Field: FieldGenderPref, Op: OpEqual, Value: entity.GenderFemale},
		}, roommates.Where[0])
	}
}

func TestBuildSearchMatchesNameAndLocation(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionHouses,
		SearchTerm: "John",
		Page:       1,
		PageSize:   8,
	})

	if assert.Len(t, desc.Where, 1) {
		assert.Equal(t, Clause{
			{Field: FieldName, Op: OpContains, Value: "John"},
			{Field: FieldLocation, Op: OpContains, Value: "John"},
		}, desc.Where[0])
	}
}

func TestBuildSearchSkipsLocationWhenFiltered(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionHouses,
		Location:   "Abuja",
		SearchTerm: "duplex",
		Page:       1,
		PageSize:   8,
	})

	if assert.Len(t, desc.Where, 2) {
		assert.Equal(t, Clause{
			{Field: FieldName, Op: OpContains, Value: "duplex"},
		}, desc.Where[1])
	}
}

func TestBuildSearchCombinesWithGenderFilter(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionRoommates,
		Gender:     entity.GenderFemale,
		SearchTerm: "John",
		Page:       1,
		PageSize:   8,
	})

	// Gender is an independent conjunct; the search term stays a
	// name-or-location disjunction.
	if assert.Len(t, desc.Where, 2) {
		assert.Equal(t, Clause{
			{Field: FieldGenderPref, Op: OpEqual, Value: entity.GenderFemale},
		}, desc.Where[0])
		assert.Equal(t, Clause{
			{Field: FieldName, Op: OpContains, Value: "John"},
			{Field: FieldLocation, Op: OpContains, Value: "John"},
		}, desc.Where[1])
	}
}

func TestBuildBlankSearchIsIgnored(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionHouses,
		SearchTerm: "   ",
		Page:       1,
		PageSize:   8,
	})

	assert.Empty(t, desc.Where)
}

func TestBuildLocationPriceLowSecondPage(t *testing.T) {
	desc := Build(Params{
		Collection: entity.CollectionHouses,
		Location:   "lagos",
		SortKey:    SortPriceLow,
		Page:       2,
		PageSize:   8,
	})

	if assert.Len(t, desc.Where, 1) {
		assert.Equal(t, Clause{
			{Field: FieldLocation, Op: OpContains, Value: "lagos"},
		}, desc.Where[0])
	}
	assert.Equal(t, []Order{{Field: FieldPrice}, {Field: FieldID, Desc: true}}, desc.Sort)
	assert.Equal(t, 8, desc.From)
	assert.Equal(t, 15, desc.To)
}

func TestBuildSortKeys(t *testing.T) {
	cases := []struct {
		key  string
		want []Order
	}{
		{SortNewest, []Order{{Field: FieldCreatedAt, Desc: true}, {Field: FieldID, Desc: true}}},
		{SortPriceLow, []Order{{Field: FieldPrice}, {Field: FieldID, Desc: true}}},
		{SortPriceHigh, []Order{{Field: FieldPrice, Desc: true}, {Field: FieldID, Desc: true}}},
		{"bogus", []Order{{Field: FieldCreatedAt, Desc: true}, {Field: FieldID, Desc: true}}},
		{"", []Order{{Field: FieldCreatedAt, Desc: true}, {Field: FieldID, Desc: true}}},
	}

	for _, tc := range cases {
		desc := Build(Params{
			Collection: entity.CollectionHouses,
			SortKey:    tc.key,
			Page:       1,
			PageSize:   8,
		})
		assert.Equal(t, tc.want, desc.Sort, "sort key %q", tc.key)
	}
}
