package entity

import (
	"time"
)

// Collection names mirror the backing tables. A roommate listing carries a
// gender preference; a house listing never does.
const (
	CollectionHouses    = "houses"
	CollectionRoommates = "roommates"
)

const (
	GenderAny    = "Any"
	GenderMale   = "Male"
	GenderFemale = "Female"
)

type Listing struct {
	ID          string    `json:"id" firestore:"id"`
	OwnerID     string    `json:"owner_id" firestore:"ownerId"`
	Name        string    `json:"name" firestore:"name"`
	Price       float64   `json:"price" firestore:"price"`
	Location    string    `json:"location" firestore:"location"`
	PhoneNumber string    `json:"phone_number,omitempty" firestore:"phoneNumber,omitempty"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	ImageURLs   []string  `json:"image_urls" firestore:"imageUrls"`
	GenderPref  string    `json:"gender_pref,omitempty" firestore:"genderPref,omitempty"`
	Views       int       `json:"views" firestore:"views"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

func ValidCollection(name string) bool {
	return name == CollectionHouses || name == CollectionRoommates
}

func ValidGenderPref(pref string) bool {
	return pref == GenderAny || pref == GenderMale || pref == GenderFemale
}
