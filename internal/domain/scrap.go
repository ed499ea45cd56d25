package domain

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMetalNotFound     = errors.New("scrap metal not found")
	ErrDuplicatePrice    = errors.New("price already recorded for metal and month")
	ErrInvalidPriceMonth = errors.New("price month must be between 1 and 12")
)

// ScrapMetal is a tracked scrap metal type
type ScrapMetal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MetalID     string             `bson:"metalId" json:"metalId"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// ScrapPrice is the buyer price of one metal for one calendar month, in
// EUR per kg with up to five decimal places. At most one record exists
// per (metal, month, year).
type ScrapPrice struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MetalID string             `bson:"metalId" json:"metalId"`
	Month   int                `bson:"month" json:"month"`
	Year    int                `bson:"year" json:"year"`
	Price   float64            `bson:"price" json:"price"`
}

// Validate checks the price row's month bounds
func (p *ScrapPrice) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidPriceMonth
	}
	return nil
}

// ScrapBin is a physical scrap container with a known tare weight
type ScrapBin struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name string             `bson:"name" json:"name"`
	Tara float64            `bson:"tara" json:"tara"`
}

// NetWeight converts a gross weighing on this bin to net kilograms,
// never below zero.
func (b *ScrapBin) NetWeight(brutto float64) float64 {
	netto := brutto - b.Tara
	if netto < 0 {
		return 0
	}
	return netto
}

// ScrapRecord is one weighed scrap item inside an export archive
type ScrapRecord struct {
	MetalID   string  `bson:"metalId" json:"metalId"`
	Netto     float64 `bson:"netto" json:"netto"`
	Timestamp int64   `bson:"timestamp" json:"timestamp"`
}

// ScrapArchive is one scrap export event ("sanon"): the dispatched items
// plus the buyer-reported payout, which is ground truth for external
// value.
type ScrapArchive struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ArchiveID     string             `bson:"archiveId" json:"archiveId"`
	DispatchDate  int64              `bson:"dispatchDate" json:"dispatchDate"`
	ExternalValue float64            `bson:"externalValue" json:"externalValue"`
	Items         []ScrapRecord      `bson:"items" json:"items"`
}

// TotalNetto sums the net weight of all items in the archive
func (a *ScrapArchive) TotalNetto() float64 {
	var sum float64
	for _, it := range a.Items {
		sum += it.Netto
	}
	return sum
}

// User is a directory entry backing display-name resolution
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID      string             `bson:"userId" json:"userId"`
	DisplayName string             `bson:"displayName" json:"displayName"`
}
