package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapBinNetWeight(t *testing.T) {
	bin := ScrapBin{Name: "B1", Tara: 12.5}

	assert.Equal(t, 87.5, bin.NetWeight(100))
	assert.Zero(t, bin.NetWeight(10), "gross below tare clamps to zero")
}

func TestScrapPriceValidate(t *testing.T) {
	assert.NoError(t, (&ScrapPrice{MetalID: "cu", Month: 12, Year: 2024, Price: 6.5}).Validate())
	assert.ErrorIs(t, (&ScrapPrice{MetalID: "cu", Month: 0, Year: 2024}).Validate(), ErrInvalidPriceMonth)
	assert.ErrorIs(t, (&ScrapPrice{MetalID: "cu", Month: 13, Year: 2024}).Validate(), ErrInvalidPriceMonth)
}

func TestScrapArchiveTotalNetto(t *testing.T) {
	archive := ScrapArchive{Items: []ScrapRecord{
		{MetalID: "cu", Netto: 10.5},
		{MetalID: "al", Netto: 4.5},
	}}
	assert.Equal(t, 15.0, archive.TotalNetto())
}
