package catalog

import "github.com/stocksentryhq/stocksentry-backend/pkg/db/models"

// FacilityDTO is the facility payload returned by listings.
type FacilityDTO struct {
	ID           uint   `json:"id"`
	FacilityCode string `json:"facility_code"`
	FacilityName string `json:"facility_name"`
	District     string `json:"district"`
	Region       string `json:"region"`
	FacilityType string `json:"facility_type"`
}

// CommodityDTO is the commodity payload returned by listings.
type CommodityDTO struct {
	ID            uint   `json:"id"`
	CommodityCode string `json:"commodity_code"`
	CommodityName string `json:"commodity_name"`
	CommodityType string `json:"commodity_type"`
	UnitOfMeasure string `json:"unit_of_measure"`
}

// NewFacilityDTO builds a DTO from the persisted model.
func NewFacilityDTO(facility models.Facility) FacilityDTO {
	return FacilityDTO{
		ID:           facility.ID,
		FacilityCode: facility.FacilityCode,
		FacilityName: facility.FacilityName,
		District:     facility.District,
		Region:       facility.Region,
		FacilityType: facility.FacilityType,
	}
}

// NewFacilityDTOs maps a facility list into its response shape.
func NewFacilityDTOs(facilities []models.Facility) []FacilityDTO {
	dtos := make([]FacilityDTO, len(facilities))
	for i, facility := range facilities {
		dtos[i] = NewFacilityDTO(facility)
	}
	return dtos
}

// NewCommodityDTO builds a DTO from the persisted model.
func NewCommodityDTO(commodity models.Commodity) CommodityDTO {
	return CommodityDTO{
		ID:            commodity.ID,
		CommodityCode: commodity.CommodityCode,
		CommodityName: commodity.CommodityName,
		CommodityType: commodity.CommodityType,
		UnitOfMeasure: commodity.UnitOfMeasure,
	}
}

// NewCommodityDTOs maps a commodity list into its response shape.
func NewCommodityDTOs(commodities []models.Commodity) []CommodityDTO {
	dtos := make([]CommodityDTO, len(commodities))
	for i, commodity := range commodities {
		dtos[i] = NewCommodityDTO(commodity)
	}
	return dtos
}
