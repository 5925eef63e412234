package recreationgov

import "encoding/json"

// RIDB wraps every listing response in a RECDATA/METADATA envelope with
// SCREAMING_CASE keys. https://ridb.recreation.gov/docs

type paginationCounts struct {
	CurrentCount int `json:"CURRENT_COUNT"`
	TotalCount   int `json:"TOTAL_COUNT"`
}

type paginationMetadata struct {
	Results paginationCounts `json:"RESULTS"`
}

type envelope struct {
	RecData  json.RawMessage    `json:"RECDATA"`
	Metadata paginationMetadata `json:"METADATA"`
}

type facilityAddress struct {
	AddressStateCode string `json:"AddressStateCode"`
}

type recAreaRef struct {
	RecAreaID   json.Number `json:"RecAreaID"`
	RecAreaName string      `json:"RecAreaName"`
}

type organizationRef struct {
	OrgName string `json:"OrgName"`
}

type facilityRecord struct {
	FacilityID              json.Number       `json:"FacilityID"`
	FacilityName            string            `json:"FacilityName"`
	FacilityTypeDescription string            `json:"FacilityTypeDescription"`
	Enabled                 bool              `json:"Enabled"`
	Reservable              bool              `json:"Reservable"`
	ParentRecAreaID         json.Number       `json:"ParentRecAreaID"`
	FacilityAddress         []facilityAddress `json:"FACILITYADDRESS"`
	RecArea                 []recAreaRef      `json:"RECAREA"`
	Organization            []organizationRef `json:"ORGANIZATION"`
}

type recAreaRecord struct {
	RecAreaID      json.Number       `json:"RecAreaID"`
	RecAreaName    string            `json:"RecAreaName"`
	RecAreaAddress []facilityAddress `json:"RECAREAADDRESS"`
}

// The availability API on www.recreation.gov uses a different shape: a map
// of campsite ID to per-date status.

type campsiteAvailability struct {
	Availabilities map[string]string `json:"availabilities"`
	Loop           string            `json:"loop"`
	CampsiteType   string            `json:"campsite_type"`
	MaxNumPeople   int               `json:"max_num_people"`
	MinNumPeople   int               `json:"min_num_people"`
	TypeOfUse      string            `json:"type_of_use"`
	Site           string            `json:"site"`
}

type availabilityResponse struct {
	Campsites map[string]campsiteAvailability `json:"campsites"`
}
