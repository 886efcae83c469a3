package external

// GeoNamesResponse is the geonames findNearbyPlaceName payload.
type GeoNamesResponse struct {
	GeoNames []GeoName       `json:"geonames"`
	Status   *GeoNamesStatus `json:"status,omitempty"`
}

// GeoName is a single nearby place. Coordinates are sent as strings.
type GeoName struct {
	GeonameID   int               `json:"geonameId"`
	Name        string            `json:"name"`
	Lat         string            `json:"lat"`
	Lng         string            `json:"lng"`
	CountryName string            `json:"countryName"`
	CountryCode string            `json:"countryCode"`
	AdminName1  *string           `json:"adminName1,omitempty"`
	Population  *int              `json:"population,omitempty"`
	Timezone    *GeoNamesTimezone `json:"timezone,omitempty"`
}

type GeoNamesTimezone struct {
	TimeZoneID string `json:"timeZoneId"`
}

// GeoNamesStatus is returned instead of results when the request is rejected,
// for example an unknown username or an exhausted credit limit.
type GeoNamesStatus struct {
	Message string `json:"message"`
	Value   int    `json:"value"`
}
