package airport

import (
	"encoding/json"
	"fmt"

	"github.com/richardsabow/airports-backend/geo"
)

const (
	ID_FIELD   = "id"
	LAT_FIELD  = "lat"
	LON_FIELD  = "lon"
	NAME_FIELD = "name"
)

// Airport is a single search hit. Fields holds any extra indexed attributes;
// it is flattened next to the known ones when serialized.
type Airport struct {
	ID     string
	Lat    float64
	Lon    float64
	Name   string
	Fields map[string]interface{}
}

// RankedAirport pairs an airport with its distance in meters from the search center.
type RankedAirport struct {
	Airport  Airport
	Distance float64
}

func (a Airport) Location() geo.Point {
	return geo.Point{Latitude: a.Lat, Longitude: a.Lon}
}

func (a Airport) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(a.Fields)+4)
	for k, v := range a.Fields {
		out[k] = v
	}
	out[ID_FIELD] = a.ID
	out[LAT_FIELD] = a.Lat
	out[LON_FIELD] = a.Lon
	if a.Name != "" {
		out[NAME_FIELD] = a.Name
	}
	return json.Marshal(out)
}

func (a *Airport) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := FromFields(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FromFields builds an Airport out of a flat attribute map such as a search
// row's fields. lat and lon are mandatory numbers.
func FromFields(raw map[string]interface{}) (Airport, error) {
	var a Airport
	var ok bool

	if id, present := raw[ID_FIELD]; present {
		if a.ID, ok = id.(string); !ok {
			return Airport{}, fmt.Errorf("field %q is not a string", ID_FIELD)
		}
	}
	if a.Lat, ok = raw[LAT_FIELD].(float64); !ok {
		return Airport{}, fmt.Errorf("field %q missing or not a number", LAT_FIELD)
	}
	if a.Lon, ok = raw[LON_FIELD].(float64); !ok {
		return Airport{}, fmt.Errorf("field %q missing or not a number", LON_FIELD)
	}
	if name, present := raw[NAME_FIELD]; present {
		a.Name, _ = name.(string)
	}

	for k, v := range raw {
		switch k {
		case ID_FIELD, LAT_FIELD, LON_FIELD, NAME_FIELD:
			continue
		}
		if a.Fields == nil {
			a.Fields = make(map[string]interface{})
		}
		a.Fields[k] = v
	}
	return a, nil
}
