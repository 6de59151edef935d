package util

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/richardsabow/airports-backend/models/airport"
)

// ReadAirportsFromJSON loads a JSON array of flat airport records from disk.
func ReadAirportsFromJSON(filePath string) ([]airport.Airport, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var airports []airport.Airport
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal airports: %w", err)
	}
	return airports, nil
}
