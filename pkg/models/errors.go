package models

import "fmt"

// LocationNotFoundError represents a postcode that could not be geocoded
type LocationNotFoundError struct {
	Postcode string
	Reason   string
}

func (e *LocationNotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("location not found for postcode %q", e.Postcode)
	}
	return fmt.Sprintf("location not found for postcode %q: %s", e.Postcode, e.Reason)
}

// DataServiceError represents a failed generation-data download
type DataServiceError struct {
	Technology Technology
	StatusCode int // 0 when no response was received
	Detail     string
}

func (e *DataServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s data service error: %s", e.Technology, e.Detail)
	}
	return fmt.Sprintf("%s data service error (status %d): %s", e.Technology, e.StatusCode, e.Detail)
}
