package entities

// RouteRequest describes the directions to request from the mapping site
type RouteRequest struct {
	MapsURL     string `json:"maps_url"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// RouteResult is what a single run produced
type RouteResult struct {
	Instructions    []Instruction `json:"instructions"`
	SpreadsheetPath string        `json:"spreadsheet_path"`
	ScreenshotPath  string        `json:"screenshot_path"`
}
