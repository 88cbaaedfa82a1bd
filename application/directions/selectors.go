package directions

import "route_automation/domain/entities"

// Maps DOM locators. The markup differs across locales and releases, so each
// target lists alternatives in order of preference. Update these when
// extraction breaks.

var ConsentButtons = []entities.Locator{
	entities.CSS("button[aria-label='Accept all']"),
	entities.CSS("button[aria-label='I agree']"),
}

var DirectionsButtons = []entities.Locator{
	entities.CSS("button[data-value='Directions']"),
	entities.CSS("button[aria-label='Directions']"),
	entities.XPath("//button[@data-value='Directions']"),
}

var StartInputs = []entities.Locator{
	entities.CSS("input[aria-label^='Choose starting point']"),
	entities.CSS("input[aria-label^='Starting point']"),
	entities.CSS("input.tactile-searchbox-input[aria-label*='starting']"),
	entities.CSS("input.tactile-searchbox-input"),
}

var DestinationInputs = []entities.Locator{
	entities.CSS("input[aria-label^='Choose destination']"),
	entities.CSS("input[aria-label^='Destination']"),
	entities.CSS("input.tactile-searchbox-input[aria-label*='destination']"),
	entities.CSS("input.tactile-searchbox-input"),
}

var RouteCards = []entities.Locator{
	entities.CSS("div[data-trip-index]"),
}

var StepsToggles = []entities.Locator{
	entities.CSS("button[data-value='Steps']"),
	entities.CSS("button[aria-label='Steps']"),
	entities.CSS("button[data-value='Details']"),
	entities.CSS("button[aria-label='Details']"),
}

var StepElements = []entities.Locator{
	entities.CSS("div[data-step-index]"),
}

// DirectionsURLMarker appears in the URL once a directions view is shown
const DirectionsURLMarker = "/dir/"
