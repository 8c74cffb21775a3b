package sites

import (
	"net/http"
	"time"
)

// All builds the full adapter set. The returned slice is the ingestion
// order; adapters are independent and safe to run concurrently.
func All(client *http.Client, now func() time.Time) []Adapter {
	return []Adapter{
		NewFillmore(client),
		NewMilkBoy(client),
		NewJohnnyBrendas(client),
		NewReadingTerminal(client, now),
		NewBarnes(client),
		NewEventbrite(client),
		NewDo215(now),
		NewPhilaMuseum(client, now),
		NewMagicGardens(client),
		NewRunSignUp(client, now),
		NewMuralArts(client),
		NewOldCity(client),
		NewPCMSConcerts(client),
		NewPhillyFilm(client),
		NewVisitPhilly(client),
		NewOurPhilly(client, now),
		NewPhillyRunner(client, now),
		NewMajorRaces(client, now),
		NewActive(client, now),
	}
}
