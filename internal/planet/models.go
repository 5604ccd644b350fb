package planet

// Planet is a habitable exoplanet selected from the Kepler dataset.
// The set is rebuilt in full on every ingestion run; nothing mutates it
// afterwards.
type Planet struct {
	KeplerName string `json:"keplerName"`
}
