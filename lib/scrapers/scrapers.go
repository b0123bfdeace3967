// Package scrapers collects the registry clients into the default
// source table consumed by the aggregator and the CLI.
package scrapers

import (
	"lobbyharvest-backend/lib/scrapers/aulobbying"
	"lobbyharvest-backend/lib/scrapers/cyprus"
	"lobbyharvest-backend/lib/scrapers/fara"
	"lobbyharvest-backend/lib/scrapers/hatvp"
	"lobbyharvest-backend/lib/scrapers/lobbyfacts"
	"lobbyharvest-backend/lib/scrapers/uklobbying"
	"lobbyharvest-backend/services/aggregator"
)

// DefaultSources returns every supported registry with default
// endpoints. The set is fixed; pointing a client at a mirror goes
// through its ClientOptions instead.
func DefaultSources() []aggregator.Source {
	return []aggregator.Source{
		lobbyfacts.NewClient(lobbyfacts.ClientOptions{}),
		fara.NewClient(fara.ClientOptions{}),
		uklobbying.NewClient(uklobbying.ClientOptions{}),
		aulobbying.NewClient(aulobbying.ClientOptions{}),
		hatvp.NewClient(hatvp.ClientOptions{}),
		cyprus.NewClient(cyprus.ClientOptions{}),
	}
}

// SourceByName looks up a single registry client from DefaultSources.
func SourceByName(name string) (aggregator.Source, bool) {
	for _, source := range DefaultSources() {
		if source.Name() == name {
			return source, true
		}
	}
	return nil, false
}
