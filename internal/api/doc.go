// Package api serves the REST surface of the net worth tracker.
//
// Every request passes through, in order: panic recovery, principal
// resolution (which binds the request to its user and group), request
// logging, route matching with metrics, and a per-route permission check.
// Handlers then reach item data only through networth.Gate.
//
// Routes under /api/v1/networth:
//
//	GET                    /summary
//	GET                    /ratios
//	GET, POST              /assets, /liabilities
//	GET, PUT, PATCH, DELETE /assets/{id}, /liabilities/{id}
package api
