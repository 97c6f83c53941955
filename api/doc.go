// Package api exposes the vehicle catalog and the matching pipeline over
// HTTP.
//
// Routes live under /api/v1/vehicles. A confident no-match is a successful
// response carrying an explicit null, so callers can tell "no such vehicle"
// apart from collaborator failures, which map to 502.
package api
