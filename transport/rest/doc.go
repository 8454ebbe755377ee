// Package rest serves the recipe search HTTP API on a chi router.
//
// Routes:
//   - GET  /api/search        keyword and filters as query parameters
//   - POST /api/search        a JSON request body
//   - GET  /api/cuisines      cuisine tags present in the store
//   - GET  /api/recipes/{id}  one recipe by id
//   - GET  /metrics           Prometheus exposition, when metrics are enabled
//
// Every response carries permissive CORS headers and OPTIONS requests are
// answered directly.
package rest
