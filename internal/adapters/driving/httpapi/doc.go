// Package httpapi serves the JSON API used by the browser extension.
//
// Endpoints:
//
//	GET  /health      liveness probe
//	POST /index       index a visited page
//	POST /index/pdf   index an uploaded PDF
//	GET  /search      reranked search (q, limit)
//	POST /chat        answer a question from indexed pages
//	GET  /stats       index statistics
//	POST /clear       drop every indexed page
package httpapi
