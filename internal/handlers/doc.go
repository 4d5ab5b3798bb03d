// Package handlers implements the HTTP API layer of the evidence store.
//
// Handlers delegate to the services layer and focus on request binding,
// response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	│  request id │ logger │ recovery │ timeout │ authenticate        │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Query parameter binding (api/v1)                             │
//	│  - Paging defaults and size cap                                 │
//	│  - Error mapping to HTTP status codes                           │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  Records (category catalog) │ Statistics │ Index                │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
// Record endpoints are registered once per category of the record service:
// claims, declarations, persons, publications, quotations, users, journals,
// publishers, topics, links, topic-refs, logs and statistics.
//
//	┌────────┬─────────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint                │ Description                          │
//	├────────┼─────────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /{category}             │ Page of records matching the filter  │
//	│ GET    │ /{category}/{id}        │ One record                           │
//	│ GET    │ /{category}/lookup      │ Records among ?ids=1,2,3             │
//	│ GET    │ /explain/{category}     │ Composed COUNT and SELECT (auth)     │
//	│ GET    │ /statistics/summary     │ Totals per kind and status           │
//	│ GET    │ /index                  │ Search index refresher status        │
//	│ POST   │ /index                  │ Rebuild the search index (auth)      │
//	│ GET    │ /categories             │ Served category names                │
//	│ GET    │ /health                 │ Liveness                             │
//	└────────┴─────────────────────────┴──────────────────────────────────────┘
//
// Statistics rows have no identity, so statistics has neither /{id} nor
// /lookup. Logs require an authenticated caller.
//
// # List Parameters
//
//	┌─────────────┬──────────┬────────────────────────────────────────────────┐
//	│ Parameter   │ Type     │ Description                                    │
//	├─────────────┼──────────┼────────────────────────────────────────────────┤
//	│ page        │ int      │ Zero based page number (default: 0)            │
//	│ size        │ int      │ Page size (default and cap from configuration) │
//	│ unpaged     │ bool     │ Return every match when no size is given       │
//	│ sort        │ []string │ property[,asc|desc][,nullsFirst|nullsLast]     │
//	│             │          │ [,ignoreCase], repeatable                      │
//	│ id          │ int64    │ Record id                                      │
//	│ status      │ []string │ DRA, PUB, SUS, DEL (codes or labels)           │
//	│ text        │ string   │ Full-text search term                          │
//	│ advanced    │ bool     │ Boolean search syntax: +a -b "c d" e*          │
//	└─────────────┴──────────┴────────────────────────────────────────────────┘
//
// Category specific parameters: topicId and recursive (tracked records,
// topic refs, statistics), fromEntityKind, fromEntityId, toEntityKind and
// toEntityId (tracked records, links), publisherId (journals), parentId and
// recursive (topics), masterEntityKind and masterEntityId (topic refs),
// entityKind, entityId, userId, transactionKind, from and to (logs).
//
// Example: /claims?status=PUB&topicId=10&recursive=true&sort=rating,desc&size=50
//
// Response:
//
//	{
//	    "content": [ { "id": 40, "entityKind": "CLA", "status": "PUB", ... } ],
//	    "totalElements": 3,
//	    "totalPages": 1,
//	    "number": 0,
//	    "size": 50,
//	    "numberOfElements": 3,
//	    "first": true,
//	    "last": true,
//	    "hasNext": false,
//	    "hasPrevious": false,
//	    "empty": false,
//	    "hasContent": true
//	}
//
// Anonymous callers only ever see published records.
//
// # Error Handling
//
// Handlers use a consistent error response format:
//
//	{ "error": "error message" }
//
// HTTP Status Code Mapping:
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ When                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ InvalidArgumentError        │ 400    │ Malformed filter/paging/sort │
//	│ UnauthorizedError           │ 401    │ Anonymous on protected route │
//	│ ResourceNotFoundError       │ 404    │ Unknown record or category   │
//	│ Internal error              │ 500    │ Query and execution failures │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
package handlers
