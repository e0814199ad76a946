// Package response defines the JSON envelope returned by the API.
//
// Failures look like:
//
//	{
//	  "success": false,
//	  "error": {"code": "MISSING_API_KEY", "message": "API key is required"},
//	  "metadata": {"timestamp": "2026-03-01T09:30:00.000Z", "requestId": "req_1772357400000_k3j9x0a1b"}
//	}
//
// requestId is omitted when the request never reached the context tagger.
package response
