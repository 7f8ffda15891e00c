// Package dto contains Data Transfer Objects for HTTP requests and responses.
//
// Naming convention:
//   - Request types: <Action><Resource>Request (e.g., CreateClassifiedAdRequest)
//   - Conversion to use case input: ToInput
package dto
