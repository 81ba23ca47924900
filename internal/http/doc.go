// Package http provides HTTP handlers and middleware for the reservation API.
//
// The router exposes the following endpoints:
//   - POST /reservations: creates a reservation. DELETE /reservations/{id}
//     cancels one and triggers the waitlist promotion sweep for the freed
//     slot.
//   - GET /reservations/user/{userId}: every reservation the user owns or
//     participates in, cancelled ones included. GET
//     /reservations/room/{roomId}?date=YYYY-MM-DD: the room's confirmed
//     timeline enriched with owner details.
//   - POST /waitlist: queues the caller for an occupied slot. DELETE
//     /waitlist/{id}?user_id=N removes an entry; GET /waitlist/user/{userId}
//     lists a user's entries oldest first.
//   - GET /notifications/user/{userId}: the notification feed, newest
//     first. PATCH /notifications/{id}/read?user_id=N marks one read.
//   - GET /rooms: the read-only room catalog. GET /stats/popular-rooms:
//     the top rooms by all-time reservation count.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
