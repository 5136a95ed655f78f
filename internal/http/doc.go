// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints:
//   - GET /rooms: lists the room catalog ordered by name. Response: the standard
//     envelope with `data` holding an array of `roomDTO` payloads.
//   - GET /rooms/{roomId}/bookings: returns the room plus its bookings that have
//     not yet ended. Response: envelope with `data` holding `bookingDTO` payloads
//     and `room` holding the resolved `roomDTO`. Unknown rooms yield 404.
//   - POST /bookings: creates a reservation. Body: {"room_id","user_name",
//     "start_time","end_time"} with times in "2006-01-02 15:04:05" or RFC 3339
//     form. Responds 201 with the created `bookingDTO`, or 422 carrying field
//     level errors when validation fails or the slot is already taken.
//   - DELETE /bookings/{id}: cancels a reservation. Responds 200 on success and
//     404 when the booking does not exist.
//
// Every response uses the `{"success","data","message"}` envelope defined in
// responder.go. Request/response DTOs live alongside their respective handlers
// so tests and documentation share the same ground truth.
package http
