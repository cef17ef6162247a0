// Package services holds the domain services that change an order and a courier
// together.
//
// The package includes:
//   - AssignmentCoordinator: offer, accept, decline, expire and the courier release
//     on cancellation
//   - DeliveryHandshake: courier arrival, patient receipt, force confirm and dispute
//     flagging
//
// Both services either apply the whole change to the order and the courier or leave
// both untouched. Persisting the pair atomically is up to the caller's unit of work.
package services
