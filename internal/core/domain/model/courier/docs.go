// Package courier implements the Courier aggregate: a delivery person and the single
// active order they may hold.
//
// Key business rules:
//   - A courier is available exactly when it references no current order
//   - Reserve fails with errs.CourierUnavailableError when the courier is busy
//   - Release must name the order the courier currently holds
package courier
