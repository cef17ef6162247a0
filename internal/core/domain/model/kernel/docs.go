// Package kernel holds the value objects shared by every aggregate of the pharmacy core.
//
// The package includes:
//   - UUID: identifier of orders, couriers, notifications and users
//   - Coordinates: an optional geographic point attached to a delivery address
//   - Role and Actor: who performs an operation (patient, pharmacist, courier, admin or system)
//
// All values are immutable and safe for concurrent use.
package kernel
