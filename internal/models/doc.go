// Package models defines the core domain models for cuentasclaritas.
//
// # Lifecycle
//
// A receipt moves through three shapes:
//   - Draft: the editable result of parsing OCR text, before anything is saved
//   - Ticket: a saved receipt, owning its StoredItems
//   - Assignment: a (ticket, item, participant) record claiming a share of an item
//
// # Design Principles
//
//  1. Opaque string IDs (UUID format) assigned by the stores
//  2. Money as decimal.Decimal, never float64
//  3. No pointers between models; relationships use ID strings
package models
