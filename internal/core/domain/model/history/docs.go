// Package history holds the audit trail types: Entry (a change to append),
// Record (an appended, immutable StatusChangeRecord) and StatusChanged (the
// event published for each record).
package history
