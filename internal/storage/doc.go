// Package storage persists the bot's state documents.
//
// State is a handful of small named documents (subscriptions, schedule,
// push history), each loaded and saved as a whole; there are no partial
// updates and no cross-document transactions.
package storage
