// Package store houses concrete implementations of core.ConversationStore.
// The interface itself (and the ChatSession / Turn types) live in the core
// package to centralize domain contracts. Keeping only implementations here
// prevents higher level packages (engine, facade) from depending on concrete
// storage.
//
// The in-memory store in this package suits tests and ephemeral demo
// processes. Durable backends live in sub-packages (badger, sqlite) without
// changing any calling code - only the wiring layer decides which
// implementation to instantiate.
package store
