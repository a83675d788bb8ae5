// Package assistant implements the client side of one external AI backend
// call: submit a conversation turn, obtain a run handle, poll it to a
// terminal status on a fixed cadence, and extract the reply text.
//
// The Provider interface models the asynchronous run lifecycle
// (pending -> running -> completed | failed). Synchronous completion APIs are
// lifted onto that lifecycle by BackendProvider, so the Client's poll loop is
// uniform across backends. Concrete backends live in sub-packages (openai,
// anthropic); the core depends only on the Invoker contract, never on a
// provider's wire format.
package assistant
