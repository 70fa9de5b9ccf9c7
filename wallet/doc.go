// Package wallet connects a user's wallet to a node and drives the
// election contract on the user's behalf.
//
// A Session starts empty. Connect runs a wallet-selection dialog (a
// Connector, usually a Modal) that yields a Provider: a Wallet holding the
// account key together with a Backend connected to a node. The provider
// hands out read-only handles for LoadCandidates and signer handles for
// VoteForCandidate.
package wallet
