/*
Package evmvote holds the errors shared by the packages that vote on an
election smart contract deployed on an Ethereum compatible chain.

The contract package binds the contract through its ABI, the wallet package
connects a wallet and keeps the voting session, and the voteclient command
drives both from a terminal.
*/
package evmvote
