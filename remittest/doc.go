/*
Package remittest provides mocks and helpers shared by the ledger test
suites: authenticators, handlers, decorators and transactions.
*/
package remittest
