/*
Package cash keeps the custodial balances of the ledger participants.

There is a single asset and every address owns at most one wallet holding
a non negative balance. Value only ever moves between wallets, it is never
created except by IssueCoins which is reserved for genesis and tests.
*/
package cash
