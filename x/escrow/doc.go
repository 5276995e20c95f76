/*
Package escrow implements the remittance ledger.

A depositor locks value under a claim key derived from two secrets and the
intermediary identity. Whoever can reproduce the key, by knowing both
secrets, withdraws the locked value. Until then the depositor may take the
value back once the deposit expired. Every deposit pays a fixed fee to the
intermediary it names, the fee accrues in the ledger until the
intermediary withdraws it.

All value held by the ledger sits in a single custody wallet of the cash
extension. The sum of all deposits and all fee accruals always equals the
custody balance, Ledger.Audit verifies it.
*/
package escrow
