/*
Package eventlog keeps the audit trail of the ledger.

Every successfully delivered transaction produces a Record holding the
events its handler emitted. Records are appended to a Journal file using
the go-amino length prefixed binary encoding and can be forwarded to any
number of publishers, a JSON lines writer or a Kafka topic.
*/
package eventlog
