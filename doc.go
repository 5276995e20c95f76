/*
Package remittance defines all common interfaces used to tie together the
escrow ledger and its supporting packages, as well as implementations of some
of the simpler components (when interfaces would be too much overhead).

Block level information, such as the height, the block time and the logger is
passed between the application, the decorators and the handlers using
context.Context. There exist two functions for every value of type T that is
supported in the context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so that a lower level module
cannot overwrite what the application declared.
*/
package remittance
