package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error is provided, nil is returned. If a single error is provided,
// it is returned as it is. Otherwise a group error holding all of them is
// returned. Groups are flattened so that Append(Append(a, b), c) is a group
// of three.
func Append(errs ...error) error {
	var res []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			res = append(res, m.errs...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return &multiErr{errs: res}
	}
}

type multiErr struct {
	errs []error
}

var _ unpacker = (*multiErr)(nil)

func (m *multiErr) Unpack() []error {
	return m.errs
}

func (m *multiErr) Error() string {
	points := make([]string, len(m.errs))
	for i, err := range m.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m.errs), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error, consistent with the fail
// fast approach.
func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}
