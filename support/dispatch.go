// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package support

import "errors"

// ErrUnknownCall is returned when a dispatcher is handed a call it does not own.
var ErrUnknownCall = errors.New("unknown call")

// Dispatcher routes [call], made on behalf of [caller], to the module that
// implements it.
type Dispatcher[Caller any, Call any] interface {
	Dispatch(caller Caller, call Call) error
}
