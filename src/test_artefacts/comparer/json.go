package comparer

import (
	"encoding/json"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// JSONRawMessage compares json.RawMessage semantically, ignoring key order
// and whitespace.
func JSONRawMessage() cmp.Option {
	return cmp.Comparer(func(x, y json.RawMessage) bool {
		if len(x) == 0 && len(y) == 0 {
			return true
		}
		if len(x) == 0 || len(y) == 0 {
			return false
		}

		var xObj, yObj interface{}
		if err := json.Unmarshal(x, &xObj); err != nil {
			return false
		}
		if err := json.Unmarshal(y, &yObj); err != nil {
			return false
		}

		return reflect.DeepEqual(xObj, yObj)
	})
}
