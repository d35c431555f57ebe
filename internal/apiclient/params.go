package apiclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/timeutil"
)

// Params are GET query parameters. Nil values are omitted, times are sent as ISO-8601,
// and maps, slices and structs are JSON-encoded.
type Params map[string]any

// Encode renders the parameters as a sorted query string.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range p {
		if encoded, ok := formatParam(value); ok {
			values.Set(key, encoded)
		}
	}
	return values.Encode()
}

func formatParam(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case time.Time:
		return timeutil.FormatISO(v), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return timeutil.FormatISO(*v), true
	case json.RawMessage:
		return string(v), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return formatParam(rv.Elem().Interface())
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return "", false
		}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value), true
	}
	return string(raw), true
}
